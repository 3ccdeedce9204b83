package ratecard

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kevin07696/fee-service/pkg/observability"
	"github.com/kevin07696/fee-service/pkg/timeutil"
)

// Registry serves the active rate card. Reads are lock-free; a reload swaps
// the card only after the new file has been parsed and validated.
type Registry struct {
	path     string
	current  atomic.Pointer[RateCard]
	loadedAt atomic.Int64
	logger   *zap.Logger
}

// NewRegistry loads the card at path, or the built-in card when path is empty
func NewRegistry(path string, logger *zap.Logger) (*Registry, error) {
	r := &Registry{path: path, logger: logger}

	if path == "" {
		r.store(Default())
		logger.Info("Using built-in rate card", zap.String("version", DefaultVersion))
		return r, nil
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewStaticRegistry serves a fixed card that is never reloaded
func NewStaticRegistry(card *RateCard, logger *zap.Logger) *Registry {
	r := &Registry{logger: logger}
	r.store(card)
	return r
}

// Current returns the active rate card
func (r *Registry) Current() *RateCard {
	return r.current.Load()
}

// LoadedAt returns when the active card was installed
func (r *Registry) LoadedAt() time.Time {
	return time.Unix(0, r.loadedAt.Load()).UTC()
}

// Reload re-reads the rate card file. On failure the previous card stays active.
func (r *Registry) Reload() error {
	if r.path == "" {
		return nil
	}

	card, err := LoadFile(r.path)
	if err != nil {
		observability.RecordRateCardReload(false)
		r.logger.Error("Failed to load rate card",
			zap.String("path", r.path),
			zap.Error(err),
		)
		return err
	}

	previous := r.Current()
	r.store(card)
	observability.RecordRateCardReload(true)

	fields := []zap.Field{
		zap.String("path", r.path),
		zap.String("version", card.Version),
		zap.Int("store_tiers", len(card.StoreTiers)),
		zap.Int("promotions", len(card.Promotions)),
	}
	if previous != nil {
		fields = append(fields, zap.String("previous_version", previous.Version))
	}
	r.logger.Info("Rate card loaded", fields...)
	return nil
}

// StartReloader reloads the card on a cron schedule (e.g. "@every 5m").
// The returned scheduler must be stopped by the caller.
func (r *Registry) StartReloader(schedule string) (*cron.Cron, error) {
	if r.path == "" {
		return nil, fmt.Errorf("rate card reload requires a file path")
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		// Reload logs its own failures; the previous card keeps serving.
		_ = r.Reload()
	}); err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", schedule, err)
	}
	c.Start()

	r.logger.Info("Rate card reloader started",
		zap.String("path", r.path),
		zap.String("schedule", schedule),
	)
	return c, nil
}

func (r *Registry) store(card *RateCard) {
	r.current.Store(card)
	r.loadedAt.Store(timeutil.Now().UnixNano())
	observability.SetRateCardInfo(card.Version)
}
