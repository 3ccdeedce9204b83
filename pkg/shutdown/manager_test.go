package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_ShutdownOrder(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Second)

	var order []string
	for _, name := range []string{"reloader", "metrics_server", "http_server"} {
		name := name
		m.RegisterNoErr(name, func() { order = append(order, name) })
	}

	require.NoError(t, m.Shutdown())
	assert.Equal(t, []string{"http_server", "metrics_server", "reloader"}, order)
}

func TestManager_CollectsErrorsAndContinues(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Second)

	boom := errors.New("boom")
	ran := false
	m.RegisterNoErr("first", func() { ran = true })
	m.Register("second", func(context.Context) error { return boom })

	err := m.Shutdown()
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "second")
	assert.True(t, ran)
}

func TestManager_ShutdownOnce(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Second)

	calls := 0
	m.RegisterNoErr("counter", func() { calls++ })

	require.NoError(t, m.Shutdown())
	require.NoError(t, m.Shutdown())
	assert.Equal(t, 1, calls)
}

func TestManager_ContextCarriesTimeout(t *testing.T) {
	m := NewManager(zap.NewNop(), 50*time.Millisecond)

	var deadline time.Time
	m.Register("inspect", func(ctx context.Context) error {
		var ok bool
		deadline, ok = ctx.Deadline()
		assert.True(t, ok)
		return nil
	})

	require.NoError(t, m.Shutdown())
	assert.WithinDuration(t, time.Now(), deadline, time.Second)
}
