package ratecard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeCard(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestNewRegistry_BuiltIn(t *testing.T) {
	r, err := NewRegistry("", zap.NewNop())
	require.NoError(t, err)

	require.NotNil(t, r.Current())
	assert.Equal(t, DefaultVersion, r.Current().Version)
	assert.False(t, r.LoadedAt().IsZero())

	// nothing to reload
	assert.NoError(t, r.Reload())

	_, err = r.StartReloader("@every 1m")
	assert.Error(t, err)
}

func TestNewRegistry_MissingFile(t *testing.T) {
	_, err := NewRegistry(filepath.Join(t.TempDir(), "missing.yaml"), zap.NewNop())
	assert.Error(t, err)
}

func TestRegistry_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratecard.yaml")
	writeCard(t, path, minimalCard)

	r, err := NewRegistry(path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "test-1", r.Current().Version)

	writeCard(t, path, strings.Replace(minimalCard, `"test-1"`, `"test-2"`, 1))
	require.NoError(t, r.Reload())
	assert.Equal(t, "test-2", r.Current().Version)

	t.Run("broken_file_keeps_previous_card", func(t *testing.T) {
		writeCard(t, path, strings.Replace(minimalCard, `discount_cap_basis: "1000"`, `discount_cap_basis: "0"`, 1))

		err := r.Reload()
		require.Error(t, err)
		assert.Equal(t, "test-2", r.Current().Version)
	})
}

func TestRegistry_StartReloader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratecard.yaml")
	writeCard(t, path, minimalCard)

	r, err := NewRegistry(path, zap.NewNop())
	require.NoError(t, err)

	_, err = r.StartReloader("not a schedule")
	assert.Error(t, err)

	c, err := r.StartReloader("@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}

func TestNewStaticRegistry(t *testing.T) {
	card := Default()
	r := NewStaticRegistry(card, zap.NewNop())

	assert.Same(t, card, r.Current())
	assert.NoError(t, r.Reload())
	assert.Same(t, card, r.Current())
}
