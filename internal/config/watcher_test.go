package config_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/config"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()

	var (
		mx   sync.Mutex
		seen []string
	)
	w, err := config.NewWatcher(func(p string) {
		mx.Lock()
		defer mx.Unlock()
		seen = append(seen, filepath.Base(p))
	}, nil, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	p := filepath.Join(dir, "acme-items.yaml")
	for i := range 3 {
		require.NoError(t, os.WriteFile(p, []byte{byte('a' + i)}, 0o600))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	require.Eventually(t, func() bool {
		mx.Lock()
		defer mx.Unlock()
		return len(seen) > 0
	}, 2*time.Second, 20*time.Millisecond)

	time.Sleep(2 * config.DefaultWatchDebounce)
	mx.Lock()
	defer mx.Unlock()
	assert.Equal(t, []string{"acme-items.yaml"}, seen)
}

func TestWatcherBadDir(t *testing.T) {
	_, err := config.NewWatcher(func(string) {}, nil, filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
