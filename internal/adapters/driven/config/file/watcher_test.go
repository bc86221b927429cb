package file

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Set("reader.page_size", 10))

	w, err := NewWatcher(store)
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := w.Watch(ctx)

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(store.Path(), []byte("[reader]\npage_size = 42\n"), 0600)
	}()

	select {
	case <-reloaded:
		assert.Equal(t, 42, store.GetInt("reader.page_size"))
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for config reload")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	store := newTestStore(t)
	w, err := NewWatcher(store)
	require.NoError(t, err)
	defer w.Close()
	w.debounce = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reloaded := w.Watch(ctx)

	require.NoError(t, os.WriteFile(store.Path()+".bak", []byte("x"), 0600))

	select {
	case <-reloaded:
		t.Fatal("unexpected reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_ClosesChannelOnCancel(t *testing.T) {
	store := newTestStore(t)
	w, err := NewWatcher(store)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := w.Watch(ctx)
	cancel()

	select {
	case _, ok := <-reloaded:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}
