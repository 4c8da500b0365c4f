package internal

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFragment(t *testing.T) (*Fragment, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nymchat", "fragment")
	return NewFragment(path, slog.New(slog.NewTextHandler(io.Discard, nil))), path
}

func TestFragment_ReadWrite(t *testing.T) {
	f, path := newTestFragment(t)

	assert.Equal(t, "", f.Read())

	require.NoError(t, f.Write("#dev"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#dev\n", string(data))

	assert.Equal(t, "#dev", NewFragment(path, f.logger).Read())
}

func TestFragment_WriteSkipsUnchanged(t *testing.T) {
	f, path := newTestFragment(t)
	require.NoError(t, f.Write("#dev"))

	require.NoError(t, os.WriteFile(path, []byte("#other\n"), 0644))
	require.NoError(t, f.Write("#dev"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "#other\n", string(data))
}

func TestFragment_Disabled(t *testing.T) {
	f := NewFragment("", slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, "", f.Read())
	assert.NoError(t, f.Write("#dev"))
	assert.NoError(t, f.Watch(context.Background(), func(string) {
		t.Fatal("disabled fragment notified")
	}))
}

func TestFragment_WatchReportsExternalEdits(t *testing.T) {
	f, path := newTestFragment(t)
	require.NoError(t, f.Write("#mine"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan string, 10)
	require.NoError(t, f.Watch(ctx, func(channel string) { changes <- channel }))

	require.NoError(t, os.WriteFile(path, []byte("#theirs\n"), 0644))

	select {
	case got := <-changes:
		assert.Equal(t, "#theirs", got)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	// Our own writes are not reported back.
	require.NoError(t, f.Write("#mine"))
	select {
	case got := <-changes:
		t.Fatalf("own write reported as %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}
