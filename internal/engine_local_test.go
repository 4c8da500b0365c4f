package internal

import (
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) record(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) take() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.msgs
	r.msgs = nil
	return msgs
}

func openTestEngine(t *testing.T, path string) (*LocalEngine, *recorder) {
	t.Helper()

	e, err := OpenLocalEngine(path, "abc123", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	clock := int64(1000)
	e.now = func() time.Time {
		clock++
		return time.UnixMilli(clock)
	}

	r := &recorder{}
	e.Subscribe(r.record)
	return e, r
}

func TestLocalEngine_SayEchoesAndStores(t *testing.T) {
	e, r := openTestEngine(t, "")

	require.NoError(t, e.Say("#a", "hello"))

	msgs := r.take()
	require.Len(t, msgs, 1)
	say, ok := msgs[0].(sayMsg)
	require.True(t, ok)
	assert.Equal(t, "#a", say.channel)
	assert.Equal(t, "abc123", say.row.Who)
	assert.Equal(t, "hello", say.row.Message)

	rows, err := e.history("#a")
	require.NoError(t, err)
	assert.Equal(t, []ChatRow{say.row}, rows)
}

func TestLocalEngine_JoinReplaysHistoryOnce(t *testing.T) {
	e, r := openTestEngine(t, "")

	require.NoError(t, e.Say("#a", "one"))
	e.SetNym("other")
	require.NoError(t, e.Say("#a", "two"))
	require.NoError(t, e.Say("#b", "elsewhere"))
	r.take()

	require.NoError(t, e.Join("#a"))
	msgs := r.take()
	require.Len(t, msgs, 3)
	assert.Equal(t, joinMsg{channel: "#a"}, msgs[0])
	assert.Equal(t, "one", msgs[1].(sayMsg).row.Message)
	assert.Equal(t, "abc123", msgs[1].(sayMsg).row.Who)
	assert.Equal(t, "two", msgs[2].(sayMsg).row.Message)
	assert.Equal(t, "other", msgs[2].(sayMsg).row.Who)

	require.NoError(t, e.Join("#a"))
	assert.Equal(t, []tea.Msg{joinMsg{channel: "#a"}}, r.take())
}

func TestLocalEngine_Part(t *testing.T) {
	e, r := openTestEngine(t, "")

	require.NoError(t, e.Part("#a"))

	assert.Equal(t, []tea.Msg{partMsg{channel: "#a"}}, r.take())
	assert.Empty(t, e.Peers("#a"))
}

func TestLocalEngine_HistorySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	e, _ := openTestEngine(t, path)
	require.NoError(t, e.Say("#a", "persisted"))
	require.NoError(t, e.Close())

	e, r := openTestEngine(t, path)
	require.NoError(t, e.Join("#a"))

	msgs := r.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, "persisted", msgs[1].(sayMsg).row.Message)
}

func TestNewEngine(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e, err := NewEngine(&Settings{}, "nym", logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalEngine{}, e)
	assert.Equal(t, "nym", e.Nym())
	require.NoError(t, e.Close())

	e, err = NewEngine(&Settings{Engine: EngineHotline, Hotline: HotlineSettings{Addr: "localhost"}}, "nym", logger)
	require.NoError(t, err)
	assert.IsType(t, &HotlineEngine{}, e)
	assert.Empty(t, e.Peers("#lobby"))

	_, err = NewEngine(&Settings{Engine: "carrier-pigeon"}, "nym", logger)
	assert.Error(t, err)
}
