package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrChannelUnavailable is returned when an engine cannot carry a channel.
var ErrChannelUnavailable = errors.New("channel not available")

// Engine is the chat network the client renders. Implementations deliver
// join, part, say, peer and disconnect events through the subscriber, from
// their own goroutines.
type Engine interface {
	Subscribe(fn func(tea.Msg))
	Start(ctx context.Context) error
	Join(channel string) error
	Part(channel string) error
	Say(channel, text string) error
	Nym() string
	SetNym(nym string)
	Peers(channel string) []string
	Close() error
}

// NewEngine builds the engine selected in prefs.
func NewEngine(prefs *Settings, nym string, logger *slog.Logger) (Engine, error) {
	switch prefs.Engine {
	case "", EngineLocal:
		return OpenLocalEngine(prefs.HistoryDB, nym, logger)
	case EngineHotline:
		return NewHotlineEngine(prefs.Hotline, nym, logger), nil
	}
	return nil, fmt.Errorf("unknown engine %q", prefs.Engine)
}

// emitter fans engine events out to the subscriber.
type emitter struct {
	mu sync.RWMutex
	fn func(tea.Msg)
}

func (e *emitter) Subscribe(fn func(tea.Msg)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fn = fn
}

func (e *emitter) emit(msg tea.Msg) {
	e.mu.RLock()
	fn := e.fn
	e.mu.RUnlock()

	if fn != nil {
		fn(msg)
	}
}

// nymHolder is the engine-side nym shared by the engine implementations.
type nymHolder struct {
	mu  sync.RWMutex
	nym string
}

func (n *nymHolder) Nym() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.nym
}

func (n *nymHolder) SetNym(nym string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nym = nym
}
