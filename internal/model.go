package internal

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
)

// Model is the Bubble Tea model. It owns the ClientState and is the only
// writer of it.
type Model struct {
	program *tea.Program

	// Configuration
	cfgPath     string
	prefs       *Settings
	logger      *slog.Logger
	debugBuffer *DebugBuffer
	soundPlayer *SoundPlayer

	msgHandlers map[reflect.Type]msgHandler

	state    *ClientState
	engine   Engine
	fragment *Fragment
	now      func() time.Time

	// Screens
	zones      *zone.Manager
	chatScreen *ChatScreen
	logsScreen *LogsScreen
	showLogs   bool

	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc
}

func NewModel(cfgPath string, prefs *Settings, engine Engine, fragment *Fragment, logger *slog.Logger, db *DebugBuffer) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	zones := zone.New()

	m := Model{
		cfgPath:     cfgPath,
		prefs:       prefs,
		logger:      logger,
		debugBuffer: db,
		msgHandlers: make(map[reflect.Type]msgHandler),
		state:       NewClientState(engine.Nym()),
		engine:      engine,
		fragment:    fragment,
		now:         time.Now,
		zones:       zones,
		chatScreen:  NewChatScreen(zones),
		logsScreen:  NewLogsScreen(db, 0, 0),
		ctx:         ctx,
		cancel:      cancel,
	}

	logger.Debug("Loaded settings", "path", cfgPath, "engine", prefs.Engine, "nym", engine.Nym())

	soundPlayer, err := NewSoundPlayer(prefs.EnableSounds)
	if err != nil {
		logger.Error("Failed to initialize sound player", "err", err)
	} else {
		m.soundPlayer = soundPlayer
	}

	return &m
}

func (m *Model) Init() tea.Cmd {
	m.registerHandler(tea.WindowSizeMsg{}, m.handleWindowResize)
	m.registerHandler(tea.KeyMsg{}, m.handleKeyMsg)
	m.registerHandler(tea.MouseMsg{}, m.handleMouseMsg)
	m.registerHandler(tickMsg{}, m.handleTickMsg)

	m.registerHandler(joinMsg{}, m.handleJoinMsg)
	m.registerHandler(partMsg{}, m.handlePartMsg)
	m.registerHandler(sayMsg{}, m.handleSayMsg)
	m.registerHandler(peerMsg{}, m.handlePeerMsg)
	m.registerHandler(disconnectMsg{}, m.handleDisconnectMsg)

	m.registerHandler(fragmentChangedMsg{}, m.handleFragmentChangedMsg)
	m.registerHandler(engineErrorMsg{}, m.handleEngineErrorMsg)

	m.state.AppendInfo(m.now().UnixMilli(), helpLines()...)
	m.update()

	return tea.Batch(tickCmd(), m.startupCmd(m.fragment.Read()))
}

// startupCmd joins the status channel, starts the engine, then joins the
// remembered channel. The status join does not wait for the engine to connect.
func (m *Model) startupCmd(remembered string) tea.Cmd {
	startup := []tea.Cmd{
		m.joinCmd(StatusChannel),
		m.engineCmd("start", func() error { return m.engine.Start(m.ctx) }),
	}
	if remembered != "" && remembered != "#" {
		startup = append(startup, m.joinCmd(remembered))
	}
	return tea.Sequence(startup...)
}

// Update routes one event. A panicking handler is logged and the event is
// dropped; the loop keeps running.
func (m *Model) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("Event handler panicked", "msg", fmt.Sprintf("%T", msg), "panic", r, "stack", string(debug.Stack()))
			model, cmd = m, nil
		}
	}()

	m.logger.Debug("Update UI", "tea.Msg", fmt.Sprintf("%T", msg), "channel", m.state.Current)

	// Handle global keybindings
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+q":
			return m, m.quit()
		case "ctrl+l":
			if !m.showLogs {
				m.showLogs = true
				m.logsScreen.RefreshContent()
				return m, nil
			}
		}
	}

	if m.showLogs {
		if _, ok := msg.(tea.KeyMsg); ok {
			closed, cmd := m.logsScreen.Update(msg)
			if closed {
				m.showLogs = false
			}
			return m, cmd
		}
	}

	// Check if we have a registered handler for this message type
	if handler, ok := m.msgHandlers[reflect.TypeOf(msg)]; ok {
		return handler(msg)
	}

	return m, nil
}

func (m *Model) View() string {
	if m.showLogs {
		return m.logsScreen.View()
	}
	return m.zones.Scan(m.chatScreen.View())
}

// update renders the state and commits the result to the chat screen, then
// records the measured heights of the current channel.
func (m *Model) update() {
	current := m.state.Current
	v := Render(m.state, len(m.engine.Peers(current)), m.now(), m.width)

	if err := m.fragment.Write(v.Fragment); err != nil {
		m.logger.Error("Failed to write fragment", "err", err)
	}

	m.chatScreen.Commit(v)

	viewport, content := m.chatScreen.Measure()
	m.state.Measure(current, viewport, content)
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	if err := m.engine.Close(); err != nil {
		m.logger.Error("Failed to close engine", "err", err)
	}
	if m.soundPlayer != nil {
		m.soundPlayer.Close()
	}
	m.zones.Close()
	return tea.Quit
}

// engineCmd runs an engine call off the event loop. Engines deliver their
// events through program.Send, which must not be called from the loop itself.
func (m *Model) engineCmd(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return engineErrorMsg{op: op, err: err}
		}
		return nil
	}
}

func (m *Model) joinCmd(channel string) tea.Cmd {
	return m.engineCmd("join "+channel, func() error {
		return m.engine.Join(channel)
	})
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Start() error {
	m.program = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	m.engine.Subscribe(m.program.Send)

	err := m.fragment.Watch(m.ctx, func(channel string) {
		m.program.Send(fragmentChangedMsg{channel: channel})
	})
	if err != nil {
		m.logger.Error("Failed to watch fragment", "err", err)
	}

	_, err = m.program.Run()
	m.cancel()
	return err
}
