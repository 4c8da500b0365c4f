package internal

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/nymchat/internal/style"
)

// logsScreenKeyMap defines key bindings for the logs overlay help display
type logsScreenKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Back key.Binding
}

func (k logsScreenKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Back}
}

func (k logsScreenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Back}}
}

// LogsScreen is an overlay showing the client's own log output
type LogsScreen struct {
	viewport      viewport.Model
	width, height int
	help          help.Model
	keys          logsScreenKeyMap
	debugBuffer   *DebugBuffer
}

func NewLogsScreen(debugBuffer *DebugBuffer, width, height int) *LogsScreen {
	keys := logsScreenKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "ctrl+l"),
			key.WithHelp("esc", "back"),
		),
	}

	s := &LogsScreen{
		viewport:    viewport.New(max(1, width-10), max(1, height-10)),
		width:       width,
		height:      height,
		help:        help.New(),
		keys:        keys,
		debugBuffer: debugBuffer,
	}
	s.RefreshContent()
	return s
}

// Update handles a message and reports whether the overlay should close.
func (s *LogsScreen) Update(msg tea.Msg) (closed bool, cmd tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return false, nil
	case tea.KeyMsg:
		if key.Matches(msg, s.keys.Back) {
			return true, nil
		}
	}

	s.viewport, cmd = s.viewport.Update(msg)
	return false, cmd
}

func (s *LogsScreen) View() string {
	return style.RenderSubscreen(s.width, s.height, "Logs",
		lipgloss.JoinVertical(
			lipgloss.Left,
			s.viewport.View(),
			" ",
			lipgloss.JoinHorizontal(
				lipgloss.Left,
				s.help.View(s.keys),
				"  ",
				fmt.Sprintf("%3.f%%", s.viewport.ScrollPercent()*100),
			),
		),
	)
}

func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.Width = max(1, width-10)
	s.viewport.Height = max(1, height-10)
}

// RefreshContent updates the viewport content from the debug buffer
func (s *LogsScreen) RefreshContent() {
	s.viewport.SetContent(s.debugBuffer.String())
	s.viewport.GotoBottom()
}
