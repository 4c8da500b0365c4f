package internal

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/nymchat/internal/style"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"
)

const channelListWidth = 16

// chatScreenKeyMap defines key bindings for the chat screen
type chatScreenKeyMap struct {
	Next     key.Binding
	Prev     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Send     key.Binding
	Logs     key.Binding
	Quit     key.Binding
}

func (k chatScreenKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Logs, k.Quit}
}

func (k chatScreenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.PageUp, k.PageDown, k.Send, k.Logs, k.Quit},
	}
}

func newChatScreenKeyMap() chatScreenKeyMap {
	return chatScreenKeyMap{
		Next: key.NewBinding(
			key.WithKeys("ctrl+j", "ctrl+down"),
			key.WithHelp("^J", "next"),
		),
		Prev: key.NewBinding(
			key.WithKeys("ctrl+k", "ctrl+up"),
			key.WithHelp("^K", "prev"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("^L", "logs"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q"),
			key.WithHelp("^Q", "quit"),
		),
	}
}

// clickTarget is what a mouse click on the chat screen landed on.
type clickTarget struct {
	channel string
	link    string
}

// ChatScreen owns the widgets the committed View is drawn into.
type ChatScreen struct {
	viewport viewport.Model
	input    textinput.Model
	help     help.Model
	keys     chatScreenKeyMap
	zones    *zone.Manager
	prefix   string

	width, height int

	// Last committed frame
	view        View
	channelList string
	links       []string
}

func NewChatScreen(zones *zone.Manager) *ChatScreen {
	input := textinput.New()
	input.Placeholder = "Type a message or /help"
	input.Prompt = ""
	input.Focus()

	return &ChatScreen{
		viewport: viewport.New(0, 0),
		input:    input,
		help:     help.New(),
		keys:     newChatScreenKeyMap(),
		zones:    zones,
		prefix:   zones.NewPrefix(),
	}
}

// SetSize updates dimensions. The caller re-commits afterwards.
func (s *ChatScreen) SetSize(width, height int) {
	s.width = width
	s.height = height

	// Title, status line and input take one line each.
	s.viewport.Width = max(1, width-channelListWidth-2)
	s.viewport.Height = max(1, height-3)
}

// Commit draws v into the widgets and forces the conversation to v.Scroll.
// The viewport clamps the offset to its content.
func (s *ChatScreen) Commit(v View) {
	s.view = v
	s.links = s.links[:0]

	var list strings.Builder
	for i, item := range v.Channels {
		name := channelStyle(item.Class).Render(truncate(item.Name, channelListWidth))
		list.WriteString(s.zones.Mark(s.channelZone(i), name))
		list.WriteString("\n")
	}
	s.channelList = list.String()

	var content strings.Builder
	for _, line := range v.Lines {
		content.WriteString(s.wrapLine(s.renderLine(line)))
		content.WriteString("\n")
	}
	s.viewport.SetContent(strings.TrimSuffix(content.String(), "\n"))
	s.viewport.SetYOffset(v.Scroll)

	s.input.Width = v.InputWidth
}

// Measure reports the committed conversation's viewport and content heights.
func (s *ChatScreen) Measure() (viewportHeight, contentHeight int) {
	return s.viewport.Height, s.viewport.TotalLineCount()
}

func (s *ChatScreen) renderLine(line LineView) string {
	var b strings.Builder
	b.WriteString(style.TimeStyle.Render(line.Time))
	b.WriteString(" ")

	who := "<" + line.Who + ">"
	if line.Who == infoSender {
		b.WriteString(style.InfoStyle.Render(who))
	} else {
		b.WriteString(style.NymStyle(line.Who).Render(who))
	}
	b.WriteString(" ")

	for _, seg := range line.Segments {
		if !seg.Link {
			b.WriteString(seg.Text)
			continue
		}
		id := s.linkZone(len(s.links))
		s.links = append(s.links, seg.Text)
		b.WriteString(s.zones.Mark(id, style.LinkStyle.Render(seg.Text)))
	}
	return b.String()
}

// wrapLine wraps a rendered line to fit within the conversation width.
func (s *ChatScreen) wrapLine(line string) string {
	wrapWidth := s.viewport.Width
	if wrapWidth < 5 {
		wrapWidth = 5 // Minimum for edge cases
	}

	// wordwrap.String handles ANSI codes correctly
	return wordwrap.String(line, wrapWidth)
}

// View lays out the last committed frame.
func (s *ChatScreen) View() string {
	title := style.Gradient("nymchat", style.GradientStart, style.GradientEnd) + "  " + s.help.View(s.keys)

	list := style.ChannelListStyle.
		Width(channelListWidth).
		Height(s.viewport.Height).
		MaxHeight(s.viewport.Height).
		Render(s.channelList)

	status := style.StatusStyle.
		Width(max(1, s.width)).
		Render(fmt.Sprintf("[%s] [%s] %d peers", s.view.Clock, s.view.Nym, s.view.Peers))

	prompt := style.PromptStyle.Render(s.view.Prompt) + " " + s.input.View()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		lipgloss.JoinHorizontal(lipgloss.Top, list, " ", s.viewport.View()),
		status,
		prompt,
	)
}

// TargetAt returns the channel or link under a mouse event.
func (s *ChatScreen) TargetAt(msg tea.MouseMsg) (clickTarget, bool) {
	for i, item := range s.view.Channels {
		if z := s.zones.Get(s.channelZone(i)); z != nil && z.InBounds(msg) {
			return clickTarget{channel: item.Name}, true
		}
	}
	for i, href := range s.links {
		if z := s.zones.Get(s.linkZone(i)); z != nil && z.InBounds(msg) {
			return clickTarget{link: href}, true
		}
	}
	return clickTarget{}, false
}

// ScrollWith lets the viewport handle a mouse wheel event and returns the
// resulting offset.
func (s *ChatScreen) ScrollWith(msg tea.MouseMsg) int {
	s.viewport, _ = s.viewport.Update(msg)
	return s.viewport.YOffset
}

// TakeInput returns the compose line and clears it.
func (s *ChatScreen) TakeInput() string {
	text := s.input.Value()
	s.input.Reset()
	return text
}

// UpdateInput forwards a key to the compose field.
func (s *ChatScreen) UpdateInput(msg tea.Msg) tea.Cmd {
	if !s.input.Focused() {
		s.input.Focus()
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *ChatScreen) channelZone(i int) string {
	return fmt.Sprintf("%schannel-%d", s.prefix, i)
}

func (s *ChatScreen) linkZone(i int) string {
	return fmt.Sprintf("%slink-%d", s.prefix, i)
}

func channelStyle(class string) lipgloss.Style {
	switch class {
	case classCurrent:
		return style.ChannelCurrentStyle
	case ActivityMentioned.String():
		return style.ChannelMentionedStyle
	case ActivityActive.String():
		return style.ChannelActivityStyle
	}
	return style.ChannelStyle
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	if len(r) > width-1 {
		r = r[:width-1]
	}
	return string(r) + "…"
}
