package internal

import (
	"cmp"
	"fmt"
	"reflect"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type msgHandler = func(msg tea.Msg) (tea.Model, tea.Cmd)

// registerHandler registers a message handler for the given message type.
// The msgType parameter should be a zero-value instance of the message type.
func (m *Model) registerHandler(msgType tea.Msg, handler msgHandler) {
	t := reflect.TypeOf(msgType)
	m.msgHandlers[t] = handler
}

func (m *Model) handleWindowResize(msg tea.Msg) (tea.Model, tea.Cmd) {
	windowMsg := msg.(tea.WindowSizeMsg)
	m.width = windowMsg.Width
	m.height = windowMsg.Height

	m.chatScreen.SetSize(windowMsg.Width, windowMsg.Height)
	m.logsScreen.SetSize(windowMsg.Width, windowMsg.Height)
	m.update()

	return m, nil
}

func (m *Model) handleTickMsg(_ tea.Msg) (tea.Model, tea.Cmd) {
	m.update()
	return m, tickCmd()
}

func (m *Model) handleJoinMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.state.Join(msg.(joinMsg).channel)
	m.update()
	return m, nil
}

func (m *Model) handlePartMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.state.Part(msg.(partMsg).channel)
	m.update()
	return m, nil
}

func (m *Model) handleSayMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	say := msg.(sayMsg)
	m.state.Append(say.channel, say.row)

	if say.channel != m.state.Current && m.state.Activity[say.channel] == ActivityMentioned {
		m.notifyMention()
	}

	m.update()
	return m, nil
}

func (m *Model) notifyMention() {
	if m.soundPlayer != nil {
		m.soundPlayer.PlayAsync(SoundMention)
	}

	// Terminal bell (independent of sounds)
	if m.prefs.EnableBell {
		fmt.Print("\a")
	}
}

func (m *Model) handlePeerMsg(_ tea.Msg) (tea.Model, tea.Cmd) {
	m.update()
	return m, nil
}

func (m *Model) handleDisconnectMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.logger.Info("Engine disconnected", "err", msg.(disconnectMsg).err)

	if m.soundPlayer != nil {
		m.soundPlayer.PlayAsync(SoundDisconnect)
	}

	m.update()
	return m, nil
}

func (m *Model) handleFragmentChangedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	channel := msg.(fragmentChangedMsg).channel
	if channel == "" || channel == "#" {
		return m, nil
	}
	return m, m.joinCmd(channel)
}

// handleEngineErrorMsg logs a failed engine call and reports it in the
// status channel.
func (m *Model) handleEngineErrorMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	errMsg := msg.(engineErrorMsg)
	m.logger.Error("Engine call failed", "op", errMsg.op, "err", errMsg.err)

	m.state.AppendInfo(m.now().UnixMilli(), fmt.Sprintf("%s: %v", errMsg.op, errMsg.err))
	m.update()
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg := msg.(tea.KeyMsg)
	keys := m.chatScreen.keys
	current := m.state.Current

	switch {
	case key.Matches(keyMsg, keys.PageUp):
		m.state.PageUp(current)
	case key.Matches(keyMsg, keys.PageDown):
		m.state.PageDown(current)
	case key.Matches(keyMsg, keys.Next):
		m.state.CycleNext()
	case key.Matches(keyMsg, keys.Prev):
		m.state.CyclePrev()
	case key.Matches(keyMsg, keys.Send):
		cmd := m.submit(m.chatScreen.TakeInput())
		m.update()
		return m, cmd
	default:
		return m, m.chatScreen.UpdateInput(msg)
	}

	m.update()
	return m, nil
}

func (m *Model) handleMouseMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	mouseMsg := msg.(tea.MouseMsg)

	if tea.MouseEvent(mouseMsg).IsWheel() {
		m.state.RecordScroll(m.state.Current, m.chatScreen.ScrollWith(mouseMsg))
		m.update()
		return m, nil
	}

	if mouseMsg.Action != tea.MouseActionPress || mouseMsg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	target, ok := m.chatScreen.TargetAt(mouseMsg)
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	if target.channel != "" {
		m.state.Select(target.channel)
	} else {
		cmd = m.followLink(target.link)
	}

	m.update()
	return m, cmd
}

// followLink selects the channel a link points at, joining it first when it
// is not known yet. Any other link is copied to the clipboard.
func (m *Model) followLink(href string) tea.Cmd {
	channel, ok := channelFromLink(href)
	if !ok {
		if err := clipboard.WriteAll(href); err != nil {
			m.logger.Error("Failed to copy link", "href", href, "err", err)
			return nil
		}
		m.state.AppendInfo(m.now().UnixMilli(), "copied "+href)
		return nil
	}

	for _, known := range m.state.Channels {
		if known == normalizeChannel(channel) {
			m.state.Select(channel)
			return nil
		}
	}
	return m.joinCmd(channel)
}

// submit runs one compose line. Engine calls are returned as commands.
// Text that is not a command is sent verbatim, whitespace included; enter
// on an empty field sends nothing.
func (m *Model) submit(line string) tea.Cmd {
	if line == "" {
		return nil
	}

	cmd := ParseCommand(line)
	current := m.state.Current

	switch cmd.Kind {
	case CommandJoin:
		return m.joinCmd(cmp.Or(cmd.Arg, current))
	case CommandPart:
		channel := cmp.Or(cmd.Arg, current)
		return m.engineCmd("part "+channel, func() error {
			return m.engine.Part(channel)
		})
	case CommandNick:
		m.state.SetNym(cmd.Arg)
		m.engine.SetNym(cmd.Arg)
	case CommandHelp:
		m.state.AppendInfo(m.now().UnixMilli(), helpLines()...)
	case CommandUnknown:
		m.logger.Debug("Ignoring unknown command", "command", cmd.Name)
	case CommandSay:
		if current == StatusChannel {
			return nil
		}
		text := cmd.Text
		return m.engineCmd("say "+current, func() error {
			return m.engine.Say(current, text)
		})
	}
	return nil
}
