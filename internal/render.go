package internal

import (
	"time"
)

const timeLayout = "15:04:05"

const classCurrent = "current"

// View is the declarative description of one frame. It is built from state
// alone and committed to the screen by ChatScreen.Commit.
type View struct {
	Fragment   string
	Channels   []ChannelItem
	Lines      []LineView
	Clock      string
	Nym        string
	Peers      int
	Prompt     string
	InputWidth int
	Scroll     int
}

type ChannelItem struct {
	Name  string
	Class string
}

type LineView struct {
	Time     string
	Who      string
	Segments []Segment
}

// Render builds the view for the current channel. peers is the engine's live
// peer count for that channel; width is the terminal width.
func Render(s *ClientState, peers int, now time.Time, width int) View {
	v := View{
		Fragment:   s.Current,
		Clock:      now.Format(timeLayout),
		Nym:        s.Nym,
		Peers:      peers,
		Prompt:     "[" + s.Current + "]",
		InputWidth: max(1, width-len(s.Current)-6),
		Scroll:     s.ScrollOffset(s.Current),
	}

	v.Channels = make([]ChannelItem, 0, len(s.Channels))
	for _, channel := range s.Channels {
		class := s.Activity[channel].String()
		if channel == s.Current {
			class = classCurrent
		}
		v.Channels = append(v.Channels, ChannelItem{Name: channel, Class: class})
	}

	rows := s.Lines[s.Current]
	v.Lines = make([]LineView, 0, len(rows))
	for _, row := range rows {
		v.Lines = append(v.Lines, LineView{
			Time:     time.UnixMilli(row.Time).Format(timeLayout),
			Who:      row.Who,
			Segments: ScanLinks(row.Message),
		})
	}

	return v
}
