package internal

import (
	"cmp"
	"math"
	"regexp"
	"slices"
)

// StatusChannel is the local system feed. It never accepts outgoing messages.
const StatusChannel = "!status"

// altStatusChannel is how the status channel looks when it arrives as a fragment.
const altStatusChannel = "#!status"

// infoSender is the sender of rows the client writes to the status channel itself.
const infoSender = "!info"

// stickToBottom is the scroll memory sentinel for "show the newest content".
const stickToBottom = math.MaxInt

// Activity flags a channel that received messages while not selected.
type Activity int

const (
	ActivityNone Activity = iota
	ActivityActive
	ActivityMentioned
)

func (a Activity) String() string {
	switch a {
	case ActivityActive:
		return "activity"
	case ActivityMentioned:
		return "mentioned"
	}
	return ""
}

// ChatRow is one line of channel history. Time is in milliseconds since the epoch.
type ChatRow struct {
	Time    int64
	Who     string
	Message string
}

// Heights is the last measurement of a channel's conversation view.
type Heights struct {
	Viewport int
	Content  int
}

// ClientState is the single root of UI state. It is only mutated from the
// Bubble Tea event loop.
type ClientState struct {
	Channels []string
	Current  string
	Nym      string
	Lines    map[string][]ChatRow
	Activity map[string]Activity
	Scroll   map[string]int
	Heights  map[string]Heights

	mentionNym string
	mention    *regexp.Regexp
}

func NewClientState(nym string) *ClientState {
	return &ClientState{
		Current:  StatusChannel,
		Nym:      nym,
		Lines:    make(map[string][]ChatRow),
		Activity: make(map[string]Activity),
		Scroll:   make(map[string]int),
		Heights:  make(map[string]Heights),
	}
}

func normalizeChannel(channel string) string {
	if channel == altStatusChannel {
		return StatusChannel
	}
	return channel
}

// Join adds channel if it is not already known and selects it.
func (s *ClientState) Join(channel string) {
	channel = normalizeChannel(channel)
	if channel == "" {
		return
	}
	if !slices.Contains(s.Channels, channel) {
		s.Channels = append(s.Channels, channel)
	}
	s.Select(channel)
}

// Part removes channel. When it was selected, the channel before it takes
// over, or the status channel once nothing is left.
func (s *ClientState) Part(channel string) {
	channel = normalizeChannel(channel)
	ix := slices.Index(s.Channels, channel)
	if ix < 0 {
		return
	}
	s.Channels = slices.Delete(s.Channels, ix, ix+1)

	if s.Current == channel {
		fallback := StatusChannel
		if len(s.Channels) > 0 {
			fallback = s.Channels[max(0, ix-1)]
		}
		s.Select(fallback)
	}
	s.repair()
}

// Select makes channel current and clears its activity flag. Channels that
// were never joined cannot be selected, except the status channel.
func (s *ClientState) Select(channel string) {
	if channel == "" {
		return
	}
	channel = normalizeChannel(channel)
	if channel != StatusChannel && !slices.Contains(s.Channels, channel) {
		return
	}
	s.Current = channel
	s.Activity[channel] = ActivityNone
}

func (s *ClientState) CycleNext() {
	s.cycle(1)
}

func (s *ClientState) CyclePrev() {
	s.cycle(-1)
}

func (s *ClientState) cycle(delta int) {
	n := len(s.Channels)
	if n == 0 {
		return
	}
	ix := slices.Index(s.Channels, s.Current)
	next := ((ix+delta)%n + n) % n
	s.Select(s.Channels[next])
}

// repair falls back to the status channel when the selection points nowhere.
func (s *ClientState) repair() {
	if s.Current == "" || (len(s.Channels) == 0 && s.Current != StatusChannel) {
		s.Select(StatusChannel)
	}
}

// Append stores row in channel's history, keeping it ordered by time, and
// flags the channel when it is not the one being read.
func (s *ClientState) Append(channel string, row ChatRow) {
	channel = normalizeChannel(channel)
	if s.AtBottom(channel) {
		s.StickToBottom(channel)
	}

	s.insert(channel, row)

	if channel != s.Current {
		s.Activity[channel] = classifyActivity(s.mentionPattern(), row.Message)
	}
}

// AppendInfo writes client-generated rows to the status channel.
func (s *ClientState) AppendInfo(now int64, messages ...string) {
	if s.AtBottom(StatusChannel) {
		s.StickToBottom(StatusChannel)
	}
	for _, msg := range messages {
		s.insert(StatusChannel, ChatRow{Time: now, Who: infoSender, Message: msg})
	}
}

func (s *ClientState) insert(channel string, row ChatRow) {
	lines := append(s.Lines[channel], row)
	slices.SortStableFunc(lines, func(a, b ChatRow) int {
		return cmp.Compare(a.Time, b.Time)
	})
	s.Lines[channel] = lines
}

// SetNym changes the nym that mentions are matched against.
func (s *ClientState) SetNym(nym string) {
	s.Nym = nym
	s.mention = nil
}

// mentionPattern returns the compiled mention matcher for the current nym,
// or nil when there is no nym. It is rebuilt only when the nym changes.
func (s *ClientState) mentionPattern() *regexp.Regexp {
	if s.Nym == "" {
		return nil
	}
	if s.mention == nil || s.mentionNym != s.Nym {
		s.mentionNym = s.Nym
		s.mention = compileMention(s.Nym)
	}
	return s.mention
}

func compileMention(nym string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(nym) + `\b`)
}

func classifyActivity(mention *regexp.Regexp, message string) Activity {
	if mention != nil && mention.MatchString(message) {
		return ActivityMentioned
	}
	return ActivityActive
}

// AtBottom reports whether channel was scrolled to the end at its last
// render. A channel that has never been measured counts as at the bottom.
func (s *ClientState) AtBottom(channel string) bool {
	h, ok := s.Heights[channel]
	if !ok {
		return true
	}
	return s.Scroll[channel] >= h.Content-h.Viewport
}

func (s *ClientState) RecordScroll(channel string, offset int) {
	s.Scroll[channel] = offset
}

func (s *ClientState) StickToBottom(channel string) {
	s.Scroll[channel] = stickToBottom
}

func (s *ClientState) PageUp(channel string) {
	s.page(channel, -1)
}

func (s *ClientState) PageDown(channel string) {
	s.page(channel, 1)
}

// page moves by one viewport height. Offsets past either end, including the
// stick-to-bottom sentinel, are resolved against the last measurement first.
func (s *ClientState) page(channel string, dir int) {
	h, ok := s.Heights[channel]
	if !ok {
		return
	}
	bottom := max(0, h.Content-h.Viewport)
	offset := min(max(s.Scroll[channel], 0), bottom)
	s.Scroll[channel] = min(max(offset+dir*h.Viewport, 0), bottom)
}

func (s *ClientState) ScrollOffset(channel string) int {
	return s.Scroll[channel]
}

func (s *ClientState) Measure(channel string, viewport, content int) {
	s.Heights[channel] = Heights{Viewport: viewport, Content: content}
}
