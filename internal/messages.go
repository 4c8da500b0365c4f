package internal

import "time"

// Internal message types for BubbleTea communication

// Engine events

type joinMsg struct {
	channel string
}

type partMsg struct {
	channel string
}

type sayMsg struct {
	channel string
	row     ChatRow
}

type peerMsg struct{}

type disconnectMsg struct {
	err error
}

// Client events

type tickMsg time.Time

type fragmentChangedMsg struct {
	channel string
}

type engineErrorMsg struct {
	op  string
	err error
}
