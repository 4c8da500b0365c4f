package internal

import "regexp"

var linkPattern = regexp.MustCompile(`(?:https?:|magnet:|ssb:|/ipfs/)\S+`)

// channelFragmentPattern pulls an in-app channel reference out of a link target.
var channelFragmentPattern = regexp.MustCompile(`(#.+)$`)

// Segment is a run of message text. Link segments are clickable.
type Segment struct {
	Text string
	Link bool
}

// ScanLinks splits message into alternating literal and link segments.
// Empty literal runs are dropped.
func ScanLinks(message string) []Segment {
	var segments []Segment
	pos := 0
	for _, loc := range linkPattern.FindAllStringIndex(message, -1) {
		if loc[0] > pos {
			segments = append(segments, Segment{Text: message[pos:loc[0]]})
		}
		segments = append(segments, Segment{Text: message[loc[0]:loc[1]], Link: true})
		pos = loc[1]
	}
	if pos < len(message) {
		segments = append(segments, Segment{Text: message[pos:]})
	}
	return segments
}

// channelFromLink returns the channel a link points at, if any.
func channelFromLink(href string) (string, bool) {
	m := channelFragmentPattern.FindStringSubmatch(href)
	if m == nil {
		return "", false
	}
	return m[1], true
}
