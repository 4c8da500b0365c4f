package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestScanLinks(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []Segment
	}{
		{
			name:    "plain text",
			message: "hello there",
			want:    []Segment{{Text: "hello there"}},
		},
		{
			name:    "empty",
			message: "",
			want:    nil,
		},
		{
			name:    "link in the middle",
			message: "see https://example.com/x for more",
			want: []Segment{
				{Text: "see "},
				{Text: "https://example.com/x", Link: true},
				{Text: " for more"},
			},
		},
		{
			name:    "link only",
			message: "magnet:?xt=urn:btih:abc",
			want:    []Segment{{Text: "magnet:?xt=urn:btih:abc", Link: true}},
		},
		{
			name:    "adjacent schemes",
			message: "ssb:abc /ipfs/Qm123",
			want: []Segment{
				{Text: "ssb:abc", Link: true},
				{Text: " "},
				{Text: "/ipfs/Qm123", Link: true},
			},
		},
		{
			name:    "channel link",
			message: "come to http://host/#dev",
			want: []Segment{
				{Text: "come to "},
				{Text: "http://host/#dev", Link: true},
			},
		},
		{
			name:    "unknown scheme is text",
			message: "ftp://example.com",
			want:    []Segment{{Text: "ftp://example.com"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanLinks(tt.message))
		})
	}
}

func TestScanLinks_ReassemblesMessage(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		parts := rapid.SliceOf(rapid.SampledFrom([]string{
			"hi", " ", "https://a.b/c", "magnet:x", "#chan", "ssb:", "/ipfs/q", "\t", "text",
		})).Draw(t, "parts")
		message := strings.Join(parts, "")

		var b strings.Builder
		for i, seg := range ScanLinks(message) {
			if seg.Text == "" {
				t.Fatalf("segment %d is empty", i)
			}
			if seg.Link && !linkPattern.MatchString(seg.Text) {
				t.Fatalf("segment %q marked as link", seg.Text)
			}
			b.WriteString(seg.Text)
		}
		if b.String() != message {
			t.Fatalf("segments joined to %q, want %q", b.String(), message)
		}
	})
}

func TestChannelFromLink(t *testing.T) {
	tests := []struct {
		href   string
		want   string
		wantOK bool
	}{
		{href: "http://host/#dev", want: "#dev", wantOK: true},
		{href: "https://host/page#a#b", want: "#a#b", wantOK: true},
		{href: "https://host/page", wantOK: false},
		{href: "magnet:?xt=urn", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := channelFromLink(tt.href)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
