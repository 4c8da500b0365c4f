package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want Command
	}{
		{line: "hello", want: Command{Kind: CommandSay, Text: "hello"}},
		{line: "/join #dev", want: Command{Kind: CommandJoin, Name: "join", Arg: "#dev", Text: "/join #dev"}},
		{line: "/J #dev", want: Command{Kind: CommandJoin, Name: "j", Arg: "#dev", Text: "/J #dev"}},
		{line: "/join", want: Command{Kind: CommandJoin, Name: "join", Text: "/join"}},
		{line: "/part", want: Command{Kind: CommandPart, Name: "part", Text: "/part"}},
		{line: "/p #x extra", want: Command{Kind: CommandPart, Name: "p", Arg: "#x", Text: "/p #x extra"}},
		{line: "/NICK bob", want: Command{Kind: CommandNick, Name: "nick", Arg: "bob", Text: "/NICK bob"}},
		{line: "/n", want: Command{Kind: CommandNick, Name: "n", Text: "/n"}},
		{line: "/help", want: Command{Kind: CommandHelp, Name: "help", Text: "/help"}},
		{line: "/h", want: Command{Kind: CommandHelp, Name: "h", Text: "/h"}},
		{line: "/frobnicate now", want: Command{Kind: CommandUnknown, Name: "frobnicate", Arg: "now", Text: "/frobnicate now"}},
		{line: "/", want: Command{Kind: CommandSay, Text: "/"}},
		{line: "/ spaced", want: Command{Kind: CommandSay, Text: "/ spaced"}},
		{line: " /join #x", want: Command{Kind: CommandSay, Text: " /join #x"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.line))
		})
	}
}
