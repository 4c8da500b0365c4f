package internal

import "strings"

type CommandKind int

const (
	CommandSay CommandKind = iota
	CommandJoin
	CommandPart
	CommandNick
	CommandHelp
	CommandUnknown
)

// Command is one parsed compose line.
type Command struct {
	Kind CommandKind
	Name string // lower-cased command word, empty for CommandSay
	Arg  string // first argument, empty when missing
	Text string // the raw line
}

// ParseCommand tokenizes a compose line. A line is a command when it starts
// with "/" immediately followed by a word; everything else is a message.
func ParseCommand(line string) Command {
	cmd := Command{Kind: CommandSay, Text: line}
	if !strings.HasPrefix(line, "/") {
		return cmd
	}

	fields := strings.Fields(line)
	name := strings.TrimPrefix(fields[0], "/")
	if name == "" {
		return cmd
	}

	cmd.Name = strings.ToLower(name)
	if len(fields) > 1 {
		cmd.Arg = fields[1]
	}

	switch cmd.Name {
	case "join", "j":
		cmd.Kind = CommandJoin
	case "part", "p":
		cmd.Kind = CommandPart
	case "nick", "n":
		cmd.Kind = CommandNick
	case "help", "h":
		cmd.Kind = CommandHelp
	default:
		cmd.Kind = CommandUnknown
	}
	return cmd
}
