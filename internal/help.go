package internal

import "strings"

const helpText = `nymchat commands:
  /join CHANNEL, /j CHANNEL   join a channel
  /part [CHANNEL], /p         leave a channel (default: the current one)
  /nick NYM, /n NYM           change your nym
  /help, /h                   show this message
keys:
  ctrl+j / ctrl+down          next channel
  ctrl+k / ctrl+up            previous channel
  pgup / pgdown               scroll the conversation
  ctrl+l                      show logs
  ctrl+q                      quit
click a channel name to switch to it, click a link to follow or copy it`

func helpLines() []string {
	return strings.Split(helpText, "\n")
}
