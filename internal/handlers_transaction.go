package internal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhalter/mobius/hotline"
)

// chatSenderPattern matches the "name:" prefix the server puts on chat lines.
var chatSenderPattern = regexp.MustCompile(`^([^:]*):(?:\s+|$)`)

// ignoredErrorMessages contains error messages from servers that should be
// silently ignored rather than logged as failures.
var ignoredErrorMessages = []string{
	"Uh, no.",
}

// checkTransactionError logs the error carried by a reply, if any.
// Returns true if an error was found, false otherwise.
func (e *HotlineEngine) checkTransactionError(t *hotline.Transaction) bool {
	if t.ErrorCode != [4]byte{0, 0, 0, 0} {
		errorText := string(t.GetField(hotline.FieldError).Data)

		for _, ignored := range ignoredErrorMessages {
			if errorText == ignored {
				return true
			}
		}

		e.logger.Error("Server returned error", "text", errorText)
		return true
	}
	return false
}

// parseChatLine splits a server chat line into sender and message. Lines
// without a sender prefix (emotes, server notices) have an empty sender.
func parseChatLine(text string) (who, message string) {
	text = strings.ReplaceAll(text, "\r", "")
	m := chatSenderPattern.FindStringSubmatch(text)
	if m == nil {
		return "", strings.TrimSpace(text)
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(text[len(m[0]):])
}

func (e *HotlineEngine) HandleKeepAlive(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	return res, err
}

func (e *HotlineEngine) HandleClientChatMsg(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	who, message := parseChatLine(string(t.GetField(hotline.FieldData).Data))

	e.emit(sayMsg{
		channel: e.channel,
		row:     ChatRow{Time: e.now().UnixMilli(), Who: who, Message: message},
	})

	return res, err
}

// HandleTranServerMsg shows private and server messages in the status channel.
func (e *HotlineEngine) HandleTranServerMsg(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	msg := strings.ReplaceAll(string(t.GetField(hotline.FieldData).Data), "\r", " ")
	from := string(t.GetField(hotline.FieldUserName).Data)
	if from == "" {
		from = "server"
	}

	e.emit(sayMsg{
		channel: StatusChannel,
		row:     ChatRow{Time: e.now().UnixMilli(), Who: from, Message: msg},
	})

	return res, err
}

func (e *HotlineEngine) HandleClientTranLogin(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	if e.checkTransactionError(t) {
		return nil, errors.New("login error")
	}

	e.emit(joinMsg{channel: e.channel})

	if err := c.Send(hotline.NewTransaction(hotline.TranGetUserNameList, [2]byte{})); err != nil {
		e.logger.Error("Error requesting user list", "err", err)
	}

	return res, err
}

// HandleClientTranShowAgreement accepts the server agreement on the user's behalf.
func (e *HotlineEngine) HandleClientTranShowAgreement(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	if e.checkTransactionError(t) {
		return nil, nil
	}

	err = c.Send(hotline.NewTransaction(
		hotline.TranAgreed,
		[2]byte{},
		hotline.NewField(hotline.FieldUserName, []byte(e.Nym())),
		hotline.NewField(hotline.FieldUserIconID, e.prefs.IconBytes()),
		hotline.NewField(hotline.FieldUserFlags, []byte{0x00, 0x00}),
		hotline.NewField(hotline.FieldOptions, []byte{0x00, 0x00}),
	))

	return res, err
}

func (e *HotlineEngine) HandleClientGetUserNameList(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	if e.checkTransactionError(t) {
		return nil, nil
	}

	var users []hotline.User
	for _, field := range t.Fields {
		if field.Type == hotline.FieldUsernameWithInfo {
			var user hotline.User
			if _, err := user.Write(field.Data); err != nil {
				return res, fmt.Errorf("unable to read user data: %w", err)
			}
			users = append(users, user)
		}
	}

	e.setUserList(users)

	return res, err
}

func (e *HotlineEngine) HandleNotifyChangeUser(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	idField := t.GetField(hotline.FieldUserID).Data
	if len(idField) < 2 {
		return res, fmt.Errorf("user change without user ID")
	}

	newUser := hotline.User{
		ID:    [2]byte(idField[:2]),
		Name:  string(t.GetField(hotline.FieldUserName).Data),
		Icon:  t.GetField(hotline.FieldUserIconID).Data,
		Flags: t.GetField(hotline.FieldUserFlags).Data,
	}

	e.mu.Lock()
	var newUserList []hotline.User
	updatedUser := false
	for _, u := range e.userList {
		if newUser.ID == u.ID {
			u = newUser
			updatedUser = true
		}
		newUserList = append(newUserList, u)
	}
	if !updatedUser {
		newUserList = append(newUserList, newUser)
	}
	e.mu.Unlock()

	e.setUserList(newUserList)

	return res, err
}

func (e *HotlineEngine) HandleNotifyDeleteUser(ctx context.Context, c *hotline.Client, t *hotline.Transaction) (res []hotline.Transaction, err error) {
	exitUser := t.GetField(hotline.FieldUserID).Data

	e.mu.Lock()
	var newUserList []hotline.User
	for _, u := range e.userList {
		if !bytes.Equal(exitUser, u.ID[:]) {
			newUserList = append(newUserList, u)
		}
	}
	e.mu.Unlock()

	e.setUserList(newUserList)

	return res, err
}

func (e *HotlineEngine) setUserList(users []hotline.User) {
	e.mu.Lock()
	e.userList = users
	e.mu.Unlock()

	e.emit(peerMsg{})
}
