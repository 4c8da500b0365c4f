package internal

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jhalter/mobius/hotline"
)

// HotlineEngine carries a Hotline server's public chat as a single channel.
// Other channels can be joined and read locally, but saying into them fails.
type HotlineEngine struct {
	emitter
	nymHolder

	hlClient *hotline.Client
	prefs    HotlineSettings
	channel  string
	logger   *slog.Logger
	now      func() time.Time

	mu        sync.Mutex
	userList  []hotline.User
	connected bool
	cancel    context.CancelFunc
}

func NewHotlineEngine(prefs HotlineSettings, nym string, logger *slog.Logger) *HotlineEngine {
	e := &HotlineEngine{
		hlClient: hotline.NewClient(nym, logger),
		prefs:    prefs,
		channel:  prefs.ChannelName(),
		logger:   logger,
		now:      time.Now,
	}
	e.SetNym(nym)

	e.hlClient.HandleFunc(hotline.TranChatMsg, e.HandleClientChatMsg)
	e.hlClient.HandleFunc(hotline.TranGetUserNameList, e.HandleClientGetUserNameList)
	e.hlClient.HandleFunc(hotline.TranKeepAlive, e.HandleKeepAlive)
	e.hlClient.HandleFunc(hotline.TranLogin, e.HandleClientTranLogin)
	e.hlClient.HandleFunc(hotline.TranNotifyChangeUser, e.HandleNotifyChangeUser)
	e.hlClient.HandleFunc(hotline.TranNotifyChatDeleteUser, e.HandleNotifyDeleteUser)
	e.hlClient.HandleFunc(hotline.TranNotifyDeleteUser, e.HandleNotifyDeleteUser)
	e.hlClient.HandleFunc(hotline.TranServerMsg, e.HandleTranServerMsg)
	e.hlClient.HandleFunc(hotline.TranShowAgreement, e.HandleClientTranShowAgreement)

	return e
}

// Start connects and logs in, then scans transactions until the connection
// drops or ctx is cancelled. The end of the scan is reported as a disconnect.
func (e *HotlineEngine) Start(ctx context.Context) error {
	connCtx, cancel := context.WithCancel(ctx)

	addr := hotlineAddr(e.prefs.Addr, e.prefs.TLS)
	if err := e.connect(addr); err != nil {
		cancel()
		return err
	}

	e.mu.Lock()
	e.connected = true
	e.cancel = cancel
	e.mu.Unlock()

	e.logger.Info("Connected to Hotline server", "addr", addr)

	go func() {
		err := e.hlClient.HandleTransactions(connCtx)
		e.logger.Error("Transaction scanning failed", "err", err)

		e.mu.Lock()
		e.connected = false
		e.userList = nil
		e.mu.Unlock()

		e.emit(disconnectMsg{err: err})
	}()

	return nil
}

// hotlineAddr appends the default port when none is supplied.
func hotlineAddr(addr string, useTLS bool) string {
	if len(strings.Split(addr, ":")) == 1 {
		if useTLS {
			return addr + ":5600"
		}
		return addr + ":5500"
	}
	return addr
}

func (e *HotlineEngine) connect(addr string) error {
	if !e.prefs.TLS {
		if err := e.hlClient.Connect(addr, e.prefs.Login, e.prefs.Password); err != nil {
			return fmt.Errorf("error joining server: %v", err)
		}
		return nil
	}

	var err error
	e.hlClient.Connection, err = tls.Dial("tcp", addr, &tls.Config{
		InsecureSkipVerify: true,
	})
	if err != nil {
		return fmt.Errorf("TLS connection error: %v", err)
	}

	if err := e.hlClient.Handshake(); err != nil {
		_ = e.hlClient.Connection.Close()
		return fmt.Errorf("handshake error: %v", err)
	}

	err = e.hlClient.Send(
		hotline.NewTransaction(
			hotline.TranLogin, [2]byte{0, 0},
			hotline.NewField(hotline.FieldUserName, []byte(e.Nym())),
			hotline.NewField(hotline.FieldUserIconID, e.prefs.IconBytes()),
			hotline.NewField(hotline.FieldUserLogin, hotline.EncodeString([]byte(e.prefs.Login))),
			hotline.NewField(hotline.FieldUserPassword, hotline.EncodeString([]byte(e.prefs.Password))),
		),
	)
	if err != nil {
		_ = e.hlClient.Connection.Close()
		return fmt.Errorf("login error: %v", err)
	}
	return nil
}

// Join always succeeds; the server's chat is joined implicitly at login.
func (e *HotlineEngine) Join(channel string) error {
	e.emit(joinMsg{channel: channel})

	if channel == e.channel && e.isConnected() {
		return e.hlClient.Send(hotline.NewTransaction(hotline.TranGetUserNameList, [2]byte{}))
	}
	return nil
}

func (e *HotlineEngine) Part(channel string) error {
	e.emit(partMsg{channel: channel})
	return nil
}

func (e *HotlineEngine) Say(channel, text string) error {
	if channel != e.channel {
		return fmt.Errorf("%w: %s is not carried by %s", ErrChannelUnavailable, channel, e.prefs.Addr)
	}
	if !e.isConnected() {
		return fmt.Errorf("%w: not connected", ErrChannelUnavailable)
	}

	t := hotline.NewTransaction(hotline.TranChatSend, [2]byte{},
		hotline.NewField(hotline.FieldData, []byte(text)),
	)
	return e.hlClient.Send(t)
}

func (e *HotlineEngine) Peers(channel string) []string {
	if channel != e.channel {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	peers := make([]string, 0, len(e.userList))
	for _, u := range e.userList {
		peers = append(peers, u.Name)
	}
	return peers
}

func (e *HotlineEngine) Close() error {
	e.mu.Lock()
	cancel := e.cancel
	connected := e.connected
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !connected {
		return nil
	}
	return e.hlClient.Disconnect()
}

func (e *HotlineEngine) isConnected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}
