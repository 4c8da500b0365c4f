package internal

import (
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jhalter/mobius/hotline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rejectingTLSServer accepts one TLS connection, answers the Hotline
// handshake with garbage and reports when the client hangs up.
func rejectingTLSServer(t *testing.T) (addr string, hungUp <-chan struct{}) {
	t.Helper()

	certs := httptest.NewUnstartedServer(nil)
	certs.StartTLS()
	t.Cleanup(certs.Close)

	ln, err := tls.Listen("tcp", "127.0.0.1:0", &tls.Config{Certificates: certs.TLS.Certificates})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		buf := make([]byte, len(hotline.ClientHandshake))
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		_, _ = conn.Write([]byte("NOTTRTP!"))
		_, _ = io.Copy(io.Discard, conn)
	}()

	return ln.Addr().String(), done
}

func TestHotlineEngine_FailedHandshakeClosesConnection(t *testing.T) {
	addr, hungUp := rejectingTLSServer(t)

	e := NewHotlineEngine(HotlineSettings{Addr: addr, TLS: true}, "abc123", slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := e.connect(addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handshake error")

	select {
	case <-hungUp:
	case <-time.After(5 * time.Second):
		t.Fatal("connection left open after a failed handshake")
	}

	_, err = e.hlClient.Connection.Write([]byte{0})
	assert.ErrorIs(t, err, net.ErrClosed)
	assert.False(t, e.isConnected())
}
