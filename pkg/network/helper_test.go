package network

import (
	"bytes"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/Anfauglith/libiop/pkg/chaincfg"
	"github.com/Anfauglith/libiop/pkg/wire"
	"github.com/stretchr/testify/require"
)

// mockConn records writes and blocks reads until closed, like a silent
// remote peer.
type mockConn struct {
	mu     sync.Mutex
	wr     bytes.Buffer
	closed chan struct{}
	once   sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{closed: make(chan struct{})}
}

func (c *mockConn) Read(b []byte) (int, error) {
	<-c.closed
	return 0, io.EOF
}

func (c *mockConn) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wr.Write(b)
}

func (c *mockConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *mockConn) LocalAddr() net.Addr                { return &net.TCPAddr{} }
func (c *mockConn) RemoteAddr() net.Addr               { return &net.TCPAddr{} }
func (c *mockConn) SetDeadline(t time.Time) error      { return nil }
func (c *mockConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *mockConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *mockConn) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

type sentMessage struct {
	hdr  wire.Header
	body []byte
}

// sentMessages decodes everything the node wrote so far.
func (c *mockConn) sentMessages(t *testing.T) []sentMessage {
	c.mu.Lock()
	raw := append([]byte(nil), c.wr.Bytes()...)
	c.mu.Unlock()

	var msgs []sentMessage
	r := bytes.NewReader(raw)
	for r.Len() > 0 {
		hdr, body, err := wire.ReadMessage(r)
		require.NoError(t, err)
		msgs = append(msgs, sentMessage{hdr: hdr, body: body})
	}
	return msgs
}

func newTestGroup(cfg Config) *NodeGroup {
	if cfg.ChainParams == nil {
		cfg.ChainParams = &chaincfg.RegtestParams
	}
	return NewNodeGroup(cfg)
}

// connectedNode wires a node directly into connected state, bypassing
// the dialer, so tests can drive the loop handlers synchronously.
func connectedNode(t *testing.T, g *NodeGroup) (*Node, *mockConn) {
	n, err := g.AddNode("127.0.0.1:14877")
	require.NoError(t, err)

	mc := newMockConn()
	n.conn = mc
	n.quit = make(chan struct{})
	n.state = NodeConnected
	return n, mc
}
