package network

import (
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/Anfauglith/libiop/pkg/wire"
	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNode(t *testing.T) {
	g := newTestGroup(Config{})

	n1, err := g.AddNode("127.0.0.1:18333")
	require.NoError(t, err)
	n2, err := g.AddNode("10.0.0.1:18333")
	require.NoError(t, err)

	assert.Equal(t, 1, n1.ID)
	assert.Equal(t, 2, n2.ID)
	assert.Equal(t, NodeState(0), n1.State())

	for _, bad := range []string{"", "127.0.0.1", "nohost:", ":18333", "127.0.0.1:0", "127.0.0.1:notaport"} {
		_, err := g.AddNode(bad)
		assert.Error(t, err, "address %q", bad)
	}
}

func TestConnectedClearsConnecting(t *testing.T) {
	g := newTestGroup(Config{})
	n, err := g.AddNode("127.0.0.1:14877")
	require.NoError(t, err)

	n.state = NodeConnecting | NodeErrored
	n.quit = make(chan struct{})
	g.handleEvent(event{node: n, kind: evConnected, conn: newMockConn()})

	assert.True(t, n.State().Has(NodeConnected))
	assert.False(t, n.State().Has(NodeConnecting))
	assert.False(t, n.State().Has(NodeErrored))

	// Connecting and connected are never set together.
	for _, node := range g.Nodes() {
		assert.False(t, node.State().Has(NodeConnecting|NodeConnected))
	}
}

func TestLateConnectAfterTimeout(t *testing.T) {
	g := newTestGroup(Config{})
	n, err := g.AddNode("127.0.0.1:14877")
	require.NoError(t, err)

	// The node already timed out, the dial resolves afterwards.
	n.state = NodeErrored | NodeTimeout
	mc := newMockConn()
	g.handleEvent(event{node: n, kind: evConnected, conn: mc})

	assert.False(t, n.State().Has(NodeConnected))
	assert.True(t, mc.isClosed())
}

func TestConnectTimeout(t *testing.T) {
	g := newTestGroup(Config{})
	now := time.Unix(100000, 0)
	g.timeNow = func() time.Time { return now }

	n, err := g.AddNode("127.0.0.1:14877")
	require.NoError(t, err)
	n.state = NodeConnecting
	n.quit = make(chan struct{})
	n.timeStartedCon = now.Unix()

	// Within the timeout nothing happens.
	now = now.Add(9 * time.Second)
	g.handleTick(n)
	assert.True(t, n.State().Has(NodeConnecting))

	now = now.Add(2 * time.Second)
	g.handleTick(n)
	assert.Equal(t, NodeErrored|NodeTimeout, n.State())
	// Handles are released in the same callback that set the flags.
	assert.Nil(t, n.conn)
	assert.Nil(t, n.quit)
}

func TestPingCadence(t *testing.T) {
	g := newTestGroup(Config{})
	now := time.Unix(200000, 0)
	g.timeNow = func() time.Time { return now }

	n, mc := connectedNode(t, g)
	n.versionHandshake = true
	n.lastPing = now.Unix()

	// Not yet due.
	now = now.Add(179 * time.Second)
	g.handleTick(n)
	assert.Empty(t, mc.sentMessages(t))

	now = now.Add(2 * time.Second)
	g.handleTick(n)
	msgs := mc.sentMessages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, command.Ping, msgs[0].hdr.Command)
	assert.Equal(t, now.Unix(), n.lastPing)

	// Immediately after sending, no second ping.
	g.handleTick(n)
	assert.Len(t, mc.sentMessages(t), 1)
}

func TestNoPingBeforeHandshake(t *testing.T) {
	g := newTestGroup(Config{})
	now := time.Unix(300000, 0)
	g.timeNow = func() time.Time { return now }

	n, mc := connectedNode(t, g)
	n.lastPing = 0

	g.handleTick(n)
	assert.Empty(t, mc.sentMessages(t))
}

func TestPeriodicTickShortCircuit(t *testing.T) {
	g := newTestGroup(Config{
		OnPeriodicTick: func(n *Node, now time.Time) bool { return false },
	})
	now := time.Unix(400000, 0)
	g.timeNow = func() time.Time { return now }

	n, err := g.AddNode("127.0.0.1:14877")
	require.NoError(t, err)
	n.state = NodeConnecting
	n.quit = make(chan struct{})
	n.timeStartedCon = now.Add(-time.Minute).Unix()

	g.handleTick(n)
	// The callback cancelled the tick, no timeout was enforced.
	assert.True(t, n.State().Has(NodeConnecting))
}

func TestEOFMarksDisconnectedFromRemote(t *testing.T) {
	g := newTestGroup(Config{})
	n, mc := connectedNode(t, g)

	g.handleEvent(event{node: n, kind: evEOF})

	assert.True(t, n.State().Has(NodeErrored))
	assert.True(t, n.State().Has(NodeDisconnected))
	assert.True(t, n.State().Has(NodeDisconnectedFromRemote))
	assert.Nil(t, n.conn)
	assert.True(t, mc.isClosed())

	// Stale events for the released node are ignored.
	g.handleEvent(event{node: n, kind: evError})
	assert.Equal(t, NodeErrored|NodeDisconnected|NodeDisconnectedFromRemote, n.State())
}

func TestErroredNodeTriggersTopUp(t *testing.T) {
	dialed := make(chan string, 8)
	g := newTestGroup(Config{
		DesiredConnections: 1,
		Dial: func(addr string) (net.Conn, error) {
			dialed <- addr
			return nil, errors.New("unreachable")
		},
	})
	n1, mc := connectedNode(t, g)
	_, err := g.AddNode("127.0.0.2:14877")
	require.NoError(t, err)
	_ = mc

	g.handleEvent(event{node: n1, kind: evError})

	// The replacement attempt was launched for the second node.
	select {
	case addr := <-dialed:
		assert.Equal(t, "127.0.0.2:14877", addr)
	case <-time.After(time.Second):
		t.Fatal("expected a replacement dial")
	}
	assert.Equal(t, 1, g.CountInState(NodeConnecting))
}

func TestShouldConnectMoreVeto(t *testing.T) {
	g := newTestGroup(Config{
		DesiredConnections: 1,
		ShouldConnectMore:  func(n *Node) bool { return false },
		Dial: func(addr string) (net.Conn, error) {
			t.Error("dial must not be called")
			return nil, errors.New("no")
		},
	})
	n1, _ := connectedNode(t, g)
	_, err := g.AddNode("127.0.0.2:14877")
	require.NoError(t, err)

	g.handleEvent(event{node: n1, kind: evError})
	assert.Equal(t, 0, g.CountInState(NodeConnecting))
}

func TestConnectNextNodesCap(t *testing.T) {
	g := newTestGroup(Config{
		DesiredConnections: 1,
		Dial: func(addr string) (net.Conn, error) {
			return nil, errors.New("unreachable")
		},
	})
	for i := 0; i < 5; i++ {
		_, err := g.AddNode("127.0.0.1:14877")
		require.NoError(t, err)
	}

	require.True(t, g.ConnectNextNodes())
	// Deficit of one allows three parallel attempts.
	assert.Equal(t, 3, g.CountInState(NodeConnecting))
}

func TestConnectNextNodesNoCandidates(t *testing.T) {
	g := newTestGroup(Config{DesiredConnections: 2})
	n, err := g.AddNode("127.0.0.1:14877")
	require.NoError(t, err)
	n.state = NodeErrored

	assert.False(t, g.ConnectNextNodes())
}

func TestPoolTopUpAndGracefulShutdown(t *testing.T) {
	var mu sync.Mutex
	connected := make(map[int]bool)

	g := newTestGroup(Config{
		DesiredConnections: 3,
		Dial: func(addr string) (net.Conn, error) {
			return newMockConn(), nil
		},
	})
	g.cfg.OnStateChanged = func(n *Node) {
		if n.State().Has(NodeConnected) {
			mu.Lock()
			connected[n.ID] = true
			mu.Unlock()
			if g.CountInState(NodeConnected) == 3 {
				g.Shutdown()
			}
		}
	}

	for i := 0; i < 6; i++ {
		_, err := g.AddNode("127.0.0.1:14877")
		require.NoError(t, err)
	}
	require.True(t, g.ConnectNextNodes())

	ran := make(chan struct{})
	go func() {
		g.Run()
		close(ran)
	}()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("group loop did not settle")
	}

	// The pool never exceeded the desired amount and shutdown
	// disconnected everything.
	assert.Equal(t, 0, g.CountInState(NodeConnected))
	assert.Equal(t, 0, g.CountInState(NodeConnecting))
	mu.Lock()
	assert.Len(t, connected, 3)
	mu.Unlock()
	for _, n := range g.Nodes() {
		assert.True(t, n.State().Has(NodeDisconnected))
	}
}

func TestSendNoopWhenNotConnected(t *testing.T) {
	g := newTestGroup(Config{})
	n, err := g.AddNode("127.0.0.1:14877")
	require.NoError(t, err)

	// Must not panic without a connection.
	n.Send(wire.EncodeMessage(g.chainParams.Magic, command.Ping, nil))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "fresh", NodeState(0).String())
	assert.Equal(t, "errored|timeout", (NodeErrored | NodeTimeout).String())
}
