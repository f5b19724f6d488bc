package network

import (
	"bytes"
	"errors"
	"math/rand"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/Anfauglith/libiop/pkg/chaincfg"
	"github.com/Anfauglith/libiop/pkg/wire"
	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/payload"
	"github.com/Anfauglith/libiop/pkg/wire/protocol"
	"go.uber.org/zap"
)

// Timer and pool defaults, overridable through Config.
const (
	DefaultTickInterval       = 3 * time.Second
	DefaultPingInterval       = 180 * time.Second
	DefaultConnectTimeout     = 10 * time.Second
	DefaultDesiredConnections = 3

	recvChunkSize = 4096
)

var errBadAddress = errors.New("address is not of the form host:port")

// Config contains the knobs and callbacks a caller can set on a group.
// Every callback is optional and runs on the group loop, so none of
// them may block.
type Config struct {
	ChainParams        *chaincfg.Params
	UserAgent          string
	StartHeight        int32
	DesiredConnections int
	ConnectTimeout     time.Duration
	PingInterval       time.Duration
	TickInterval       time.Duration
	Logger             *zap.Logger

	// ParseCmd gets first sight of every dispatched message. Returning
	// false skips the built-in command handling.
	ParseCmd func(n *Node, hdr *wire.Header, body []byte) bool
	// PostCmd runs after any built-in handling, for every message that
	// carries the group's network magic.
	PostCmd func(n *Node, hdr *wire.Header, body []byte)
	// OnStateChanged fires when a node connects, errors, times out or is
	// marked misbehaved. A voluntary disconnect (Disconnect, Shutdown, a
	// dropped surplus connection) does not fire it.
	OnStateChanged func(n *Node)
	// ShouldConnectMore can veto pool top-up after a node errored.
	ShouldConnectMore func(n *Node) bool
	// OnHandshakeDone fires once a node's version handshake completes.
	OnHandshakeDone func(n *Node)
	// OnPeriodicTick can short-circuit the per node timer by
	// returning false.
	OnPeriodicTick func(n *Node, now time.Time) bool

	// Dial overrides the TCP dialer. Used by tests and tools.
	Dial func(addr string) (net.Conn, error)
}

// NodeGroup owns an ordered set of nodes sharing one event loop and one
// network parameter set. All node state is mutated on that loop, no two
// callbacks for the same group ever run concurrently.
type NodeGroup struct {
	cfg         Config
	chainParams *chaincfg.Params
	log         *zap.Logger

	nodes  []*Node
	events chan event
	quit   chan struct{}
	done   chan struct{}
	stop   sync.Once

	userAgent      string
	desired        int
	connectTimeout time.Duration
	pingInterval   time.Duration
	tickInterval   time.Duration

	rand     *rand.Rand
	timeNow  func() time.Time
	lookupIP func(host string) ([]net.IP, error)
	dial     func(addr string) (net.Conn, error)
}

//NewNodeGroup creates a group for the given configuration. Peers are
// added through AddNode or AddPeers before or while the loop runs.
func NewNodeGroup(cfg Config) *NodeGroup {
	g := &NodeGroup{
		cfg:            cfg,
		chainParams:    cfg.ChainParams,
		log:            cfg.Logger,
		events:         make(chan event, 1024),
		quit:           make(chan struct{}),
		done:           make(chan struct{}),
		userAgent:      cfg.UserAgent,
		desired:        cfg.DesiredConnections,
		connectTimeout: cfg.ConnectTimeout,
		pingInterval:   cfg.PingInterval,
		tickInterval:   cfg.TickInterval,
		rand:           rand.New(rand.NewSource(time.Now().UnixNano())),
		timeNow:        time.Now,
		lookupIP:       net.LookupIP,
	}
	if g.chainParams == nil {
		g.chainParams = &chaincfg.MainNetParams
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	if g.userAgent == "" {
		g.userAgent = protocol.DefaultUserAgent
	}
	if g.desired == 0 {
		g.desired = DefaultDesiredConnections
	}
	if g.connectTimeout == 0 {
		g.connectTimeout = DefaultConnectTimeout
	}
	if g.pingInterval == 0 {
		g.pingInterval = DefaultPingInterval
	}
	if g.tickInterval == 0 {
		g.tickInterval = DefaultTickInterval
	}
	g.dial = cfg.Dial
	if g.dial == nil {
		g.dial = func(addr string) (net.Conn, error) {
			return net.Dial("tcp", addr)
		}
	}
	initMetrics()
	return g
}

// ChainParams returns the network parameters of the group.
func (g *NodeGroup) ChainParams() *chaincfg.Params {
	return g.chainParams
}

// Nodes returns the nodes in insertion order.
func (g *NodeGroup) Nodes() []*Node {
	return g.nodes
}

//AddNode appends a fresh node for the given host:port address.
func (g *NodeGroup) AddNode(addr string) (*Node, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, errBadAddress
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if host == "" || err != nil || port == 0 {
		return nil, errBadAddress
	}
	n := &Node{
		Addr:  addr,
		group: g,
	}
	g.nodes = append(g.nodes, n)
	n.ID = len(g.nodes)
	return n, nil
}

//CountInState counts the nodes holding every flag of the given mask.
func (g *NodeGroup) CountInState(mask NodeState) int {
	cnt := 0
	for _, n := range g.nodes {
		if n.state.Has(mask) {
			cnt++
		}
	}
	return cnt
}

//ConnectNextNodes tops the pool up towards the desired amount of
// connected nodes, launching at most three attempts per missing
// connection. It returns false only when candidates ran out while the
// pool is still short, callers may rediscover peers then.
func (g *NodeGroup) ConnectNextNodes() bool {
	connectedAtLeastToOne := false
	connectAmount := g.desired - g.CountInState(NodeConnected)
	if connectAmount <= 0 {
		return true
	}
	connectAmount *= 3

	// search for a potential node that has not errored and is not
	// connected or in connecting state
	for _, n := range g.nodes {
		if n.state&(NodeConnected|NodeConnecting|NodeDisconnected|NodeErrored) != 0 {
			continue
		}
		n.state |= NodeConnecting
		n.timeStartedCon = g.timeNow().Unix()
		n.quit = make(chan struct{})
		go g.tickLoop(n, n.quit)
		go g.dialNode(n)
		connectedAtLeastToOne = true
		g.log.Debug("trying to connect to node", zap.Int("node", n.ID), zap.String("addr", n.Addr))

		connectAmount--
		if connectAmount <= 0 {
			return true
		}
	}
	return connectedAtLeastToOne
}

//Run enters the event loop. It blocks until Shutdown is called, then
// disconnects every node and returns.
func (g *NodeGroup) Run() {
	defer close(g.done)
	for {
		select {
		case ev := <-g.events:
			g.handleEvent(ev)
		case <-g.quit:
			for _, n := range g.nodes {
				g.disconnectNode(n)
			}
			return
		}
	}
}

//Shutdown stops the event loop. It is safe to call from any callback
// or goroutine; the loop disconnects all nodes before returning.
func (g *NodeGroup) Shutdown() {
	g.stop.Do(func() {
		close(g.quit)
	})
}

func (g *NodeGroup) handleEvent(ev event) {
	n := ev.node
	switch ev.kind {
	case evConnected:
		if n.state&NodeConnecting == 0 {
			// The attempt was timed out or cancelled while the dial
			// was in flight.
			ev.conn.Close()
			return
		}
		n.conn = ev.conn
		n.state |= NodeConnected
		n.state &^= NodeConnecting | NodeErrored
		if g.CountInState(NodeConnected) > g.desired {
			// More attempts than needed succeeded, keep the pool at
			// the desired size.
			g.log.Debug("dropping surplus connection", zap.Int("node", n.ID))
			g.disconnectNode(n)
			return
		}
		go g.readLoop(n, ev.conn)
		g.log.Debug("successfully connected to node", zap.Int("node", n.ID))
		g.nodeStateChanged(n)
		g.log.Debug("connected nodes", zap.Int("count", g.CountInState(NodeConnected)))

	case evRead:
		g.handleRecv(n, ev.data)

	case evEOF, evError:
		if n.state&(NodeConnected|NodeConnecting) == 0 {
			// Stale event for an already released node.
			return
		}
		n.state = NodeErrored | NodeDisconnected
		if ev.kind == evEOF {
			n.state |= NodeDisconnectedFromRemote
			g.log.Debug("disconnected from the remote peer", zap.Int("node", n.ID))
		} else {
			g.log.Debug("error on connection to node", zap.Int("node", n.ID))
		}
		g.nodeStateChanged(n)

	case evTick:
		g.handleTick(n)
	}
}

// handleTick enforces the connect timeout and the ping cadence.
func (g *NodeGroup) handleTick(n *Node) {
	if n.state&(NodeConnecting|NodeConnected) == 0 {
		return
	}
	now := g.timeNow()
	if cb := g.cfg.OnPeriodicTick; cb != nil && !cb(n, now) {
		return
	}

	if n.state&NodeConnecting != 0 && n.timeStartedCon+int64(g.connectTimeout/time.Second) < now.Unix() {
		n.state = NodeErrored | NodeTimeout
		n.timeStartedCon = 0
		g.log.Debug("timeout connecting to node", zap.Int("node", n.ID))
		g.nodeStateChanged(n)
		return
	}

	if n.state&NodeConnected != 0 && n.versionHandshake &&
		n.lastPing+int64(g.pingInterval/time.Second) < now.Unix() {
		ping := payload.NewPingMessage(g.rand.Uint64())
		buf := new(bytes.Buffer)
		if err := ping.EncodePayload(buf); err != nil {
			return
		}
		n.SendCommand(command.Ping, buf.Bytes())
		n.lastPing = now.Unix()
	}
}

// nodeStateChanged runs the bookkeeping shared by every transition:
// user notification, releasing handles of errored nodes, pool top-up
// and the version send after a successful connect.
func (g *NodeGroup) nodeStateChanged(n *Node) {
	connectedNodes.Set(float64(g.CountInState(NodeConnected)))
	if cb := g.cfg.OnStateChanged; cb != nil {
		cb(n)
	}

	if n.state&NodeErrored != 0 {
		n.releaseEvents()

		shouldConnect := true
		if cb := g.cfg.ShouldConnectMore; cb != nil {
			shouldConnect = cb(n)
		}
		if shouldConnect &&
			g.CountInState(NodeConnected)+g.CountInState(NodeConnecting) < g.desired {
			g.ConnectNextNodes()
		}
	}

	if n.state&NodeMisbehaved != 0 {
		if n.state&(NodeConnected|NodeConnecting) != 0 {
			g.disconnectNode(n)
		}
	} else {
		// No-op unless the node just reached the connected state.
		g.sendVersion(n)
	}
}

func (g *NodeGroup) misbehave(n *Node) {
	g.log.Debug("marking node as misbehaved", zap.Int("node", n.ID))
	n.state |= NodeMisbehaved
	g.nodeStateChanged(n)
}

func (g *NodeGroup) disconnectNode(n *Node) {
	if n.state&(NodeConnected|NodeConnecting) != 0 {
		g.log.Debug("disconnecting node", zap.Int("node", n.ID))
	}
	n.releaseEvents()

	n.state &^= NodeConnecting | NodeConnected
	n.state |= NodeDisconnected
	n.timeStartedCon = 0
	n.recvBuffer = nil
	connectedNodes.Set(float64(g.CountInState(NodeConnected)))
}

// sendVersion advertises ourselves to the remote. Sending is a no-op
// while the node is not connected.
func (g *NodeGroup) sendVersion(n *Node) {
	if n == nil || n.state&NodeConnected == 0 {
		return
	}

	var recv *payload.NetAddr
	if host, portStr, err := net.SplitHostPort(n.Addr); err == nil {
		if ip := net.ParseIP(host); ip != nil {
			port, _ := strconv.ParseUint(portStr, 10, 16)
			recv = payload.AddrFromTCP(&net.TCPAddr{IP: ip, Port: int(port)}, 0)
		}
	}

	version := payload.NewVersionMessage(recv, g.cfg.StartHeight, true,
		protocol.DefaultVersion, g.userAgent, g.rand.Uint64(), 0)
	buf := new(bytes.Buffer)
	if err := version.EncodePayload(buf); err != nil {
		g.log.Debug("encoding version failed", zap.Error(err))
		return
	}
	n.SendCommand(command.Version, buf.Bytes())
}
