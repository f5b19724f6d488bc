package network

import (
	"net"

	"github.com/Anfauglith/libiop/pkg/wire"
	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/protocol"
	"go.uber.org/zap"
)

// Node is one remote peer of a group. All of its mutable state is owned
// by the group event loop, callbacks may touch it freely, other
// goroutines must not.
type Node struct {
	// ID is assigned at insertion, stable for logging.
	ID int
	// Addr is the host:port this node connects to.
	Addr string

	// Remote metadata, populated from a received version message.
	Nonce           uint64
	Services        protocol.ServiceFlag
	UserAgent       string
	BestKnownHeight int32

	// LastRequestedInv is a hash slot for upper layer request tracking.
	LastRequestedInv [32]byte
	// TimeLastRequest is epoch seconds of the last upper layer request.
	TimeLastRequest int64

	group            *NodeGroup
	state            NodeState
	conn             net.Conn
	recvBuffer       []byte
	quit             chan struct{}
	timeStartedCon   int64
	lastPing         int64
	versionHandshake bool
}

// State returns the lifecycle bitset of the node.
func (n *Node) State() NodeState {
	return n.state
}

// Handshaked reports whether a verack was received from the remote.
func (n *Node) Handshaked() bool {
	return n.versionHandshake
}

// Group returns the owning group.
func (n *Node) Group() *NodeGroup {
	return n.group
}

// Send writes an already framed message to the remote. It is a no-op
// unless the node is connected.
func (n *Node) Send(data []byte) {
	if n.state&NodeConnected == 0 {
		return
	}
	if _, err := n.conn.Write(data); err != nil {
		// The read loop surfaces the broken connection as an event.
		n.group.log.Debug("write failed",
			zap.Int("node", n.ID), zap.Error(err))
		return
	}
	hdr, ok := wire.TryDecodeHeader(data)
	if ok {
		n.group.log.Debug("sent message",
			zap.Int("node", n.ID), zap.String("command", string(hdr.Command)))
	}
}

// SendCommand frames the payload with the group's network magic and
// sends it to the remote.
func (n *Node) SendCommand(cmd command.Type, body []byte) {
	n.Send(wire.EncodeMessage(n.group.chainParams.Magic, cmd, body))
}

// Disconnect drops the connection voluntarily. It must only be called
// from group callbacks or before the group runs.
func (n *Node) Disconnect() {
	n.group.disconnectNode(n)
}

// Misbehave marks the node for a protocol violation observed by an
// upper layer and drops the connection. Same calling rules as
// Disconnect.
func (n *Node) Misbehave() {
	n.group.misbehave(n)
}

// releaseEvents drops the socket and the periodic timer together. The
// read and timer goroutines observe the closed handles and exit.
func (n *Node) releaseEvents() {
	if n.quit != nil {
		close(n.quit)
		n.quit = nil
	}
	if n.conn != nil {
		n.conn.Close()
		n.conn = nil
	}
}
