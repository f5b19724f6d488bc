package network

import (
	"bytes"

	"github.com/Anfauglith/libiop/pkg/wire"
	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/payload"
	"github.com/Anfauglith/libiop/pkg/wire/protocol"
	"go.uber.org/zap"
)

// handleRecv appends a drained chunk to the node's receive buffer and
// extracts every complete message from it. A dispatched callback may
// disconnect the node, so the loop re-checks the connected flag after
// every message.
func (g *NodeGroup) handleRecv(n *Node, chunk []byte) {
	if n.state&NodeConnected == 0 {
		// ignore messages from disconnected peers
		return
	}
	n.recvBuffer = append(n.recvBuffer, chunk...)

	buf := n.recvBuffer
	consumed := 0
	for {
		hdr, ok := wire.TryDecodeHeader(buf[consumed:])
		if !ok {
			break
		}
		if hdr.Length > wire.MaxMsgSize {
			// check for invalid message lengths
			g.misbehave(n)
			return
		}
		total := wire.HeaderSize + int(hdr.Length)
		if len(buf)-consumed < total {
			// wait for the next chunk to complete the message
			break
		}

		body := buf[consumed+wire.HeaderSize : consumed+total]
		consumed += total
		g.parseMessage(n, &hdr, body)

		if n.state&NodeConnected == 0 {
			// The dispatch disconnected the node, its buffer is gone.
			return
		}
	}

	switch {
	case consumed == 0:
	case consumed == len(buf):
		n.recvBuffer = n.recvBuffer[:0]
	default:
		// partial message, keep the unconsumed suffix
		rest := make([]byte, len(buf)-consumed)
		copy(rest, buf[consumed:])
		n.recvBuffer = rest
	}
}

// parseMessage interprets one decoded message: built-in handling for
// the handshake and liveness commands, everything else passes through
// to the user callbacks.
func (g *NodeGroup) parseMessage(n *Node, hdr *wire.Header, body []byte) {
	g.log.Debug("received command",
		zap.Int("node", n.ID), zap.String("command", string(hdr.Command)))
	commandsReceived.WithLabelValues(string(hdr.Command)).Inc()

	if hdr.Magic != g.chainParams.Magic {
		g.misbehave(n)
		return
	}

	// The callback can decide to skip the internal message logic.
	handle := true
	if cb := g.cfg.ParseCmd; cb != nil {
		handle = cb(n, hdr, body)
	}
	if handle {
		switch hdr.Command {
		case command.Version:
			v := &payload.VersionMessage{}
			if err := v.DecodePayload(bytes.NewReader(body)); err != nil {
				g.misbehave(n)
				break
			}
			n.Nonce = v.Nonce
			n.Services = v.Services
			n.UserAgent = v.UserAgent
			n.BestKnownHeight = v.StartHeight
			g.log.Debug("connected to node",
				zap.Int("node", n.ID),
				zap.String("useragent", v.UserAgent),
				zap.Int32("height", v.StartHeight))

			// confirm the version via verack
			n.SendCommand(command.Verack, nil)

			if v.Services&protocol.NodeNetwork == 0 {
				// A peer that cannot serve us the chain is of no use.
				g.disconnectNode(n)
			}

		case command.Verack:
			// complete the handshake once a verack has been received
			n.versionHandshake = true
			n.lastPing = g.timeNow().Unix()
			if cb := g.cfg.OnHandshakeDone; cb != nil {
				cb(n)
			}

		case command.Ping:
			ping := &payload.PingMessage{}
			if err := ping.DecodePayload(bytes.NewReader(body)); err != nil {
				g.misbehave(n)
				break
			}
			pong := payload.NewPongMessage(ping.Nonce)
			buf := new(bytes.Buffer)
			if err := pong.EncodePayload(buf); err != nil {
				return
			}
			n.SendCommand(command.Pong, buf.Bytes())
		}
	}

	if cb := g.cfg.PostCmd; cb != nil {
		cb(n, hdr, body)
	}
}
