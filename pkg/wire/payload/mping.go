package payload

import (
	"io"

	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/util"
)

//PingMessage carries the liveness nonce a pong has to echo
type PingMessage struct {
	Nonce uint64
}

//NewPingMessage returns a ping message with the given nonce
func NewPingMessage(nonce uint64) *PingMessage {
	return &PingMessage{Nonce: nonce}
}

// DecodePayload Implements Messager interface
func (p *PingMessage) DecodePayload(r io.Reader) error {
	br := util.NewBinReader(r)
	p.Nonce = br.ReadUint64()
	return br.Err
}

// EncodePayload Implements messager interface
func (p *PingMessage) EncodePayload(w io.Writer) error {
	bw := util.NewBinWriter(w)
	bw.WriteLE(p.Nonce)
	return bw.Err
}

// Command Implements messager interface
func (p *PingMessage) Command() command.Type {
	return command.Ping
}

//PongMessage echoes the nonce of a previously received ping
type PongMessage struct {
	Nonce uint64
}

//NewPongMessage returns a pong message echoing nonce
func NewPongMessage(nonce uint64) *PongMessage {
	return &PongMessage{Nonce: nonce}
}

// DecodePayload Implements Messager interface
func (p *PongMessage) DecodePayload(r io.Reader) error {
	br := util.NewBinReader(r)
	p.Nonce = br.ReadUint64()
	return br.Err
}

// EncodePayload Implements messager interface
func (p *PongMessage) EncodePayload(w io.Writer) error {
	bw := util.NewBinWriter(w)
	bw.WriteLE(p.Nonce)
	return bw.Err
}

// Command Implements messager interface
func (p *PongMessage) Command() command.Type {
	return command.Pong
}
