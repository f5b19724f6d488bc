package payload

import (
	"io"
	"time"

	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/protocol"
	"github.com/Anfauglith/libiop/pkg/wire/util"
)

//VersionMessage represents a version message on the IoP network
type VersionMessage struct {
	Version     protocol.Version
	Services    protocol.ServiceFlag
	Timestamp   int64
	AddrRecv    NetAddr
	AddrFrom    NetAddr
	Nonce       uint64
	UserAgent   string
	StartHeight int32
	Relay       bool
}

//NewVersionMessage will return a VersionMessage object
func NewVersionMessage(recv *NetAddr, startHeight int32, relay bool, pver protocol.Version, userAgent string, nonce uint64, services protocol.ServiceFlag) *VersionMessage {
	version := &VersionMessage{
		Version:     pver,
		Services:    services,
		Timestamp:   time.Now().Unix(),
		Nonce:       nonce,
		UserAgent:   userAgent,
		StartHeight: startHeight,
		Relay:       relay,
	}
	if recv != nil {
		version.AddrRecv = *recv
	}
	return version
}

// DecodePayload Implements Messager interface
func (v *VersionMessage) DecodePayload(r io.Reader) error {
	br := util.NewBinReader(r)
	br.ReadLE(&v.Version)
	br.ReadLE(&v.Services)
	br.ReadLE(&v.Timestamp)
	v.AddrRecv.DecodePayload(br)
	v.AddrFrom.DecodePayload(br)
	br.ReadLE(&v.Nonce)
	v.UserAgent = br.VarString()
	br.ReadLE(&v.StartHeight)

	// The relay flag is an optional trailing byte.
	var relay uint8
	if br.Err == nil {
		relay = br.ReadUint8()
		if br.Err == io.EOF {
			br.Err = nil
		}
	}
	v.Relay = relay != 0
	return br.Err
}

// EncodePayload Implements messager interface
func (v *VersionMessage) EncodePayload(w io.Writer) error {
	bw := util.NewBinWriter(w)
	bw.WriteLE(v.Version)
	bw.WriteLE(v.Services)
	bw.WriteLE(v.Timestamp)
	v.AddrRecv.EncodePayload(bw)
	v.AddrFrom.EncodePayload(bw)
	bw.WriteLE(v.Nonce)
	bw.VarString(v.UserAgent)
	bw.WriteLE(v.StartHeight)

	var relay uint8
	if v.Relay {
		relay = 1
	}
	bw.WriteLE(relay)
	return bw.Err
}

// Command Implements messager interface
func (v *VersionMessage) Command() command.Type {
	return command.Version
}
