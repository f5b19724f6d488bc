package payload

import (
	"errors"
	"io"

	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/protocol"
	"github.com/Anfauglith/libiop/pkg/wire/util"
)

// maxLocatorHashes bounds the block locator a remote may send us.
const maxLocatorHashes = 101

var errTooManyLocators = errors.New("too many locator hashes")

//GetHeadersMessage requests headers following the best locator match
type GetHeadersMessage struct {
	Version  protocol.Version
	Locators [][32]byte
	HashStop [32]byte
}

//NewGetHeadersMessage returns a getheaders message for the given locator.
// A zero HashStop requests as many headers as the remote will batch.
func NewGetHeadersMessage(locators [][32]byte, hashStop [32]byte) *GetHeadersMessage {
	return &GetHeadersMessage{
		Version:  protocol.DefaultVersion,
		Locators: locators,
		HashStop: hashStop,
	}
}

// DecodePayload Implements Messager interface
func (g *GetHeadersMessage) DecodePayload(r io.Reader) error {
	br := util.NewBinReader(r)
	br.ReadLE(&g.Version)
	count := br.VarUint()
	if br.Err != nil {
		return br.Err
	}
	if count > maxLocatorHashes {
		return errTooManyLocators
	}
	g.Locators = make([][32]byte, count)
	for i := range g.Locators {
		br.ReadLE(&g.Locators[i])
	}
	br.ReadLE(&g.HashStop)
	return br.Err
}

// EncodePayload Implements messager interface
func (g *GetHeadersMessage) EncodePayload(w io.Writer) error {
	bw := util.NewBinWriter(w)
	bw.WriteLE(g.Version)
	bw.VarUint(uint64(len(g.Locators)))
	for _, loc := range g.Locators {
		bw.WriteLE(loc)
	}
	bw.WriteLE(g.HashStop)
	return bw.Err
}

// Command Implements messager interface
func (g *GetHeadersMessage) Command() command.Type {
	return command.GetHeaders
}
