package payload

import (
	"errors"
	"io"

	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/util"
)

// MaxHeadersResults is the largest header batch a single headers
// message may carry. A full batch signals the remote has more.
const MaxHeadersResults = 2000

var errTooManyHeaders = errors.New("too many headers in one message")

//HeadersMessage is a batch of block headers, each followed by the
// transaction count of the block body (always zero for headers relay)
type HeadersMessage struct {
	Headers []*BlockHeader
}

//NewHeadersMessage returns an empty headers message
func NewHeadersMessage() *HeadersMessage {
	return &HeadersMessage{}
}

//AddHeader appends a header to the batch
func (h *HeadersMessage) AddHeader(hdr *BlockHeader) {
	h.Headers = append(h.Headers, hdr)
}

// DecodePayload Implements Messager interface
func (h *HeadersMessage) DecodePayload(r io.Reader) error {
	br := util.NewBinReader(r)
	count := br.VarUint()
	if br.Err != nil {
		return br.Err
	}
	if count > MaxHeadersResults {
		return errTooManyHeaders
	}
	h.Headers = make([]*BlockHeader, 0, count)
	for i := uint64(0); i < count; i++ {
		hdr := &BlockHeader{}
		hdr.decodeBinary(br)
		// Trailing tx count, zero in headers relay.
		br.VarUint()
		if br.Err != nil {
			return br.Err
		}
		h.Headers = append(h.Headers, hdr)
	}
	return br.Err
}

// EncodePayload Implements messager interface
func (h *HeadersMessage) EncodePayload(w io.Writer) error {
	bw := util.NewBinWriter(w)
	bw.VarUint(uint64(len(h.Headers)))
	for _, hdr := range h.Headers {
		hdr.encodeBinary(bw)
		bw.VarUint(0)
	}
	return bw.Err
}

// Command Implements messager interface
func (h *HeadersMessage) Command() command.Type {
	return command.Headers
}
