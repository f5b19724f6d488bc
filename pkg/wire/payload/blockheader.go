package payload

import (
	"bytes"
	"io"

	"github.com/Anfauglith/libiop/pkg/crypto/hash"
	"github.com/Anfauglith/libiop/pkg/wire/util"
)

// BlockHeaderSize is the serialized size of a block header on the wire.
const BlockHeaderSize = 80

//BlockHeader is the 80 byte header of a block as relayed in a headers message
type BlockHeader struct {
	Version    int32
	PrevBlock  [32]byte
	MerkleRoot [32]byte
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// decodeBinary reads the header fields off a shared reader, letting a
// headers batch run on one error latch.
func (b *BlockHeader) decodeBinary(br *util.BinReader) {
	br.ReadLE(&b.Version)
	br.ReadLE(&b.PrevBlock)
	br.ReadLE(&b.MerkleRoot)
	br.ReadLE(&b.Timestamp)
	br.ReadLE(&b.Bits)
	br.ReadLE(&b.Nonce)
}

func (b *BlockHeader) encodeBinary(bw *util.BinWriter) {
	bw.WriteLE(b.Version)
	bw.WriteLE(b.PrevBlock)
	bw.WriteLE(b.MerkleRoot)
	bw.WriteLE(b.Timestamp)
	bw.WriteLE(b.Bits)
	bw.WriteLE(b.Nonce)
}

// DecodePayload Implements Messager interface
func (b *BlockHeader) DecodePayload(r io.Reader) error {
	br := util.NewBinReader(r)
	b.decodeBinary(br)
	return br.Err
}

// EncodePayload Implements messager interface
func (b *BlockHeader) EncodePayload(w io.Writer) error {
	bw := util.NewBinWriter(w)
	b.encodeBinary(bw)
	return bw.Err
}

// Bytes returns the serialized header
func (b *BlockHeader) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := b.EncodePayload(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Hash returns the double SHA-256 of the serialized header
func (b *BlockHeader) Hash() ([32]byte, error) {
	byt, err := b.Bytes()
	if err != nil {
		return [32]byte{}, err
	}
	return hash.DoubleSha256(byt), nil
}
