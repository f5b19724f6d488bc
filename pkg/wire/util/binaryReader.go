package util

import (
	"encoding/binary"
	"io"
)

// BinReader decodes the primitive wire fields a message body is built
// from. The first failure is latched in Err and turns every later call
// into a no-op, so a codec can decode a whole struct and check for
// truncation once at the end.
type BinReader struct {
	r   io.Reader
	Err error
}

// NewBinReader wraps the stream a message body is decoded from.
func NewBinReader(r io.Reader) *BinReader {
	return &BinReader{r: r}
}

// ReadLE decodes v little-endian, the byte order of every integer
// field on the wire.
func (r *BinReader) ReadLE(v interface{}) {
	if r.Err != nil {
		return
	}
	r.Err = binary.Read(r.r, binary.LittleEndian, v)
}

// ReadBE decodes v big-endian. The address records are the only place
// the protocol deviates from little-endian: IPs and ports travel in
// network byte order.
func (r *BinReader) ReadBE(v interface{}) {
	if r.Err != nil {
		return
	}
	r.Err = binary.Read(r.r, binary.BigEndian, v)
}

// ReadUint8 decodes a single byte.
func (r *BinReader) ReadUint8() uint8 {
	var v uint8
	r.ReadLE(&v)
	return v
}

// ReadUint16 decodes a little-endian u16.
func (r *BinReader) ReadUint16() uint16 {
	var v uint16
	r.ReadLE(&v)
	return v
}

// ReadUint32 decodes a little-endian u32.
func (r *BinReader) ReadUint32() uint32 {
	var v uint32
	r.ReadLE(&v)
	return v
}

// ReadUint64 decodes a little-endian u64.
func (r *BinReader) ReadUint64() uint64 {
	var v uint64
	r.ReadLE(&v)
	return v
}

// VarUint decodes a variable length integer: a one byte tag selecting
// the width, followed by the value in that width.
func (r *BinReader) VarUint() uint64 {
	switch tag := r.ReadUint8(); tag {
	case 0xfd:
		return uint64(r.ReadUint16())
	case 0xfe:
		return uint64(r.ReadUint32())
	case 0xff:
		return r.ReadUint64()
	default:
		return uint64(tag)
	}
}

// VarBytes decodes a VarUint length followed by that many raw bytes.
func (r *BinReader) VarBytes() []byte {
	b := make([]byte, r.VarUint())
	r.ReadLE(b)
	return b
}

// VarString decodes a length-prefixed string, the user agent encoding.
func (r *BinReader) VarString() string {
	return string(r.VarBytes())
}
