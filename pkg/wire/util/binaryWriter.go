package util

import (
	"encoding/binary"
	"io"
)

// BinWriter is the encoding counterpart of BinReader: it emits the
// primitive wire fields and latches the first failure in Err, letting
// a codec serialize a whole struct before checking for errors.
type BinWriter struct {
	w   io.Writer
	Err error
}

// NewBinWriter wraps the stream a message body is encoded into.
func NewBinWriter(w io.Writer) *BinWriter {
	return &BinWriter{w: w}
}

// WriteLE encodes v little-endian, the byte order of every integer
// field on the wire.
func (w *BinWriter) WriteLE(v interface{}) {
	if w.Err != nil {
		return
	}
	w.Err = binary.Write(w.w, binary.LittleEndian, v)
}

// WriteBE encodes v big-endian, used for the IP and port of an
// address record only.
func (w *BinWriter) WriteBE(v interface{}) {
	if w.Err != nil {
		return
	}
	w.Err = binary.Write(w.w, binary.BigEndian, v)
}

// VarUint encodes a variable length integer in the smallest width
// that holds the value.
func (w *BinWriter) VarUint(val uint64) {
	switch {
	case val < 0xfd:
		w.WriteLE(uint8(val))
	case val <= 0xffff:
		w.WriteLE(uint8(0xfd))
		w.WriteLE(uint16(val))
	case val <= 0xffffffff:
		w.WriteLE(uint8(0xfe))
		w.WriteLE(uint32(val))
	default:
		w.WriteLE(uint8(0xff))
		w.WriteLE(val)
	}
}

// VarBytes encodes a VarUint length followed by the raw bytes.
func (w *BinWriter) VarBytes(b []byte) {
	w.VarUint(uint64(len(b)))
	w.WriteLE(b)
}

// VarString encodes a length-prefixed string.
func (w *BinWriter) VarString(s string) {
	w.VarBytes([]byte(s))
}
