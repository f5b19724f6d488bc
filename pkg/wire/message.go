package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"

	"github.com/Anfauglith/libiop/pkg/crypto/hash"
	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/protocol"
)

const (
	// HeaderSize is the fixed size of a message header on the wire:
	// magic, command, payload length and payload checksum.
	HeaderSize = 4 + command.Size + 4 + 4

	// MaxMsgSize is the maximum accepted payload length. A header
	// announcing more marks the sending peer as misbehaved.
	MaxMsgSize = 0x02000000 // 32 MiB
)

// ErrTruncated names the condition of an input that does not hold a
// complete message yet. No function of this package returns it:
// TryDecodeHeader reports truncation by returning false, and ReadMessage
// returns the error of the underlying reader.
var ErrTruncated = errors.New("truncated message")

// Header is the decoded form of the 24 byte message header.
type Header struct {
	Magic    protocol.Magic
	Command  command.Type
	Length   uint32
	Checksum [4]byte
}

// TryDecodeHeader peeks a header off the front of buf without consuming
// it. It returns false while fewer than HeaderSize bytes are buffered.
func TryDecodeHeader(buf []byte) (Header, bool) {
	var hdr Header
	if len(buf) < HeaderSize {
		return hdr, false
	}
	hdr.Magic = protocol.Magic(binary.LittleEndian.Uint32(buf[:4]))
	cmd := bytes.TrimRight(buf[4:4+command.Size], "\x00")
	hdr.Command = command.Type(cmd)
	hdr.Length = binary.LittleEndian.Uint32(buf[16:20])
	copy(hdr.Checksum[:], buf[20:24])
	return hdr, true
}

// EncodeMessage frames the payload into a complete wire message with the
// given magic and command.
func EncodeMessage(magic protocol.Magic, cmd command.Type, payload []byte) []byte {
	msg := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint32(msg[:4], uint32(magic))
	copy(msg[4:4+command.Size], cmd)
	binary.LittleEndian.PutUint32(msg[16:20], uint32(len(payload)))
	sum := hash.Checksum(payload)
	copy(msg[20:24], sum[:])
	copy(msg[HeaderSize:], payload)
	return msg
}

// ReadMessage reads one complete message from r. The payload checksum is
// not verified here, misbehaviour is judged on magic and length alone.
func ReadMessage(r io.Reader) (Header, []byte, error) {
	raw := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Header{}, nil, err
	}
	hdr, _ := TryDecodeHeader(raw)
	if hdr.Length > MaxMsgSize {
		return hdr, nil, errors.New("message payload exceeds maximum size")
	}
	payload := make([]byte, hdr.Length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return hdr, nil, err
	}
	return hdr, payload, nil
}
