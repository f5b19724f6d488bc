package payload

import (
	"io"

	"github.com/Anfauglith/libiop/pkg/wire/command"
)

//VerackMessage represents a verack message on the IoP network
type VerackMessage struct{}

//NewVerackMessage returns a verack message
func NewVerackMessage() *VerackMessage {
	return &VerackMessage{}
}

// DecodePayload Implements Messager interface
func (v *VerackMessage) DecodePayload(r io.Reader) error {
	return nil
}

// EncodePayload Implements messager interface
func (v *VerackMessage) EncodePayload(w io.Writer) error {
	return nil
}

// Command Implements messager interface
func (v *VerackMessage) Command() command.Type {
	return command.Verack
}
