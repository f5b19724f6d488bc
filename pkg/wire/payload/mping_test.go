package payload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingPongEncodeDecode(t *testing.T) {
	ping := NewPingMessage(0xdeadbeef)

	buf := new(bytes.Buffer)
	require.NoError(t, ping.EncodePayload(buf))
	assert.Equal(t, 8, buf.Len())

	pong := &PongMessage{}
	require.NoError(t, pong.DecodePayload(buf))
	assert.Equal(t, ping.Nonce, pong.Nonce)
}

func TestPingTruncated(t *testing.T) {
	ping := &PingMessage{}
	err := ping.DecodePayload(bytes.NewReader([]byte{0x01, 0x02}))
	require.Error(t, err)
}
