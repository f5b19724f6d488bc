package payload

import (
	"bytes"
	"net"
	"testing"

	"github.com/Anfauglith/libiop/pkg/wire/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionMessageEncodeDecode(t *testing.T) {
	addr, err := net.ResolveTCPAddr("tcp", "10.1.2.3:4877")
	require.NoError(t, err)

	v := NewVersionMessage(AddrFromTCP(addr, protocol.NodeNetwork), 100, true,
		protocol.DefaultVersion, "/ua/", 0xcafe, protocol.NodeNetwork)

	buf := new(bytes.Buffer)
	require.NoError(t, v.EncodePayload(buf))

	dec := &VersionMessage{}
	require.NoError(t, dec.DecodePayload(buf))

	assert.Equal(t, v, dec)
	assert.Equal(t, "/ua/", dec.UserAgent)
	assert.Equal(t, int32(100), dec.StartHeight)
	assert.Equal(t, "10.1.2.3:4877", dec.AddrRecv.IPPort())
}

func TestVersionMessageMissingRelayByte(t *testing.T) {
	v := NewVersionMessage(nil, 0, true, protocol.DefaultVersion, "/ua/", 1, 0)

	buf := new(bytes.Buffer)
	require.NoError(t, v.EncodePayload(buf))

	// Old peers omit the trailing relay flag.
	raw := buf.Bytes()
	dec := &VersionMessage{}
	require.NoError(t, dec.DecodePayload(bytes.NewReader(raw[:len(raw)-1])))
	assert.False(t, dec.Relay)
}

func TestVersionMessageTruncated(t *testing.T) {
	v := NewVersionMessage(nil, 0, false, protocol.DefaultVersion, "/ua/", 1, 0)

	buf := new(bytes.Buffer)
	require.NoError(t, v.EncodePayload(buf))

	dec := &VersionMessage{}
	err := dec.DecodePayload(bytes.NewReader(buf.Bytes()[:20]))
	require.Error(t, err)
}
