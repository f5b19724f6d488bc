package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleSha256(t *testing.T) {
	// Known double-SHA-256 of the empty input.
	want, err := hex.DecodeString("5df6e0e2761359d30a8275058e299fcc0381534545f55cf43e41983f5d4c9456")
	require.NoError(t, err)

	got := DoubleSha256([]byte{})
	assert.Equal(t, want, got[:])
}

func TestChecksumIsHashPrefix(t *testing.T) {
	data := []byte("version handshake payload")
	full := DoubleSha256(data)
	sum := Checksum(data)
	assert.Equal(t, full[:4], sum[:])
}
