package chaincfg

import (
	"github.com/Anfauglith/libiop/pkg/wire/payload"
	"github.com/Anfauglith/libiop/pkg/wire/protocol"
)

// Params are the parameters needed to setup the network
type Params struct {
	Name        string
	Magic       protocol.Magic
	DefaultPort uint16
	DNSSeeds    []string

	// GenesisHeader bootstraps an otherwise empty header store.
	GenesisHeader payload.BlockHeader
}

// MainNetParams describes the production IoP network.
var MainNetParams = Params{
	Name:        "mainnet",
	Magic:       protocol.MainNet,
	DefaultPort: 4877,
	DNSSeeds: []string{
		"main.iop.cash",
		"mainnet.iop.cash",
	},
	GenesisHeader: payload.BlockHeader{
		Version:   1,
		Timestamp: 1463452181,
		Bits:      0x1d00ffff,
		Nonce:     1875087468,
	},
}

// TestNetParams describes the public test network.
var TestNetParams = Params{
	Name:        "testnet",
	Magic:       protocol.TestNet,
	DefaultPort: 7475,
	DNSSeeds: []string{
		"testnet.iop.cash",
	},
	GenesisHeader: payload.BlockHeader{
		Version:   1,
		Timestamp: 1463452342,
		Bits:      0x1d00ffff,
		Nonce:     3335213172,
	},
}

// RegtestParams describes a local regression test network. It has no
// seeds, peers are always given explicitly.
var RegtestParams = Params{
	Name:        "regtest",
	Magic:       protocol.RegTest,
	DefaultPort: 14877,
	GenesisHeader: payload.BlockHeader{
		Version:   1,
		Timestamp: 1296688602,
		Bits:      0x207fffff,
		Nonce:     2,
	},
}

//NetParams returns the parameters for the chosen network magic
func NetParams(magic protocol.Magic) *Params {
	switch magic {
	case protocol.TestNet:
		return &TestNetParams
	case protocol.RegTest:
		return &RegtestParams
	default:
		return &MainNetParams
	}
}
