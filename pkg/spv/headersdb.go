package spv

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/Anfauglith/libiop/pkg/database"
	"github.com/Anfauglith/libiop/pkg/wire/payload"
)

var (
	// HEADER is the prefix used when inserting a header into the db,
	// keyed by block height so the sync can walk the chain forward
	HEADER = []byte("HE")
	// LATESTHEADER is the prefix holding the height of the current tip
	LATESTHEADER = []byte("LH")
	// HASHHEIGHT is the prefix linking a header hash to its height
	HASHHEIGHT = []byte("HH")
)

// ErrOrphanHeader is returned for a header that does not connect to
// the current tip.
var ErrOrphanHeader = errors.New("header does not connect to the chain tip")

// HeadersDB is the header chain store of the client. It bootstraps
// itself from the genesis header on first use and keeps the tip cached.
type HeadersDB struct {
	db database.Database

	tipHeight uint32
	tipHash   [32]byte
}

// NewHeadersDB opens the header store on the given database, writing
// the genesis header when the store is still empty.
func NewHeadersDB(db database.Database, genesis payload.BlockHeader) (*HeadersDB, error) {
	h := &HeadersDB{db: db}

	latest := database.NewTable(db, LATESTHEADER)
	val, err := latest.Get([]byte(""))
	switch err {
	case nil:
		height := binary.LittleEndian.Uint32(val)
		hdr, err := h.HeaderAt(height)
		if err != nil {
			return nil, fmt.Errorf("loading tip header: %w", err)
		}
		hash, err := hdr.Hash()
		if err != nil {
			return nil, err
		}
		h.tipHeight = height
		h.tipHash = hash
	case database.ErrNotFound:
		if err := h.putHeader(&genesis, 0); err != nil {
			return nil, fmt.Errorf("bootstrapping genesis: %w", err)
		}
	default:
		return nil, err
	}
	return h, nil
}

// Tip returns the height and hash of the best known header.
func (h *HeadersDB) Tip() (uint32, [32]byte) {
	return h.tipHeight, h.tipHash
}

// HeaderAt returns the header stored for the given height.
func (h *HeadersDB) HeaderAt(height uint32) (*payload.BlockHeader, error) {
	headers := database.NewTable(h.db, HEADER)
	raw, err := headers.Get(uint32ToBytes(height))
	if err != nil {
		return nil, err
	}
	hdr := &payload.BlockHeader{}
	if err := hdr.DecodePayload(bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return hdr, nil
}

// HeightOf returns the height a header hash was stored at.
func (h *HeadersDB) HeightOf(hash [32]byte) (uint32, error) {
	hashes := database.NewTable(h.db, HASHHEIGHT)
	val, err := hashes.Get(hash[:])
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(val), nil
}

// Append extends the chain with a header connecting to the tip.
func (h *HeadersDB) Append(hdr *payload.BlockHeader) error {
	if hdr.PrevBlock != h.tipHash {
		return ErrOrphanHeader
	}
	return h.putHeader(hdr, h.tipHeight+1)
}

func (h *HeadersDB) putHeader(hdr *payload.BlockHeader, height uint32) error {
	headers := database.NewTable(h.db, HEADER)
	latest := database.NewTable(h.db, LATESTHEADER)
	hashes := database.NewTable(h.db, HASHHEIGHT)

	raw, err := hdr.Bytes()
	if err != nil {
		return err
	}
	hash, err := hdr.Hash()
	if err != nil {
		return err
	}

	key := uint32ToBytes(height)
	if err := headers.Put(key, raw); err != nil {
		return err
	}
	if err := hashes.Put(hash[:], key); err != nil {
		return err
	}
	// Updating the latest pointer commits the header.
	if err := latest.Put([]byte(""), key); err != nil {
		return err
	}

	h.tipHeight = height
	h.tipHash = hash
	return nil
}

func uint32ToBytes(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
