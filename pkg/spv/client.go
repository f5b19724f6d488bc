package spv

import (
	"bytes"
	"errors"
	"net"
	"time"

	"github.com/Anfauglith/libiop/pkg/chaincfg"
	"github.com/Anfauglith/libiop/pkg/database"
	"github.com/Anfauglith/libiop/pkg/network"
	"github.com/Anfauglith/libiop/pkg/wire"
	"github.com/Anfauglith/libiop/pkg/wire/command"
	"github.com/Anfauglith/libiop/pkg/wire/payload"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
)

// seenCacheSize bounds the cache of recently processed header hashes.
const seenCacheSize = 4096

// ErrNoPeers is returned when the client could not launch a single
// connect attempt.
var ErrNoPeers = errors.New("no peers to connect to")

// Config contains the client settings.
type Config struct {
	ChainParams *chaincfg.Params
	// DB backs the header store, in-memory when unset.
	DB        database.Database
	Logger    *zap.Logger
	UserAgent string
	// MaxNodes is the desired amount of connected nodes.
	MaxNodes       int
	ConnectTimeout time.Duration
	// Continuous keeps the group running after the sync completed,
	// waiting for new blocks.
	Continuous bool

	// OnSyncCompleted fires when a headers batch ran dry.
	OnSyncCompleted func(c *Client)
	// OnNewTip fires whenever the stored chain grew.
	OnNewTip func(c *Client, height uint32)

	// Dial overrides the group's TCP dialer, used by tests.
	Dial func(addr string) (net.Conn, error)
}

// Client is a minimal SPV client: it keeps a pool of handshaked nodes
// and syncs the header chain from them.
type Client struct {
	cfg     Config
	log     *zap.Logger
	group   *network.NodeGroup
	headers *HeadersDB
	seen    *lru.Cache
}

//New creates a client and its node group for the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.ChainParams == nil {
		cfg.ChainParams = &chaincfg.MainNetParams
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DB == nil {
		cfg.DB = database.NewMemDB()
	}

	hdb, err := NewHeadersDB(cfg.DB, cfg.ChainParams.GenesisHeader)
	if err != nil {
		return nil, err
	}
	seen, err := lru.New(seenCacheSize)
	if err != nil {
		return nil, err
	}

	c := &Client{
		cfg:     cfg,
		log:     cfg.Logger,
		headers: hdb,
		seen:    seen,
	}

	height, _ := hdb.Tip()
	c.group = network.NewNodeGroup(network.Config{
		ChainParams:        cfg.ChainParams,
		UserAgent:          cfg.UserAgent,
		StartHeight:        int32(height),
		DesiredConnections: cfg.MaxNodes,
		ConnectTimeout:     cfg.ConnectTimeout,
		Logger:             cfg.Logger,
		ParseCmd:           c.parseCmd,
		OnHandshakeDone:    c.onHandshakeDone,
		Dial:               cfg.Dial,
	})
	return c, nil
}

// Group returns the node group driven by the client.
func (c *Client) Group() *network.NodeGroup {
	return c.group
}

// Headers returns the header store.
func (c *Client) Headers() *HeadersDB {
	return c.headers
}

//Run discovers peers, fills the pool and blocks in the group loop
// until the sync completed or Shutdown was called.
func (c *Client) Run(ips string) error {
	if err := c.group.AddPeers(ips); err != nil {
		return err
	}
	if !c.group.ConnectNextNodes() {
		return ErrNoPeers
	}
	c.group.Run()
	return nil
}

func (c *Client) onHandshakeDone(n *network.Node) {
	c.log.Info("handshake complete, requesting headers",
		zap.Int("node", n.ID),
		zap.String("useragent", n.UserAgent),
		zap.Int32("height", n.BestKnownHeight))
	c.requestHeaders(n)
}

// requestHeaders asks the node for everything after our tip.
func (c *Client) requestHeaders(n *network.Node) {
	_, tipHash := c.headers.Tip()

	msg := payload.NewGetHeadersMessage([][32]byte{tipHash}, [32]byte{})
	buf := new(bytes.Buffer)
	if err := msg.EncodePayload(buf); err != nil {
		c.log.Debug("encoding getheaders failed", zap.Error(err))
		return
	}
	n.SendCommand(command.GetHeaders, buf.Bytes())
	n.LastRequestedInv = tipHash
	n.TimeLastRequest = time.Now().Unix()
}

// parseCmd intercepts headers batches, everything else runs through
// the built-in handling.
func (c *Client) parseCmd(n *network.Node, hdr *wire.Header, body []byte) bool {
	if hdr.Command != command.Headers {
		return true
	}
	c.onHeaders(n, body)
	return false
}

func (c *Client) onHeaders(n *network.Node, body []byte) {
	msg := payload.NewHeadersMessage()
	if err := msg.DecodePayload(bytes.NewReader(body)); err != nil {
		n.Misbehave()
		return
	}

	grown := false
	for _, hdr := range msg.Headers {
		hash, err := hdr.Hash()
		if err != nil {
			continue
		}
		if c.seen.Contains(hash) {
			continue
		}

		if err := c.headers.Append(hdr); err != nil {
			// Orphans are skipped, the next getheaders round sorts
			// the chain out.
			continue
		}
		c.seen.Add(hash, struct{}{})
		grown = true
	}

	height, _ := c.headers.Tip()
	c.log.Debug("processed headers batch",
		zap.Int("node", n.ID),
		zap.Int("batch", len(msg.Headers)),
		zap.Uint32("height", height))
	if grown && c.cfg.OnNewTip != nil {
		c.cfg.OnNewTip(c, height)
	}

	if len(msg.Headers) >= payload.MaxHeadersResults {
		// A full batch means the remote has more for us.
		c.requestHeaders(n)
		return
	}
	c.syncCompleted()
}

func (c *Client) syncCompleted() {
	height, _ := c.headers.Tip()
	c.log.Info("header sync completed", zap.Uint32("height", height))
	if cb := c.cfg.OnSyncCompleted; cb != nil {
		cb(c)
	}
	if !c.cfg.Continuous {
		c.group.Shutdown()
	}
}
