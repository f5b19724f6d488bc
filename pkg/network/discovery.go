package network

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ErrNoSeeds is returned when seed discovery was requested on a network
// without any DNS seed.
var ErrNoSeeds = errors.New("chain parameters carry no DNS seed")

//AddPeers fills the group with peers: from the given comma separated
// host:port list, or, when the list is empty, from the first DNS seed
// of the chain parameters. Individual unparsable addresses are skipped
// silently.
func (g *NodeGroup) AddPeers(ips string) error {
	if ips != "" {
		for _, part := range strings.Split(ips, ",") {
			addr := strings.TrimSpace(part)
			if addr == "" {
				continue
			}
			if _, err := g.AddNode(addr); err != nil {
				g.log.Debug("skipping unparsable peer address", zap.String("addr", addr))
			}
		}
		return nil
	}

	if len(g.chainParams.DNSSeeds) == 0 {
		return ErrNoSeeds
	}
	seed := g.chainParams.DNSSeeds[0]
	addrs, err := g.lookupIP(seed)
	if err != nil {
		return fmt.Errorf("resolving seed %s: %w", seed, err)
	}

	port := strconv.Itoa(int(g.chainParams.DefaultPort))
	for _, ip := range addrs {
		if ip.To4() == nil {
			continue
		}
		if _, err := g.AddNode(net.JoinHostPort(ip.String(), port)); err != nil {
			g.log.Debug("skipping seed address", zap.String("ip", ip.String()))
		}
	}
	g.log.Debug("discovered peers from seed",
		zap.String("seed", seed), zap.Int("count", len(g.nodes)))
	return nil
}
