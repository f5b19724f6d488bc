package payload

import (
	"net"
	"strconv"

	"github.com/Anfauglith/libiop/pkg/wire/protocol"
	"github.com/Anfauglith/libiop/pkg/wire/util"
)

//NetAddr is an abstraction for the IP layer. This is the form embedded
// in a version message, without the leading timestamp field.
type NetAddr struct {
	Services protocol.ServiceFlag
	IP       [16]byte
	Port     uint16
}

//NewNetAddr returns a NetAddr object
func NewNetAddr(ip [16]byte, port uint16, services protocol.ServiceFlag) *NetAddr {
	return &NetAddr{services, ip, port}
}

//AddrFromTCP builds a NetAddr from a host address, mapping IPv4
// into the 16 byte IPv6 form
func AddrFromTCP(addr *net.TCPAddr, services protocol.ServiceFlag) *NetAddr {
	var ip [16]byte
	copy(ip[:], addr.IP.To16())
	return NewNetAddr(ip, uint16(addr.Port), services)
}

// EncodePayload Implements messager interface
func (n *NetAddr) EncodePayload(bw *util.BinWriter) {
	bw.WriteLE(n.Services)
	bw.WriteBE(n.IP)
	bw.WriteBE(n.Port)
}

// DecodePayload Implements Messager interface
func (n *NetAddr) DecodePayload(br *util.BinReader) {
	br.ReadLE(&n.Services)
	br.ReadBE(&n.IP)
	br.ReadBE(&n.Port)
}

//IPPort returns the IPPort from the NetAddr
func (n *NetAddr) IPPort() string {
	ip := net.IP(n.IP[:]).String()
	port := strconv.Itoa(int(n.Port))
	return ip + ":" + port
}
