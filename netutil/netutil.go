package netutil

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"
)

//Does the address space of these networks "a" and "b" overlap?
func CidrOverlap(a, b *net.IPNet) bool {
	return a.Contains(b.IP) || b.Contains(a.IP)
}

//Return next IP address in network range
func IncrementIP(netIP net.IP) net.IP {
	ip := make(net.IP, len(netIP))
	copy(ip, netIP)

	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}

	return ip
}

// ParseIPv4CIDR parses an IPv4 network in CIDR notation. IPv6 networks are rejected.
func ParseIPv4CIDR(cidr string) (*net.IPNet, error) {
	_, n, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, err
	}
	if n.IP.To4() == nil {
		return nil, fmt.Errorf("%s is not an IPv4 network", cidr)
	}
	return n, nil
}

// Allocator hands out consecutive, mask-aligned blocks of an IPv4 network.
type Allocator struct {
	network *net.IPNet
	first   uint64
	last    uint64
	next    uint64
}

func NewAllocator(cidr string) (*Allocator, error) {
	n, err := ParseIPv4CIDR(cidr)
	if err != nil {
		return nil, err
	}
	ones, bits := n.Mask.Size()
	first := uint64(binary.BigEndian.Uint32(n.IP.To4()))
	return &Allocator{
		network: n,
		first:   first,
		last:    first + (uint64(1) << uint(bits-ones)) - 1,
		next:    first,
	}, nil
}

func (a *Allocator) Network() *net.IPNet {
	return a.network
}

// Remaining is the number of addresses not yet handed out.
func (a *Allocator) Remaining() uint64 {
	if a.next > a.last {
		return 0
	}
	return a.last - a.next + 1
}

// MaskForRemaining returns the mask length that lets `count` equally sized blocks fit into the remaining space
// once `reserved` addresses are set aside.
func (a *Allocator) MaskForRemaining(count int, reserved uint64) (int, error) {
	if count <= 0 {
		return 0, fmt.Errorf("can't split %s into %d blocks", a.network, count)
	}
	remaining := a.Remaining()
	if reserved >= remaining {
		return 0, fmt.Errorf("network %s has no room left after reserving %d addresses", a.network, reserved)
	}
	perBlock := (remaining - reserved) / uint64(count)
	if perBlock < 1 {
		return 0, fmt.Errorf("network %s is too small to hold %d subnets", a.network, count)
	}
	mask := 32 - int(math.Floor(math.Log2(float64(perBlock))))
	if mask > 28 {
		return 0, fmt.Errorf("network %s is too small to hold %d subnets: each would be smaller than /28", a.network, count)
	}
	return mask, nil
}

// Next allocates the next block of the given mask length, aligned to its own size.
func (a *Allocator) Next(mask int) (*net.IPNet, error) {
	ones, _ := a.network.Mask.Size()
	if mask < ones || mask > 32 {
		return nil, fmt.Errorf("a /%d block can't be carved out of %s", mask, a.network)
	}
	size := uint64(1) << uint(32-mask)
	start := a.next
	if rem := (start - a.first) % size; rem != 0 {
		start += size - rem
	}
	if start+size-1 > a.last {
		return nil, fmt.Errorf("network %s is exhausted: no room for another /%d block", a.network, mask)
	}
	a.next = start + size

	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, uint32(start))
	return &net.IPNet{IP: ip, Mask: net.CIDRMask(mask, 32)}, nil
}

// Size returns the number of addresses in a block of the given mask length.
func Size(mask int) uint64 {
	return uint64(1) << uint(32-mask)
}
