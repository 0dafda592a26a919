//go:build linux

package network

import (
	"fmt"

	"github.com/vishvananda/netlink"

	"github.com/libcell/libcell/configs"
)

// Loopback is a network strategy that brings up the loopback device so
// that processes inside the container can talk to themselves.
type Loopback struct {
}

func (l *Loopback) Initialize(config *configs.Network) error {
	name := config.Name
	if name == "" {
		name = "lo"
	}
	link, err := netlink.LinkByName(name)
	if err != nil {
		return fmt.Errorf("lookup link %s: %w", name, err)
	}
	if config.Mtu > 0 {
		if err := netlink.LinkSetMTU(link, config.Mtu); err != nil {
			return fmt.Errorf("set mtu on %s: %w", name, err)
		}
	}
	if config.Address != "" {
		addr, err := netlink.ParseAddr(config.Address)
		if err != nil {
			return fmt.Errorf("parse address %s: %w", config.Address, err)
		}
		if err := netlink.AddrAdd(link, addr); err != nil {
			return fmt.Errorf("assign address to %s: %w", name, err)
		}
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return fmt.Errorf("bring up %s: %w", name, err)
	}
	return nil
}
