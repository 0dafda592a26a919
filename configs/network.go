package configs

// Network describes one interface to configure inside the container's
// network namespace.
type Network struct {
	// Type is the registered network strategy name ("loopback").
	Type string `json:"type"`

	// Name is the interface name inside the container.
	Name string `json:"name,omitempty"`

	// Address is an optional CIDR address assigned to the interface.
	Address string `json:"address,omitempty"`

	// Mtu configures the interface MTU when non zero.
	Mtu int `json:"mtu,omitempty"`
}
