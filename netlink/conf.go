package netlink

import "github.com/goccy/go-yaml"

type Config struct {
	Log bool `yaml:"log"`

	// Groups lists the multicast groups Monitor joins, by the names in
	// GroupNames.
	Groups []string `yaml:"groups"`

	// ExtendedAck asks the kernel for NETLINK_EXT_ACK error messages.
	ExtendedAck bool `yaml:"extendedAck"`

	// StrictCheck turns on NETLINK_GET_STRICT_CHK so that dump filters in
	// the request header are honoured.
	StrictCheck bool `yaml:"strictCheck"`

	ReceiveBufferSize int `yaml:"receiveBufferSize"`
}

func (c *Config) UnmarshalYAML(b []byte) error {
	// Needed to break recursive calls into UnmarshalYAML
	type config Config

	def := &config{
		Log:         false,
		Groups:      []string{"link", "ipv4-ifaddr", "ipv6-ifaddr", "ipv4-route", "ipv6-route"},
		ExtendedAck: true,
		StrictCheck: false,
	}

	if err := yaml.Unmarshal(b, def); err != nil {
		return err
	}

	*c = Config(*def)

	return nil
}
