package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/scitags/rtnl-go/capture"
	"github.com/scitags/rtnl-go/metrics"
	"github.com/scitags/rtnl-go/netlink"
)

type Config struct {
	// Output is the format events are printed in: json or yaml.
	Output string `yaml:"output"`

	Netlink *netlink.Config `yaml:"netlink"`
	Metrics *metrics.Config `yaml:"metrics"`
	Capture *capture.Config `yaml:"capture"`
}

func (c Config) String() string {
	m, err := yaml.MarshalWithOptions(c, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return "marshalling error..."
	}
	return string(m)
}

func (c *Config) UnmarshalYAML(b []byte) error {
	// Needed to break recursive calls into UnmarshalYAML
	type config Config

	def := &config{
		Output: "yaml",
	}

	if err := yaml.Unmarshal(b, def); err != nil {
		return err
	}

	*c = Config(*def)

	return nil
}

// fillDefaults gives every section left out of the file its defaults.
func (c *Config) fillDefaults() error {
	if c.Netlink == nil {
		c.Netlink = &netlink.Config{}
		if err := yaml.Unmarshal([]byte("{}"), c.Netlink); err != nil {
			return err
		}
	}
	if c.Metrics == nil {
		c.Metrics = &metrics.Config{}
		if err := yaml.Unmarshal([]byte("{}"), c.Metrics); err != nil {
			return err
		}
	}
	if c.Capture == nil {
		c.Capture = &capture.Config{}
		if err := yaml.Unmarshal([]byte("{}"), c.Capture); err != nil {
			return err
		}
	}
	return nil
}

func ReadConf(path string) (*Config, error) {
	r, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading the configuration file: %w", err)
	}

	return parseConf(r)
}

func parseConf(r []byte) (*Config, error) {
	conf := Config{}
	if err := yaml.Unmarshal(r, &conf); err != nil {
		return nil, fmt.Errorf("error unmarshaling the configuration: %w", err)
	}

	if err := conf.fillDefaults(); err != nil {
		return nil, fmt.Errorf("error setting the defaults: %w", err)
	}

	return &conf, nil
}

// loadConf reads path or, when it's empty, returns the defaults.
func loadConf(path string) (*Config, error) {
	if path == "" {
		return parseConf([]byte("{}"))
	}
	return ReadConf(path)
}
