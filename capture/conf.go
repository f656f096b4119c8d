package capture

import "github.com/goccy/go-yaml"

type Config struct {
	Log        bool   `yaml:"log"`
	MaxReaders int    `yaml:"maxReaders"`
	BuffSize   int    `yaml:"buffSize"`
	PipePath   string `yaml:"pipePath"`
}

func (c *Config) UnmarshalYAML(b []byte) error {
	// Needed to break recursive calls into UnmarshalYAML
	type config Config

	def := &config{
		Log:        true,
		MaxReaders: 5,
		BuffSize:   65536,
		PipePath:   "rtnl.pipe",
	}

	if err := yaml.Unmarshal(b, def); err != nil {
		return err
	}

	*c = Config(*def)

	return nil
}
