// Package config loads the optional lares user configuration from
// $XDG_CONFIG_HOME/lares/config.toml. A missing file yields defaults.
package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/lares/pkg/errors"
	"github.com/pelletier/go-toml/v2"
)

// Remote holds extra arguments passed to the ssh and scp commands, e.g.
// non-standard ports or StrictHostKeyChecking overrides for test hosts.
type Remote struct {
	SSHArgs []string `toml:"ssh_args"`
	SCPArgs []string `toml:"scp_args"`
}

// Config is the user configuration.
type Config struct {
	// NoColor disables color output, same as the --no-color flag.
	NoColor bool `toml:"no_color"`

	Remote Remote `toml:"remote"`
}

// Path returns the user config file location.
func Path() string {
	return filepath.Join(xdg.ConfigHome, "lares", "config.toml")
}

// Load reads the user config file, returning defaults when it is absent.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read config %s", path)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse config %s", path)
	}
	return &cfg, nil
}
