// Package config loads the engine's runtime configuration record from
// a YAML file, standing in for the flight controller's persistent
// settings blob without reimplementing that storage. It is one of the
// few places in this repository allowed to return an error: the core
// ahrs/engine packages never do.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/tracktum/ahrs-engine/ahrs"
)

// Load reads path as YAML and unmarshals it into an ahrs.Config seeded
// with ahrs.DefaultConfig, so fields the file omits keep their
// documented defaults.
func Load(path string) (ahrs.Config, error) {
	cfg := ahrs.DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "read config %q", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %q", path)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML, in the form Load reads back.
func Save(path string, cfg ahrs.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write config %q", path)
	}
	return nil
}
