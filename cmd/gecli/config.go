package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the defaults a gecli.toml file can supply, so a project
// working with one fixed grammar/rule-file pair doesn't have to repeat
// them on every invocation. Grounded on pingcap-tidb's config.Config,
// which is likewise decoded straight off the command line's --config
// flag with toml.DecodeFile.
type Config struct {
	Grammar        string `toml:"grammar"`
	Rules          string `toml:"rules"`
	Mode           string `toml:"mode"`
	CollapseChains bool   `toml:"collapse_chains"`
	FilterTrivia   bool   `toml:"filter_trivia"`
}

func defaultConfig() Config {
	return Config{
		Mode:           "SLR(1)",
		CollapseChains: true,
		FilterTrivia:   true,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot read config file %s: %w", path, err)
	}
	return cfg, nil
}

// firstNonEmpty returns the first non-empty string, used to let a
// positional/flag argument override a config file default without the
// config file needing to leave the field unset.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
