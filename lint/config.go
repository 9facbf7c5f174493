package lint

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var ErrUnknownConfigFormat = errors.New("unknown rule config format")

// Config is the on-disk form of a rule set:
//
//	rules:
//	  - id: param-described
//	    when: name == "@param"
//	    assert: description != ""
//	    message: "@param has no description"
type Config struct {
	// Defaults prepends DefaultRules to Rules.
	Defaults bool   `yaml:"defaults" toml:"defaults"`
	Rules    []Rule `yaml:"rules" toml:"rules"`
}

// RuleSet returns the rules the config describes.
func (c Config) RuleSet() []Rule {
	if !c.Defaults {
		return c.Rules
	}
	return append(DefaultRules(), c.Rules...)
}

// Load reads a config in the given format ("yaml", "yml" or "toml").
func Load(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode yaml: %w", err)
		}
	case "toml":
		if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode toml: %w", err)
		}
	default:
		return cfg, fmt.Errorf("%w %q", ErrUnknownConfigFormat, format)
	}
	return cfg, nil
}

// LoadFile reads a config file, choosing the format by its extension.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg, err := Load(f, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return cfg, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}
