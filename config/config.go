// Copyright (c) 2020 The JaxNetwork developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/thedlop/sigma-go/corelog"
	"github.com/thedlop/sigma-go/types/chaincfg"
	"github.com/thedlop/sigma-go/types/wire"
)

const (
	defaultConfigFilename = "nipopow.yaml"
	defaultLogLevel       = "info"
	defaultMetricsPort    = 2112
)

var (
	// ErrNoGenesis is returned for networks without a built-in genesis when
	// the configuration does not name one.
	ErrNoGenesis = errors.New("network has no genesis, set genesis_id")
)

// Config is the configuration of the verifier tooling.
type Config struct {
	ConfigFile string `yaml:"-" toml:"-"`

	Net        string         `yaml:"net" toml:"net"`
	GenesisID  string         `yaml:"genesis_id" toml:"genesis_id"`
	DebugLevel string         `yaml:"debug_level" toml:"debug_level"`
	LogConfig  corelog.Config `yaml:"log_config" toml:"log_config"`
	Nipopow    NipopowConfig  `yaml:"nipopow" toml:"nipopow"`
	Metrics    MetricsConfig  `yaml:"metrics" toml:"metrics"`
}

// NipopowConfig overrides the proof parameters of the network. Zero values
// keep the network defaults.
type NipopowConfig struct {
	M uint32 `yaml:"m" toml:"m"`
	K uint32 `yaml:"k" toml:"k"`
}

type MetricsConfig struct {
	Enable   bool   `yaml:"enable" toml:"enable"`
	Interval int    `yaml:"interval" toml:"interval"`
	Port     uint16 `yaml:"port" toml:"port"`
	// TextFile receives the metrics in the text exposition format when set.
	TextFile string `yaml:"text_file" toml:"text_file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Net:        string(chaincfg.MainNet),
		DebugLevel: defaultLogLevel,
		LogConfig:  corelog.Config{}.Default(),
		Metrics: MetricsConfig{
			Interval: 10,
			Port:     defaultMetricsPort,
		},
	}
}

// Load reads the yaml or toml file at path on top of the defaults. An empty path
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	path = cleanAndExpandPath(path)
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.ConfigFile = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode parses toml files by extension and everything else as yaml.
// Unknown keys are errors in both formats.
func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.Errorf("unknown keys %v", undecoded)
		}
		return nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate checks the values that can be checked without side effects.
func (cfg *Config) Validate() error {
	switch chaincfg.NetName(cfg.Net) {
	case chaincfg.MainNet, chaincfg.SimNet:
	default:
		return errors.Errorf("unknown network %q", cfg.Net)
	}
	if !validLogLevel(cfg.DebugLevel) {
		return errors.Errorf("invalid debug level %q", cfg.DebugLevel)
	}
	if cfg.Metrics.Interval <= 0 {
		return errors.Errorf("metrics interval must be positive, got %d", cfg.Metrics.Interval)
	}
	_, err := cfg.Params()
	return err
}

// Params resolves the network parameters with the configured overrides.
func (cfg *Config) Params() (*chaincfg.Params, error) {
	params := *chaincfg.NetName(cfg.Net).Params()

	if cfg.GenesisID != "" {
		id, err := wire.NewBlockIDFromStr(cfg.GenesisID)
		if err != nil {
			return nil, errors.Wrap(err, "genesis_id")
		}
		params.GenesisID = id
	}
	if params.GenesisID.IsZero() {
		return nil, ErrNoGenesis
	}

	if cfg.Nipopow.M != 0 {
		params.Nipopow.M = cfg.Nipopow.M
	}
	if cfg.Nipopow.K != 0 {
		params.Nipopow.K = cfg.Nipopow.K
	}
	return &params, nil
}

// Save writes the configuration as yaml.
func (cfg *Config) Save(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// DefaultConfigFile is the file looked up in the working directory.
func DefaultConfigFile() string {
	return defaultConfigFilename
}

// cleanAndExpandPath expands environment variables and leading ~ in the
// passed path, cleans the result, and returns it.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}

	return filepath.Clean(os.ExpandEnv(path))
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return true
	}
	return false
}
