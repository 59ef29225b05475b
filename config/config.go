// Package config loads the node-level settings for the guildd binary: data
// directory, network listeners, log level, and (optionally) the genesis
// parameters used to summon a brand-new guild on first start. Guild-internal
// state (OrgConfig, members, proposals) is established by the engine itself
// at runtime and is never part of this file.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Genesis carries the parameters passed to Engine.Summon on first start.
// It is only consulted when the persistent store has not yet been summoned.
type Genesis struct {
	PeriodDurationSeconds uint32 `toml:"PeriodDurationSeconds"`
	VotingPeriodLength    uint64 `toml:"VotingPeriodLength"`
	GracePeriodLength     uint64 `toml:"GracePeriodLength"`
	DilutionBound         uint64 `toml:"DilutionBound"`
	ProposalDepositWei    string `toml:"ProposalDepositWei"`
	ProcessingRewardWei   string `toml:"ProcessingRewardWei"`
}

// Config is the top-level node configuration.
type Config struct {
	ListenAddress  string  `toml:"ListenAddress"`
	MetricsAddress string  `toml:"MetricsAddress"`
	DataDir        string  `toml:"DataDir"`
	LogLevel       string  `toml:"LogLevel"`
	Genesis        Genesis `toml:"Genesis"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8081"
	}
	if cfg.MetricsAddress == "" {
		cfg.MetricsAddress = ":9101"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./guild-data"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Genesis.ProposalDepositWei == "" {
		cfg.Genesis.ProposalDepositWei = "100"
	}
	if cfg.Genesis.ProcessingRewardWei == "" {
		cfg.Genesis.ProcessingRewardWei = "50"
	}
	if cfg.Genesis.PeriodDurationSeconds == 0 {
		cfg.Genesis.PeriodDurationSeconds = 10
	}
	if cfg.Genesis.VotingPeriodLength == 0 {
		cfg.Genesis.VotingPeriodLength = 2
	}
	if cfg.Genesis.GracePeriodLength == 0 {
		cfg.Genesis.GracePeriodLength = 2
	}
	if cfg.Genesis.DilutionBound == 0 {
		cfg.Genesis.DilutionBound = 3
	}
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	applyDefaults(cfg)

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
