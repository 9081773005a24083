package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

type DomainConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type ValuationConfig struct {
	BatchSize        int    `mapstructure:"batch_size"`
	IntervalSec      uint64 `mapstructure:"interval_sec"`
	FailureThreshold int    `mapstructure:"failure_threshold"`
}

type BlocklistConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	IPs        []string `mapstructure:"ips"`
	URL        string   `mapstructure:"url"`
	RefreshSec uint64   `mapstructure:"refresh_sec"`
}

type Config struct {
	Home           string `mapstructure:"-"`
	ListenAddr     string `mapstructure:"listen_addr"`
	DBPath         string `mapstructure:"db_path"`
	PinPath        string `mapstructure:"pin_path"`
	PinURL         string `mapstructure:"pin_url"`
	ScoresURL      string `mapstructure:"scores_url"`
	RelayerKeyFile string `mapstructure:"relayer_key_file"`
	Network        string `mapstructure:"network"`

	Domain    DomainConfig    `mapstructure:"domain"`
	Valuation ValuationConfig `mapstructure:"valuation"`
	Blocklist BlocklistConfig `mapstructure:"blocklist"`

	// Controllers maps a space id to the address allowed to create or
	// reconfigure it, for deployments without a name-service resolver.
	Controllers map[string]string `mapstructure:"controllers"`
}

func DefaultConfig(home string) *Config {
	if len(home) == 0 {
		home = os.ExpandEnv("$HOME/.sequencer")
	}
	return &Config{
		Home:           home,
		ListenAddr:     ":3001",
		DBPath:         filepath.Join(home, "sequencer.db"),
		PinPath:        filepath.Join(home, "pins"),
		ScoresURL:      "https://score.snapshot.org",
		RelayerKeyFile: filepath.Join(home, "config", "relayer_priv_key"),
		Network:        "1",
		Domain: DomainConfig{
			Name:    "snapshot",
			Version: "0.1.4",
		},
		Valuation: ValuationConfig{
			BatchSize:        64,
			IntervalSec:      15,
			FailureThreshold: 5,
		},
		Blocklist: BlocklistConfig{
			RefreshSec: 300,
		},
		Controllers: map[string]string{},
	}
}

// Load reads home/config/config.toml over the defaults. A missing file is
// not an error.
func Load(home string) (*Config, error) {
	cfg := DefaultConfig(home)
	viper.SetConfigFile(fmt.Sprintf("%s/%s", cfg.Home, "config/config.toml"))
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			return nil, fmt.Errorf("reading config: %v", err)
		}
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %v", err)
	}
	return cfg, nil
}
