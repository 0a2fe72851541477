package stress

import (
	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	"github.com/theflywheel/exthash"
)

// Config drives one stress run. Every round inserts Keys random words and
// then removes all of them in random order.
type Config struct {
	Rounds   int    `toml:"rounds"`
	Keys     int    `toml:"keys"`
	KeyLen   int    `toml:"key-len"`
	ValueLen int    `toml:"value-len"`
	Seed     int64  `toml:"seed"`
	Hash     string `toml:"hash"`
	// CheckEvery runs Table.Check after that many mutations; 0 only checks
	// at the end of each phase.
	CheckEvery int `toml:"check-every"`

	Log LogConfig `toml:"log"`
}

// LogConfig selects where and how the driver logs.
type LogConfig struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
}

// DefaultConfig mirrors the classic self-test: ten rounds of 2^HashMaxBits
// eight-letter keys and values.
func DefaultConfig() Config {
	return Config{
		Rounds:   10,
		Keys:     1 << exthash.HashMaxBits,
		KeyLen:   8,
		ValueLen: 8,
		Hash:     "default",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads a TOML file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the driver cannot run.
func (c Config) Validate() error {
	switch {
	case c.Rounds < 1:
		return errors.Newf("rounds must be positive, got %d", c.Rounds)
	case c.Keys < 1:
		return errors.Newf("keys must be positive, got %d", c.Keys)
	case c.KeyLen < 1 || c.ValueLen < 1:
		return errors.Newf("key and value length must be positive, got %d and %d", c.KeyLen, c.ValueLen)
	case c.CheckEvery < 0:
		return errors.Newf("check-every must not be negative, got %d", c.CheckEvery)
	}
	if _, err := exthash.HashByName(c.Hash); err != nil {
		return err
	}
	return nil
}
