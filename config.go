package brc

import (
	"runtime"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/zeebo/errs/v2"

	"github.com/histdb/brc/keytbl"
)

const (
	EnvPrefix       = "BRC_"
	ConfigDelimiter = "."

	DefaultMaxKeyLen = 100
	DefaultTableBits = 16

	minTableBits = 4
	maxTableBits = 24
)

// Config holds the tunables of a run.
type Config struct {
	// Workers is the number of ranges scanned in parallel.
	Workers int `koanf:"workers"`

	// MaxKeyLen is the longest accepted key in bytes. At most keytbl.KeyCap.
	MaxKeyLen int `koanf:"max_key_len"`

	// TableBits sets every worker table to 1<<TableBits slots. Tables do not
	// grow, so this bounds the number of distinct keys to 80% of the slots.
	TableBits int `koanf:"table_bits"`

	// HashMul is the odd multiplier used to hash keys. It trades collision
	// rate against nothing else, but has to be odd to keep every bit.
	HashMul uint32 `koanf:"hash_mul"`

	// TreeMerge merges worker tables pairwise in parallel instead of folding
	// them into the first one in order.
	TreeMerge bool `koanf:"tree_merge"`

	LogLevel string `koanf:"log_level"`
}

func defaults() map[string]any {
	return map[string]any{
		"workers":     max(1, 3*runtime.GOMAXPROCS(0)/4),
		"max_key_len": DefaultMaxKeyLen,
		"table_bits":  DefaultTableBits,
		"hash_mul":    keytbl.DefaultMul,
		"tree_merge":  false,
		"log_level":   "info",
	}
}

// DefaultConfig returns the configuration used when nothing is overridden.
// The worker count is three quarters of GOMAXPROCS.
func DefaultConfig() Config {
	cfg, err := load(nil, nil)
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig layers the defaults, BRC_* environment variables (BRC_WORKERS,
// BRC_TABLE_BITS, ...) and overrides, in that order, and validates the result.
func LoadConfig(overrides map[string]any) (Config, error) {
	return load(env.Provider(EnvPrefix, ConfigDelimiter, func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), overrides)
}

func load(environ koanf.Provider, overrides map[string]any) (cfg Config, err error) {
	k := koanf.New(ConfigDelimiter)

	if err := k.Load(confmap.Provider(defaults(), ConfigDelimiter), nil); err != nil {
		return cfg, errs.Wrap(err)
	}
	if environ != nil {
		if err := k.Load(environ, nil); err != nil {
			return cfg, errs.Wrap(err)
		}
	}
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, ConfigDelimiter), nil); err != nil {
			return cfg, errs.Wrap(err)
		}
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, errs.Wrap(err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first out of range setting.
func (c Config) Validate() error {
	switch {
	case c.Workers < 1:
		return errs.Errorf("workers must be positive: %d", c.Workers)
	case c.MaxKeyLen < 1 || c.MaxKeyLen > keytbl.KeyCap:
		return errs.Errorf("max_key_len must be in [1, %d]: %d", keytbl.KeyCap, c.MaxKeyLen)
	case c.TableBits < minTableBits || c.TableBits > maxTableBits:
		return errs.Errorf("table_bits must be in [%d, %d]: %d", minTableBits, maxTableBits, c.TableBits)
	case c.HashMul%2 == 0:
		return errs.Errorf("hash_mul must be odd: %#x", c.HashMul)
	}
	return nil
}
