package tezos

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"

	"github.com/naoina/toml"
)

// Mode selects the instruction set the app answers to.
type Mode string

const (
	ModeWallet Mode = "wallet"
	ModeBaking Mode = "baking"
)

const (
	DefaultRAMSize   = 1024
	DefaultFlashSize = 8192

	minSeedLength = 16
	maxSeedLength = 64
	gitCommitSize = 8
)

var ErrInvalidConfig = errors.New("invalid config")

type AppConfig struct {
	Mode      Mode   `toml:"mode"`
	Dev       bool   `toml:"dev"`
	TargetID  uint32 `toml:"target_id"`
	GitCommit string `toml:"git_commit"`
}

type WalletConfig struct {
	Enabled bool `toml:"enabled"`
}

type BakingConfig struct {
	Enabled bool `toml:"enabled"`
	// AutoApproveConsensus signs blocks and endorsements passing the
	// high-water mark check without asking the user.
	AutoApproveConsensus bool `toml:"auto_approve_consensus"`
}

type BufferConfig struct {
	RAMSize   int `toml:"ram_size"`
	FlashSize int `toml:"flash_size"`
}

type StorageConfig struct {
	// Path of the NVM database. Empty keeps everything in memory.
	Path string `toml:"path"`
}

type KeysConfig struct {
	Seed string `toml:"seed"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Config is the device configuration, usually loaded from a TOML file.
type Config struct {
	App     AppConfig     `toml:"app"`
	Wallet  WalletConfig  `toml:"wallet"`
	Baking  BakingConfig  `toml:"baking"`
	Buffer  BufferConfig  `toml:"buffer"`
	Storage StorageConfig `toml:"storage"`
	Keys    KeysConfig    `toml:"keys"`
	Log     LogConfig     `toml:"log"`
	// Bakers maps baker addresses to the name shown for delegations.
	Bakers map[string]string `toml:"bakers"`
}

var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return strings.ToLower(strings.ReplaceAll(key, "_", ""))
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// DefaultConfig returns a wallet configuration with in-memory storage.
// The seed is left empty and must be provided.
func DefaultConfig() Config {

	return Config{
		App:    AppConfig{Mode: ModeWallet, GitCommit: "00000000"},
		Buffer: BufferConfig{RAMSize: DefaultRAMSize, FlashSize: DefaultFlashSize},
		Log:    LogConfig{Level: "info"},
	}

}

// LoadConfig reads file over the defaults and validates the result.
func LoadConfig(file string) (Config, error) {

	config := DefaultConfig()

	f, err := os.Open(file)
	if err != nil {
		return config, err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(&config)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(file + ", " + err.Error())
	}
	if err != nil {
		return config, err
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil

}

// IsBaking reports whether the baking instruction set is active.
func (config Config) IsBaking() bool {

	return config.App.Mode == ModeBaking

}

// Validate makes sure exactly one instruction set is active and the
// buffers and seed are usable.
func (config Config) Validate() error {

	switch config.App.Mode {
	case ModeWallet:
		if config.Baking.Enabled {
			return fmt.Errorf("%w: baking enabled in wallet mode", ErrInvalidConfig)
		}
	case ModeBaking:
		if config.Wallet.Enabled {
			return fmt.Errorf("%w: wallet enabled in baking mode", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, config.App.Mode)
	}

	if config.Wallet.Enabled && config.Baking.Enabled {
		return fmt.Errorf("%w: wallet and baking are mutually exclusive", ErrInvalidConfig)
	}

	if config.Buffer.RAMSize <= 0 || config.Buffer.FlashSize <= 0 {
		return fmt.Errorf("%w: buffer sizes must be positive", ErrInvalidConfig)
	}

	if config.Buffer.FlashSize < config.Buffer.RAMSize {
		return fmt.Errorf("%w: flash size %d is smaller than ram size %d", ErrInvalidConfig, config.Buffer.FlashSize, config.Buffer.RAMSize)
	}

	if len(config.App.GitCommit) < gitCommitSize {
		return fmt.Errorf("%w: git commit must have %d characters", ErrInvalidConfig, gitCommitSize)
	}

	if _, err := config.Seed(); err != nil {
		return err
	}

	if _, err := config.LogLevel(); err != nil {
		return err
	}

	return nil

}

// Seed decodes the hex seed.
func (config Config) Seed() ([]byte, error) {

	seed, err := hex.DecodeString(config.Keys.Seed)
	if err != nil {
		return nil, fmt.Errorf("%w: seed: %v", ErrInvalidConfig, err)
	}

	if len(seed) < minSeedLength || len(seed) > maxSeedLength {
		return nil, fmt.Errorf("%w: seed must be %d to %d bytes, got %d", ErrInvalidConfig, minSeedLength, maxSeedLength, len(seed))
	}

	return seed, nil

}

func (config Config) LogLevel() (slog.Level, error) {

	var level slog.Level

	name := config.Log.Level
	if name == "" {
		name = "info"
	}

	if err := level.UnmarshalText([]byte(name)); err != nil {
		return level, fmt.Errorf("%w: log level %q", ErrInvalidConfig, config.Log.Level)
	}

	return level, nil

}
