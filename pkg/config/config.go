// Package config provides YAML-based configuration loading for the
// marshalling tools: logging options plus the frame profile a layer chain
// is built from at startup.
package config

import (
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "github.com/spf13/viper"
)

// Config is the root tool configuration.
type Config struct {
    // AppName optional logical name of the tool/application
    AppName string `mapstructure:"app_name"`

    // Log holds logging configuration
    Log LogConfig `mapstructure:"log"`

    // Frame describes the layer chain profile
    Frame FrameConfig `mapstructure:"frame"`
}

// LogConfig defines logger settings.
type LogConfig struct {
    // Level: debug, info, warn, error
    Level string `mapstructure:"level"`
    // Format: console or json
    Format string `mapstructure:"format"`
    // Outputs: list of outputs: stdout, stderr, or file paths
    Outputs []string `mapstructure:"outputs"`

    // Rotation controls file rotation when writing to files
    Rotation RotationConfig `mapstructure:"rotation"`
    // Development toggles development-friendly logging options
    Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
    Enable     bool   `mapstructure:"enable"`
    Filename   string `mapstructure:"filename"`
    MaxSizeMB  int    `mapstructure:"max_size_mb"`
    MaxBackups int    `mapstructure:"max_backups"`
    MaxAgeDays int    `mapstructure:"max_age_days"`
    Compress   bool   `mapstructure:"compress"`
}

// FrameConfig selects the layers of the chain and their field widths.
// A zero width disables the optional layers; the payload layer is always
// present. All settings are fixed for the lifetime of the built chain.
type FrameConfig struct {
    // ByteOrder of all fields: little (default) or big
    ByteOrder string `mapstructure:"byte_order"`

    Sync     SyncConfig     `mapstructure:"sync"`
    Length   LengthConfig   `mapstructure:"length"`
    Checksum ChecksumConfig `mapstructure:"checksum"`
    ID       IDConfig       `mapstructure:"id"`
    Meta     MetaConfig     `mapstructure:"meta"`
    Payload  PayloadConfig  `mapstructure:"payload"`
}

// SyncConfig describes the leading sync marker field.
type SyncConfig struct {
    Width  int    `mapstructure:"width"`
    Marker uint64 `mapstructure:"marker"`
}

// LengthConfig describes the length prefix field.
type LengthConfig struct {
    Width int `mapstructure:"width"`
}

// ChecksumConfig describes the trailing checksum field.
type ChecksumConfig struct {
    Width int `mapstructure:"width"`
    // Algorithm: sum, xor, crc32, crc32c, crc64, xxhash
    Algorithm string `mapstructure:"algorithm"`
    // VerifyBeforeRead verifies the checksum before the inner layers run
    VerifyBeforeRead bool `mapstructure:"verify_before_read"`
}

// IDConfig describes the message id field.
type IDConfig struct {
    Width int `mapstructure:"width"`
    // MaxID caps accepted ids for the default raw-message factory
    MaxID uint64 `mapstructure:"max_id"`
}

// MetaConfig describes the transport metadata field.
type MetaConfig struct {
    Width int `mapstructure:"width"`
}

// PayloadConfig describes the terminal payload layer.
type PayloadConfig struct {
    // FixedLength pins the body size; zero means variable
    FixedLength int `mapstructure:"fixed_length"`
}

// Default returns a Config populated with sensible defaults: the classic
// frame sync(2) | length(2) | checksum(2, crc32c) | id(1) | payload.
func Default() *Config {
    return &Config{
        AppName: "network-marshalling",
        Log: LogConfig{
            Level:       "info",
            Format:      "console",
            Outputs:     []string{"stdout"},
            Development: true,
            Rotation: RotationConfig{
                Enable:     false,
                Filename:   "logs/marshal.log",
                MaxSizeMB:  50,
                MaxBackups: 3,
                MaxAgeDays: 28,
                Compress:   true,
            },
        },
        Frame: FrameConfig{
            ByteOrder: "little",
            Sync:      SyncConfig{Width: 2, Marker: 0xb9cd},
            Length:    LengthConfig{Width: 2},
            Checksum:  ChecksumConfig{Width: 2, Algorithm: "crc32c"},
            ID:        IDConfig{Width: 1, MaxID: 255},
        },
    }
}

// Load reads configuration from the provided path (if non-empty), otherwise
// it searches common locations and supports environment overrides.
// Environment variables use the prefix NMARSHAL and `.`/`-` are replaced
// with `_`. Example: NMARSHAL_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
    cfg := Default()

    v := viper.New()
    v.SetConfigType("yaml")
    v.SetEnvPrefix("NMARSHAL")
    v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
    v.AutomaticEnv()

    // seed defaults for viper so env-only configs work
    v.SetDefault("app_name", cfg.AppName)
    v.SetDefault("log.level", cfg.Log.Level)
    v.SetDefault("log.format", cfg.Log.Format)
    v.SetDefault("log.outputs", cfg.Log.Outputs)
    v.SetDefault("log.development", cfg.Log.Development)
    v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
    v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
    v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
    v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
    v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
    v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)
    v.SetDefault("frame.byte_order", cfg.Frame.ByteOrder)
    v.SetDefault("frame.sync.width", cfg.Frame.Sync.Width)
    v.SetDefault("frame.sync.marker", cfg.Frame.Sync.Marker)
    v.SetDefault("frame.length.width", cfg.Frame.Length.Width)
    v.SetDefault("frame.checksum.width", cfg.Frame.Checksum.Width)
    v.SetDefault("frame.checksum.algorithm", cfg.Frame.Checksum.Algorithm)
    v.SetDefault("frame.checksum.verify_before_read", cfg.Frame.Checksum.VerifyBeforeRead)
    v.SetDefault("frame.id.width", cfg.Frame.ID.Width)
    v.SetDefault("frame.id.max_id", cfg.Frame.ID.MaxID)
    v.SetDefault("frame.meta.width", cfg.Frame.Meta.Width)
    v.SetDefault("frame.payload.fixed_length", cfg.Frame.Payload.FixedLength)

    // Choose config file
    if path == "" {
        if envPath := os.Getenv("NMARSHAL_CONFIG"); envPath != "" {
            path = envPath
        }
    }

    if path != "" {
        v.SetConfigFile(path)
    } else {
        // Search common locations with base name `marshal`
        v.SetConfigName("marshal")
        v.AddConfigPath(".")
        v.AddConfigPath("./configs")
        if home, err := os.UserHomeDir(); err == nil {
            v.AddConfigPath(filepath.Join(home, ".nmarshal"))
        }
    }

    // Read config file if present; if not found, continue with defaults/env
    if err := v.ReadInConfig(); err != nil {
        var notFound viper.ConfigFileNotFoundError
        if !errors.As(err, &notFound) {
            return nil, fmt.Errorf("read config: %w", err)
        }
    }

    if err := v.Unmarshal(&cfg); err != nil {
        return nil, fmt.Errorf("decode config: %w", err)
    }

    if err := cfg.validate(); err != nil {
        return nil, err
    }
    return cfg, nil
}

func (c *Config) validate() error {
    lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
    switch lvl {
    case "debug", "info", "warn", "warning", "error":
        // ok
    default:
        return fmt.Errorf("invalid log.level: %q", c.Log.Level)
    }

    if c.Log.Format == "" {
        c.Log.Format = "console"
    }
    if len(c.Log.Outputs) == 0 {
        c.Log.Outputs = []string{"stdout"}
    }

    switch strings.ToLower(strings.TrimSpace(c.Frame.ByteOrder)) {
    case "", "little", "le":
        c.Frame.ByteOrder = "little"
    case "big", "be":
        c.Frame.ByteOrder = "big"
    default:
        return fmt.Errorf("invalid frame.byte_order: %q", c.Frame.ByteOrder)
    }

    for _, w := range []struct {
        name  string
        width int
    }{
        {"frame.sync.width", c.Frame.Sync.Width},
        {"frame.length.width", c.Frame.Length.Width},
        {"frame.checksum.width", c.Frame.Checksum.Width},
        {"frame.id.width", c.Frame.ID.Width},
        {"frame.meta.width", c.Frame.Meta.Width},
    } {
        if w.width < 0 || w.width > 8 {
            return fmt.Errorf("%s out of range: %d", w.name, w.width)
        }
    }
    if c.Frame.Payload.FixedLength < 0 {
        return fmt.Errorf("frame.payload.fixed_length negative: %d", c.Frame.Payload.FixedLength)
    }
    return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
    cfg, err := Load(path)
    if err != nil {
        panic(err)
    }
    return cfg
}
