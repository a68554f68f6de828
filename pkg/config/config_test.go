package config

import (
    "os"
    "path/filepath"
    "testing"
)

func writeConfig(t *testing.T, body string) string {
    t.Helper()
    path := filepath.Join(t.TempDir(), "marshal.yaml")
    if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
        t.Fatalf("write config: %v", err)
    }
    return path
}

func TestLoadDefaults(t *testing.T) {
    cfg, err := Load(writeConfig(t, "app_name: test\n"))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.AppName != "test" {
        t.Fatalf("app_name: %q", cfg.AppName)
    }
    // unset sections keep the defaults
    if cfg.Frame.Sync.Width != 2 || cfg.Frame.Sync.Marker != 0xb9cd {
        t.Fatalf("sync defaults: %+v", cfg.Frame.Sync)
    }
    if cfg.Frame.Checksum.Algorithm != "crc32c" {
        t.Fatalf("checksum default: %q", cfg.Frame.Checksum.Algorithm)
    }
    if cfg.Log.Level != "info" {
        t.Fatalf("log level default: %q", cfg.Log.Level)
    }
}

func TestLoadOverrides(t *testing.T) {
    cfg, err := Load(writeConfig(t, `
log:
  level: debug
  format: json
frame:
  byte_order: BE
  sync:
    width: 0
  checksum:
    width: 4
    algorithm: xxhash
    verify_before_read: true
  meta:
    width: 2
`))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
        t.Fatalf("log: %+v", cfg.Log)
    }
    if cfg.Frame.ByteOrder != "big" {
        t.Fatalf("byte order not normalized: %q", cfg.Frame.ByteOrder)
    }
    if cfg.Frame.Sync.Width != 0 {
        t.Fatalf("sync width: %d", cfg.Frame.Sync.Width)
    }
    if cfg.Frame.Checksum.Width != 4 || !cfg.Frame.Checksum.VerifyBeforeRead {
        t.Fatalf("checksum: %+v", cfg.Frame.Checksum)
    }
    if cfg.Frame.Meta.Width != 2 {
        t.Fatalf("meta width: %d", cfg.Frame.Meta.Width)
    }
}

func TestLoadEnvOverride(t *testing.T) {
    t.Setenv("NMARSHAL_LOG_LEVEL", "error")
    cfg, err := Load(writeConfig(t, "app_name: env-test\n"))
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if cfg.Log.Level != "error" {
        t.Fatalf("env override ignored: %q", cfg.Log.Level)
    }
}

func TestLoadValidation(t *testing.T) {
    cases := []struct {
        name string
        body string
    }{
        {"bad log level", "log:\n  level: loud\n"},
        {"bad byte order", "frame:\n  byte_order: middle\n"},
        {"width too large", "frame:\n  length:\n    width: 9\n"},
        {"negative fixed length", "frame:\n  payload:\n    fixed_length: -1\n"},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if _, err := Load(writeConfig(t, tc.body)); err == nil {
                t.Fatalf("invalid config accepted")
            }
        })
    }
}

func TestLoadExplicitMissingFile(t *testing.T) {
    if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
        t.Fatalf("explicit missing path accepted")
    }
}
