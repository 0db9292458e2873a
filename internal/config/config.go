// Package config loads layered configuration for the storefront and the
// mirror server: struct defaults, then an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "SALESMATRIX_CONFIG"

// defaultConfigPaths lists the config file locations searched in order.
var defaultConfigPaths = []string{
	"salesmatrix.yaml",
	"salesmatrix.yml",
	"/etc/salesmatrix/config.yaml",
}

// Config is the full configuration tree shared by both binaries. A binary
// reads only its own subtree.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Client ClientConfig `koanf:"client"`
}

// ServerConfig configures the mirror server.
type ServerConfig struct {
	Addr      string        `koanf:"addr"`
	DSN       string        `koanf:"dsn"`
	JWTKey    string        `koanf:"jwt_key"`
	AccessTTL time.Duration `koanf:"access_ttl"`
	AI        AIConfig      `koanf:"ai"`
}

// AIConfig configures the upstream chat-completion provider. Empty URL or
// key leaves the assistant endpoint unconfigured.
type AIConfig struct {
	URL   string `koanf:"url"`
	Key   string `koanf:"key"`
	Model string `koanf:"model"`
}

// ClientConfig configures the storefront CLI.
type ClientConfig struct {
	DataDir   string `koanf:"data_dir"`
	RemoteURL string `koanf:"remote_url"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:      ":8080",
			DSN:       "",
			JWTKey:    "",
			AccessTTL: 24 * time.Hour,
			AI: AIConfig{
				URL:   "",
				Key:   "",
				Model: "gpt-4o-mini",
			},
		},
		Client: ClientConfig{
			DataDir:   "",
			RemoteURL: "",
		},
	}
}

// Load builds the configuration from defaults, then an optional YAML file,
// then SALESMATRIX_* environment variables. ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// SALESMATRIX_SERVER_JWT__KEY -> server.jwt_key
	envProvider := env.Provider("SALESMATRIX_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "SALESMATRIX_")
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", "~")
		s = strings.ReplaceAll(s, "_", ".")
		return strings.ReplaceAll(s, "~", "_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
