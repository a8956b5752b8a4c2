package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the location of the config file relative to the working directory.
const DefaultPath = "infra/config/hclus.yaml"

var validate = validator.New()

// Config is the configuration of the clustering server and its tools.
type Config struct {
	Server  Server  `yaml:"server"`
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
}

// Server configures the network endpoints.
type Server struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
	// MetricsAddr is the http address for the metrics endpoint, empty disables it.
	MetricsAddr string `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
}

// Storage configures where tables and dendrograms are kept.
type Storage struct {
	TablesPath    string `yaml:"tables_path" validate:"required_unless=InMemory true"`
	InMemory      bool   `yaml:"in_memory"`
	DendrogramDir string `yaml:"dendrogram_dir" validate:"required"`
}

// Log configures the log output.
type Log struct {
	Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:        "127.0.0.1:9090",
			MetricsAddr: "127.0.0.1:9091",
		},
		Storage: Storage{
			TablesPath:    "db/tables",
			DendrogramDir: "file-storage",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ZerologLevel returns the parsed log level, info when unset.
func (l Log) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}

// Parse decodes the yaml content on top of the default configuration.
func Parse(b []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Load loads the configuration from the given file.
// A missing file at the default path falls back to the default configuration.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultPath
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
		log.Warn().Str("path", path).Msg("config not found, using defaults")
		cfg := Default()
		return cfg, cfg.Validate()
	}
	if err != nil {
		return Default(), fmt.Errorf("could not read config '%s': %w", path, err)
	}
	cfg, err := Parse(b)
	if err != nil {
		return cfg, fmt.Errorf("could not load config '%s': %w", path, err)
	}
	log.Info().Str("path", path).Msg("loaded config")
	return cfg, nil
}

// MustLoad loads the configuration from the given file and panics on failure.
func MustLoad(path string) Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("could not load config: %s", err.Error()))
	}
	return cfg
}
