package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/thisisjab/arrowjq/api"
	"github.com/thisisjab/arrowjq/engine"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Logger LoggerConfig  `yaml:"logger"`
	Batch  engine.Config `yaml:"batch"`
	Server api.Config    `yaml:"server"`
}

type LoggerConfig struct {
	Level  string `yaml:"level"`
	Type   string `yaml:"type"`
	Output string `yaml:"output"`
}

// Default returns a configuration that works without a config file.
func Default() Config {
	return Config{
		Logger: LoggerConfig{
			Level:  "info",
			Type:   "auto",
			Output: "stderr",
		},
		Batch: engine.Config{
			WorkersCount: 4,
			BufferSize:   64,
		},
		Server: api.Config{
			Addr:            "localhost:8000",
			MaxBodyBytes:    1_048_576,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load reads a YAML file on top of Default and validates the result. Keys
// missing from the file keep their default values.
func Load(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config file content: %w", err)
	}

	return Parse(content)
}

func Parse(content []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("cannot parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) Validate() error {
	if err := cfg.Logger.Validate(); err != nil {
		return fmt.Errorf("invalid logger config: %w", err)
	}

	if err := cfg.Batch.Validate(); err != nil {
		return fmt.Errorf("invalid batch config: %w", err)
	}

	if err := cfg.Server.Validate(); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	return nil
}

func (cfg LoggerConfig) Validate() error {
	if _, err := parseLevel(cfg.Level); err != nil {
		return err
	}

	switch cfg.Type {
	case "json", "text", "colored-text", "auto":
	default:
		return fmt.Errorf("invalid log type: %s", cfg.Type)
	}

	switch cfg.Output {
	case "stderr", "stdout":
	default:
		return fmt.Errorf("invalid log output: %s", cfg.Output)
	}

	return nil
}

// NewLogger builds the logger described by cfg.Logger.
func (cfg Config) NewLogger() (*slog.Logger, error) {
	w := os.Stderr
	if cfg.Logger.Output == "stdout" {
		w = os.Stdout
	}

	handler, err := cfg.Logger.Handler(w)
	if err != nil {
		return nil, err
	}

	return slog.New(handler), nil
}

// Handler builds a slog handler that writes to w. The "auto" type picks
// colored text when w is a terminal and plain text otherwise.
func (cfg LoggerConfig) Handler(w io.Writer) (slog.Handler, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	typ := cfg.Type
	if typ == "auto" {
		typ = "text"
		if isTerminal(w) {
			typ = "colored-text"
		}
	}

	switch typ {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), nil
	case "text":
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), nil
	case "colored-text":
		return tint.NewHandler(w, &tint.Options{Level: level, TimeFormat: time.Kitchen}), nil
	default:
		return nil, fmt.Errorf("invalid log type: %s", cfg.Type)
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", s)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
