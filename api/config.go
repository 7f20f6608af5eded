package api

import (
	"errors"
	"time"
)

type CORSConfig struct {
	TrustedOrigins []string `yaml:"trusted_origins"`
}

type Config struct {
	Addr     string     `yaml:"addr"`
	CertFile string     `yaml:"cert_file"`
	KeyFile  string     `yaml:"key_file"`
	CORS     CORSConfig `yaml:"cors"`

	// MaxBodyBytes caps the size of request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// ShutdownTimeout bounds how long in-flight requests may run once the
	// server is asked to stop.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("api server address is required")
	}

	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("cert file and key file must be set together")
	}

	if c.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}

	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	return nil
}
