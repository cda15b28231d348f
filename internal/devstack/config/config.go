// Package config handles configuration for the devstack backend,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	BlobMemory = "memory"
	BlobS3     = "s3"
)

// Config holds runtime settings for the devstack backend.
//
// Fields:
//   - ListenAddr: bind address of the single HTTP listener.
//   - PublicBaseURL: how clients reach the listener; used in upload grants
//     and object URLs.
//   - SecretKey: HMAC secret for signing tokens (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: lifetime of session tokens.
//   - GrantValidityDuration: lifetime of upload grants and object access URLs.
//   - BlobStore: "memory" or "s3".
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: object storage settings.
type Config struct {
	ListenAddr                  string
	PublicBaseURL               string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	GrantValidityDuration       time.Duration
	BlobStore                   string
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure and should be overridden outside a laptop.
func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:8080"
	c.PublicBaseURL = "http://127.0.0.1:8080"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.GrantValidityDuration = 15 * time.Minute
	c.BlobStore = BlobMemory
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "reportcycle"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// Validate rejects settings the backend cannot start with.
func (c *Config) Validate() error {
	switch c.BlobStore {
	case BlobMemory, BlobS3:
	default:
		return fmt.Errorf("unknown blob store %q", c.BlobStore)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	if c.AccessTokenValidityDuration <= 0 || c.GrantValidityDuration <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	if !strings.HasPrefix(c.PublicBaseURL, "http://") && !strings.HasPrefix(c.PublicBaseURL, "https://") {
		return fmt.Errorf("public base url %q must be absolute", c.PublicBaseURL)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return cfg
}
