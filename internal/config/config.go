// Package config handles runtime configuration, including defaults, JSON
// overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the account keeper.
//
// Fields:
//   - DatabaseDSN: PostgreSQL DSN (pgx). Takes precedence over SQLitePath.
//   - SQLitePath: path to a SQLite database file. With neither DatabaseDSN
//     nor SQLitePath set, state is kept in memory and lost on exit.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use
//     test defaults in prod.
//   - SessionValidityDuration: how long an issued session stays valid.
//   - SessionSweepInterval: how often expired sessions are purged.
//   - MaxLoginAttempts: consecutive failed logins before an account locks.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: report storage settings.
type Config struct {
	DatabaseDSN             string
	SQLitePath              string
	SecretKey               string
	SessionValidityDuration time.Duration
	SessionSweepInterval    time.Duration
	MaxLoginAttempts        int
	S3RootUser              string
	S3RootPassword          string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 30 * time.Minute
	c.SessionSweepInterval = 1 * time.Minute
	c.MaxLoginAttempts = 5
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "reports"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
