package config

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"strings"
)

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// DSN returns the lib/pq connection string
func (c *PostgresConfig) DSN() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	if c.Database == "" {
		return "", fmt.Errorf("postgres.database not set; set it or postgres.url")
	}

	host := c.Host
	if host == "" {
		host = "localhost"
	}
	port := c.Port
	if port == 0 {
		port = 5432
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	parts := []string{
		"host=" + quoteDSNValue(host),
		fmt.Sprintf("port=%d", port),
	}
	if c.User != "" {
		parts = append(parts, "user="+quoteDSNValue(c.User))
	}
	if c.Password != "" {
		parts = append(parts, "password="+quoteDSNValue(c.Password))
	}
	parts = append(parts, "dbname="+quoteDSNValue(c.Database), "sslmode="+sslmode)
	return strings.Join(parts, " "), nil
}

// Redacted returns the DSN with the password masked, for logging
func (c *PostgresConfig) Redacted() string {
	if c.URL != "" {
		u, err := url.Parse(c.URL)
		if err != nil {
			return "postgres://***"
		}
		return u.Redacted()
	}
	redacted := *c
	if redacted.Password != "" {
		redacted.Password = "xxxxx"
	}
	dsn, err := redacted.DSN()
	if err != nil {
		return ""
	}
	return dsn
}

// quoteDSNValue quotes values holding spaces or quotes as lib/pq expects
func quoteDSNValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}

// Source returns a seeded random source, or nil when Seed is 0
func (c *GeneratorConfig) Source() rand.Source {
	if c.Seed == 0 {
		return nil
	}
	return rand.NewPCG(c.Seed, c.Seed)
}
