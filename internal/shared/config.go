package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Session store kinds selectable via [SessionsConfig].
const (
	SessionStoreCookie   = "cookie"
	SessionStoreDatabase = "database"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Sessions    SessionsConfig    `toml:"sessions"`
}

// CredentialsConfig contains provider credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify application credentials for the code-grant flow.
type SpotifyConfig struct {
	ClientID     string   `toml:"client_id"`
	ClientSecret string   `toml:"client_secret"`
	RedirectURI  string   `toml:"redirect_uri"`
	Scopes       []string `toml:"scopes"`
}

// Validate checks that the fields required before any provider call can be made
// are present. The process must not start partially configured.
func (s SpotifyConfig) Validate() error {
	if s.ClientID == "" {
		return fmt.Errorf("%w: spotify client_id", ErrMissingCredentials)
	}
	if s.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_secret", ErrMissingCredentials)
	}
	if s.RedirectURI == "" {
		return fmt.Errorf("%w: spotify redirect_uri", ErrMissingCredentials)
	}
	return nil
}

// DatabaseConfig contains database connection settings for the database session store.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	SecureCookies bool   `toml:"secure_cookies"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SessionsConfig selects how credentials are persisted between requests.
//
// "cookie" round-trips the credential through the client; "database" keeps it
// server-side keyed by a session cookie. The two are mutually exclusive
// deployment choices.
type SessionsConfig struct {
	Store string `toml:"store"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
