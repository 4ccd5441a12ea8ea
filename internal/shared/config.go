package shared

import (
	_ "embed"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-sql-driver/mysql"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Client   ClientConfig   `toml:"client"`
}

// DatabaseConfig contains database connection and pool settings.
//
// Driver selects the [Dialect]. DSN, when set, is used verbatim and the
// host/credential fields are ignored. Path is only read by the sqlite3 driver.
type DatabaseConfig struct {
	Driver                string `toml:"driver"`
	DSN                   string `toml:"dsn"`
	Path                  string `toml:"path"`
	Host                  string `toml:"host"`
	Port                  int    `toml:"port"`
	User                  string `toml:"user"`
	Password              string `toml:"password"`
	Name                  string `toml:"name"`
	PoolSize              int    `toml:"pool_size"`
	AcquireTimeoutSeconds int    `toml:"acquire_timeout_seconds"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	StaticDir string  `toml:"static_dir"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
}

// ClientConfig contains settings for the CLI and terminal clients.
type ClientConfig struct {
	BaseURL string `toml:"base_url"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
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

// Validate reports whether the configuration can be used to start the service.
func (c *Config) Validate() error {
	if _, err := DialectFor(c.Database.Driver); err != nil {
		return err
	}
	if c.Database.PoolSize < 1 {
		return fmt.Errorf("%w: database.pool_size must be at least 1, got %d", ErrInvalidConfig, c.Database.PoolSize)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range: %d", ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("%w: server.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// AcquireTimeout returns the pool acquisition timeout. Zero means wait until the caller gives up.
func (d DatabaseConfig) AcquireTimeout() time.Duration {
	return time.Duration(d.AcquireTimeoutSeconds) * time.Second
}

// DataSource builds the driver-specific connection string.
func (d DatabaseConfig) DataSource() (string, error) {
	if d.DSN != "" {
		return d.DSN, nil
	}

	switch d.Driver {
	case DriverSQLite:
		path := d.Path
		if path == "" {
			path = "./todo.db"
		}
		return path + "?_busy_timeout=5000&_foreign_keys=on", nil
	case DriverMySQL:
		cfg := mysql.NewConfig()
		cfg.User = d.User
		cfg.Passwd = d.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
		cfg.DBName = d.Name
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case DriverPostgres:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, d.Driver)
	}
}
