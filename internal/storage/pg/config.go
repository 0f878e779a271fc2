package pg

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
)

const (
	DefaultHost     = "localhost"
	DefaultPort     = "54326"
	DefaultDatabase = "procurement_integration"
	DefaultUser     = "usr_teleport_writer"
	DefaultSSLMode  = "prefer"
)

// ConnParams are the discrete connection settings, each overridable from the environment.
type ConnParams struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	SSLMode  string
}

// LoadEnv reads DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD and DB_SSLMODE,
// falling back to the documented defaults for anything unset.
func LoadEnv() (*ConnParams, error) {
	p := &ConnParams{
		Host:     getenv("DB_HOST", DefaultHost),
		Port:     getenv("DB_PORT", DefaultPort),
		Database: getenv("DB_NAME", DefaultDatabase),
		User:     getenv("DB_USER", DefaultUser),
		Password: os.Getenv("DB_PASSWORD"),
		SSLMode:  getenv("DB_SSLMODE", DefaultSSLMode),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *ConnParams) Validate() error {
	if p.Host == "" {
		return fmt.Errorf("database host is empty")
	}
	if p.Database == "" {
		return fmt.Errorf("database name is empty")
	}
	port, err := strconv.Atoi(p.Port)
	if err != nil {
		return fmt.Errorf("invalid database port %q: %w", p.Port, err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("database port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ConnString renders the params as a postgres URL with every component escaped.
func (p *ConnParams) ConnString() string {
	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + p.Database,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else if p.User != "" {
		u.User = url.User(p.User)
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{p.SSLMode}}.Encode()
	}
	return u.String()
}

// Redacted is ConnString without the password, safe for logs.
func (p *ConnParams) Redacted() string {
	c := *p
	if c.Password != "" {
		c.Password = "xxxxx"
	}
	return c.ConnString()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
