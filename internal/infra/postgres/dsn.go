package postgres

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"

	"foodgram-pages/internal/config"
)

const defaultPort = 5432

// DSN turns the auth.postgres settings into a connection URL for pgx.
// A host given as a postgres:// URL wins over the other fields.
func DSN(cfg config.PostgresConfig) (string, error) {
	if isConnURL(cfg.Host) {
		return cfg.Host, nil
	}
	switch {
	case cfg.Host == "":
		return "", errors.New("postgres host is empty")
	case cfg.Database == "":
		return "", errors.New("postgres database is empty")
	case cfg.User == "":
		return "", errors.New("postgres user is empty")
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.User(cfg.User),
		Host:   withPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	if cfg.Password != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	if cfg.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
	}
	return u.String(), nil
}

func isConnURL(host string) bool {
	return strings.HasPrefix(host, "postgres://") || strings.HasPrefix(host, "postgresql://")
}

// withPort keeps an explicit port and brackets bare IPv6 addresses.
func withPort(host string, port int) string {
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(strings.Trim(host, "[]"), strconv.Itoa(port))
}
