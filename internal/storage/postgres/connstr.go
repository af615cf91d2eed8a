package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	pq "github.com/lib/pq"
)

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// IsConnString reports whether s looks like a PostgreSQL URL.
func IsConnString(s string) bool {
	return strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://")
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN that
// pq accepts and that it carries no password. Passwords belong in the
// keyring, .pgpass or PGPASSWORD.
func ValidateConnString(connStr string) error {
	if strings.TrimSpace(connStr) == "" {
		return fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}

	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, set := u.User.Password(); set {
			return ErrEmbeddedCredentials
		}
		if u.Host == "" && u.User == nil && (u.Path == "" || u.Path == "/") {
			return fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
		return nil
	}

	if dsnHasKey(connStr, "password") {
		return ErrEmbeddedCredentials
	}
	return nil
}

// withSearchPath pins search_path to schema unless the caller already set one.
func withSearchPath(connStr, schema string) string {
	if IsConnString(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return connStr
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", schema)
			u.RawQuery = q.Encode()
		}
		return u.String()
	}
	if dsnHasKey(connStr, "search_path") {
		return connStr
	}
	return strings.TrimSpace(connStr) + " search_path=" + schema
}

// hasSSLMode reports whether connStr sets sslmode in either URL or DSN form.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return dsnHasKey(connStr, "sslmode")
}

func dsnHasKey(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		k, _, ok := strings.Cut(part, "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), key) {
			return true
		}
	}
	return false
}

// redact strips user info so a connection string can be logged.
func redact(connStr string) string {
	if IsConnString(connStr) {
		if u, err := url.Parse(connStr); err == nil {
			u.User = nil
			u.RawQuery = ""
			return u.String()
		}
	}
	return "postgresql"
}
