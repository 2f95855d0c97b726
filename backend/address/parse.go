// Package address creates backends from address strings such as
// "local:///srv/modules" or "s3://localhost:9000/bucket/prefix".
package address

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwantia/modtree/backend"
	"github.com/mwantia/modtree/backend/archive"
	"github.com/mwantia/modtree/backend/billy"
	"github.com/mwantia/modtree/backend/consul"
	"github.com/mwantia/modtree/backend/local"
	"github.com/mwantia/modtree/backend/memory"
	"github.com/mwantia/modtree/backend/postgres"
	"github.com/mwantia/modtree/backend/s3"
	"github.com/mwantia/modtree/backend/sqlite"
)

// Parse returns the unopened backend described by address.
func Parse(address string) (backend.Backend, error) {
	// Format address
	address = strings.TrimSpace(address)
	// Quick check to identify if we work with a possibly valid address
	if !strings.Contains(address, ":") {
		return nil, fmt.Errorf("failed to parse address '%s': %w", address, backend.ErrMalformedAddress)
	}
	// Special 'no address' declarations
	switch address {
	case "memory:", ":memory:", "memory://":
		return memory.NewMemoryBackend(), nil
	}
	// Protocol-based parsing
	switch {
	// local://<directory>
	case strings.HasPrefix(address, "local://"):
		return parseLocalAddress(strings.TrimPrefix(address, "local://"))
	case strings.HasPrefix(address, "file://"):
		return parseLocalAddress(strings.TrimPrefix(address, "file://"))
		// billy://<directory>
	case strings.HasPrefix(address, "billy://"):
		return parseBillyAddress(strings.TrimPrefix(address, "billy://"))
		// zip://<file>
	case strings.HasPrefix(address, "zip://"):
		return parseArchiveAddress(strings.TrimPrefix(address, "zip://"))
		// sqlite://<file|:memory:>
	case strings.HasPrefix(address, "sqlite://"):
		return parseSqliteAddress(strings.TrimPrefix(address, "sqlite://"))
		// postgres://<user>:<password>@<address>:<port>/<database>?<params>
	case strings.HasPrefix(address, "postgres://"), strings.HasPrefix(address, "postgresql://"):
		return parsePostgresAddress(address)
		// consul://<address>:<port>/<prefix>?<token>&<datacenter>&<namespace>
	case strings.HasPrefix(address, "consul://"):
		return parseConsulAddress(address)
		// s3://<address>:<port>/<bucket>/<prefix>?<access_key>&<secret_key>&<ssl>
	case strings.HasPrefix(address, "s3://"), strings.HasPrefix(address, "minio://"):
		return parseS3Address(address)
	}

	return nil, fmt.Errorf("failed to parse address '%s': %w", address, backend.ErrUnknownProtocol)
}

func parseLocalAddress(path string) (backend.Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: missing directory", backend.ErrMalformedAddress)
	}
	return local.NewLocalBackend(path)
}

func parseBillyAddress(path string) (backend.Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: missing directory", backend.ErrMalformedAddress)
	}
	return billy.NewDirectoryBackend(path), nil
}

func parseArchiveAddress(path string) (backend.Backend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: missing archive file", backend.ErrMalformedAddress)
	}
	return archive.NewArchiveBackend(path)
}

func parseSqliteAddress(dsn string) (backend.Backend, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: missing database file", backend.ErrMalformedAddress)
	}
	return sqlite.NewSQLiteBackend(dsn)
}

func parsePostgresAddress(address string) (backend.Backend, error) {
	return postgres.NewPostgresBackend(address)
}

func parseConsulAddress(address string) (backend.Backend, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrMalformedAddress, err)
	}

	query := u.Query()
	return consul.NewConsulBackend(&consul.ConsulBackendConfig{
		Address:    u.Host,
		Prefix:     u.Path,
		Token:      query.Get("token"),
		Datacenter: query.Get("datacenter"),
		Namespace:  query.Get("namespace"),
	})
}

func parseS3Address(address string) (backend.Backend, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrMalformedAddress, err)
	}

	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if u.Host == "" || bucket == "" {
		return nil, fmt.Errorf("%w: s3 address requires endpoint and bucket", backend.ErrMalformedAddress)
	}

	query := u.Query()
	useSsl := false
	if raw := query.Get("ssl"); raw != "" {
		useSsl, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid ssl flag '%s'", backend.ErrMalformedAddress, raw)
		}
	}

	return s3.NewS3Backend(u.Host, bucket, prefix, query.Get("access_key"), query.Get("secret_key"), useSsl)
}
