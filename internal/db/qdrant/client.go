package qdrant

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/kailas-cloud/securephotos/internal/db"
)

// DefaultGRPCPort is the Qdrant gRPC port used when the URL has none.
const DefaultGRPCPort = 6334

var _ db.Pinger = (*Store)(nil)

// api is the subset of *qdrant.Client the store uses.
type api interface {
	HealthCheck(ctx context.Context) (*qdrant.HealthCheckReply, error)
	Scroll(ctx context.Context, req *qdrant.ScrollPoints) ([]*qdrant.RetrievedPoint, error)
	Query(ctx context.Context, req *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
	CollectionExists(ctx context.Context, name string) (bool, error)
	CreateCollection(ctx context.Context, req *qdrant.CreateCollection) error
	DeleteCollection(ctx context.Context, name string) error
	CreateFieldIndex(ctx context.Context, req *qdrant.CreateFieldIndexCollection) (*qdrant.UpdateResult, error)
	DeleteFieldIndex(ctx context.Context, req *qdrant.DeleteFieldIndexCollection) (*qdrant.UpdateResult, error)
	Close() error
}

// Config holds connection parameters for a Qdrant store.
type Config struct {
	URL    string // http(s)://host[:port], gRPC port
	APIKey string
}

// Store wraps the official Qdrant gRPC client.
type Store struct {
	api api
}

// NewStore creates a Qdrant store. The connection is lazy; use Ping or WaitForReady to verify it.
func NewStore(cfg Config) (*Store, error) {
	host, port, tls, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   host,
		Port:                   port,
		APIKey:                 cfg.APIKey,
		UseTLS:                 tls,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &Store{api: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.api.HealthCheck(ctx); err != nil {
		return &db.Error{Op: db.OpHealthCheck, Err: err}
	}
	return nil
}

// Close shuts down the gRPC connection.
func (s *Store) Close() {
	_ = s.api.Close()
}

// WaitForReady polls Ping until Qdrant responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for qdrant: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// parseURL splits a Qdrant URL into gRPC host, port and TLS flag.
// A bare "host:port" is accepted as well.
func parseURL(raw string) (string, int, bool, error) {
	if raw == "" {
		return "", 0, false, fmt.Errorf("qdrant url is required")
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		// host:port without scheme
		u, err = url.Parse("http://" + raw)
		if err != nil || u.Host == "" {
			return "", 0, false, fmt.Errorf("invalid qdrant url %q", raw)
		}
	}

	switch u.Scheme {
	case "http", "https", "grpc", "grpcs":
	default:
		return "", 0, false, fmt.Errorf("unsupported qdrant url scheme %q", u.Scheme)
	}
	tls := u.Scheme == "https" || u.Scheme == "grpcs"

	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		return u.Host, DefaultGRPCPort, tls, nil //nolint:nilerr // no port in URL
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, false, fmt.Errorf("invalid qdrant port %q", portStr)
	}
	return host, port, tls, nil
}
