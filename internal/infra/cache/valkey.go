// Package cache provides a Valkey-backed string cache.
package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Config holds the Valkey connection settings.
type Config struct {
	Address  string
	Password string
	DB       int
	TLS      bool
}

// Valkey is a thin key/value cache over a Valkey (or Redis) server.
type Valkey struct {
	client valkey.Client
}

// NewValkey connects and pings the server.
func NewValkey(ctx context.Context, cfg Config) (*Valkey, error) {
	opts := valkey.ClientOption{
		InitAddress:      []string{cfg.Address},
		Password:         cfg.Password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("create valkey client: %w", err)
	}

	v := &Valkey{client: client}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := v.Ping(pingCtx); err != nil {
		client.Close()
		return nil, err
	}

	slog.Info("connected to valkey", slog.String("address", cfg.Address))
	return v, nil
}

// Get returns the cached value and whether it was present.
func (v *Valkey) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("valkey get: %w", err)
	}
	return s, true, nil
}

// Set stores value under key for ttl. A ttl under one second stores without expiry.
func (v *Valkey) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var cmd valkey.Completed
	if secs := int64(ttl / time.Second); secs > 0 {
		cmd = v.client.B().Set().Key(key).Value(value).ExSeconds(secs).Build()
	} else {
		cmd = v.client.B().Set().Key(key).Value(value).Build()
	}
	if err := v.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("valkey set: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (v *Valkey) Ping(ctx context.Context) error {
	if err := v.client.Do(ctx, v.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey ping: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (v *Valkey) Close() {
	v.client.Close()
}
