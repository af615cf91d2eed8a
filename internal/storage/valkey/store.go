// Package valkey stores planner records in a Valkey (or Redis) server.
package valkey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/julianstephens/weekwise/internal/constants"
	"github.com/julianstephens/weekwise/internal/storage"
)

const pingTimeout = 2 * time.Second

type Store struct {
	addr   string
	prefix string
	client valkey.Client
}

// New returns a store for addr, which is either host:port or a
// valkey://, redis:// or rediss:// URL. Keys are namespaced under prefix.
func New(addr, prefix string) *Store {
	if prefix == "" {
		prefix = constants.AppName
	}
	return &Store{addr: addr, prefix: prefix}
}

// NewWithClient wraps an already connected client.
func NewWithClient(client valkey.Client, prefix string) *Store {
	s := New("", prefix)
	s.client = client
	return s
}

// ClientOptions translates addr into valkey client options.
func ClientOptions(addr string) (valkey.ClientOption, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return valkey.ClientOption{}, errors.New("valkey address cannot be empty")
	}
	if rest, ok := strings.CutPrefix(addr, "valkey://"); ok {
		addr = "redis://" + rest
	}
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func (s *Store) Init(ctx context.Context) error {
	if s.client == nil {
		opt, err := ClientOptions(s.addr)
		if err != nil {
			return fmt.Errorf("invalid valkey configuration: %w", err)
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			return fmt.Errorf("failed to create valkey client: %w", err)
		}
		s.client = client
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.client.Do(pingCtx, s.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("valkey ping failed: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, errNotOpen
	}
	value, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if s.client == nil {
		return errNotOpen
	}
	cmd := s.client.B().Set().Key(s.key(key)).Value(valkey.BinaryString(value)).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.client == nil {
		return errNotOpen
	}
	if err := s.client.Do(ctx, s.client.B().Del().Key(s.key(key)).Build()).Error(); err != nil {
		return fmt.Errorf("failed to remove record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	return nil
}

func (s *Store) Location() string {
	if s.addr == "" {
		return "valkey"
	}
	opt, err := ClientOptions(s.addr)
	if err != nil || len(opt.InitAddress) == 0 {
		return "valkey"
	}
	return "valkey://" + strings.Join(opt.InitAddress, ",") + "/" + s.prefix
}

func (s *Store) key(key string) string {
	return s.prefix + ":" + key
}

var errNotOpen = errors.New("valkey store is not initialized")

var _ storage.Backend = (*Store)(nil)
