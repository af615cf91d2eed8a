// Package objectstore keeps planner records as objects in an S3-compatible
// bucket (AWS S3, Cloudflare R2, MinIO).
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/julianstephens/weekwise/internal/storage"
)

const contentType = "application/json"

// Config describes the bucket and credentials. An empty AccessKey falls
// back to the AWS environment/credential chain.
type Config struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
}

type Store struct {
	cfg    Config
	client *minio.Client
}

func New(cfg Config) *Store {
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")
	return &Store{cfg: cfg}
}

// ParseURL reads "s3://bucket/prefix" into a Config.
func ParseURL(raw string) (Config, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Config{}, fmt.Errorf("invalid object store url: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return Config{}, fmt.Errorf("invalid object store url %q: expected s3://bucket[/prefix]", raw)
	}
	return Config{Bucket: u.Host, Prefix: strings.Trim(u.Path, "/")}, nil
}

func (s *Store) Init(ctx context.Context) error {
	if s.cfg.Bucket == "" {
		return errors.New("object store bucket is required")
	}
	if s.client == nil {
		client, err := newClient(s.cfg)
		if err != nil {
			return err
		}
		s.client = client
	}
	return s.ensureBucket(ctx)
}

func newClient(cfg Config) (*minio.Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://s3.amazonaws.com"
	}
	creds := credentials.NewEnvAWS()
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	client, err := minio.New(sanitizeEndpoint(endpoint), &minio.Options{
		Creds:        creds,
		Secure:       !strings.HasPrefix(strings.ToLower(endpoint), "http://"),
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}
	return client, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err == nil && exists {
		return nil
	}
	err = s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return fmt.Errorf("failed to ensure bucket %s: %w", s.cfg.Bucket, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if s.client == nil {
		return nil, errNotOpen
	}
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.readError(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.readError(key, err)
	}
	return data, nil
}

func (s *Store) readError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return storage.ErrNotFound
	}
	return fmt.Errorf("failed to read record %s: %w", key, err)
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	if s.client == nil {
		return errNotOpen
	}
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, s.objectName(key), bytes.NewReader(value), int64(len(value)), minio.PutObjectOptions{
		ContentType:      contentType,
		DisableMultipart: true,
	})
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, key string) error {
	if s.client == nil {
		return errNotOpen
	}
	if err := s.client.RemoveObject(ctx, s.cfg.Bucket, s.objectName(key), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove record %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	s.client = nil
	return nil
}

func (s *Store) Location() string {
	return "s3://" + path.Join(s.cfg.Bucket, s.cfg.Prefix)
}

func (s *Store) objectName(key string) string {
	name := key + ".json"
	if s.cfg.Prefix == "" {
		return name
	}
	return s.cfg.Prefix + "/" + name
}

// sanitizeEndpoint strips scheme and path, which minio.New does not accept.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	host, _, _ := strings.Cut(raw, "/")
	return host
}

var errNotOpen = errors.New("object store is not initialized")

var _ storage.Backend = (*Store)(nil)
