package objectstore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/julianstephens/weekwise/internal/storage"
)

func TestParseURL(t *testing.T) {
	cfg, err := ParseURL("s3://planner/weekwise/")
	require.NoError(t, err)
	require.Equal(t, "planner", cfg.Bucket)
	require.Equal(t, "weekwise", cfg.Prefix)

	_, err = ParseURL("s3:///nobucket")
	require.Error(t, err)
	_, err = ParseURL("file:///tmp")
	require.Error(t, err)
}

func TestObjectName(t *testing.T) {
	require.Equal(t, "WEEKWISE_SLOTS_V2.json", New(Config{Bucket: "b"}).objectName("WEEKWISE_SLOTS_V2"))
	require.Equal(t, "team/k.json", New(Config{Bucket: "b", Prefix: "/team/"}).objectName("k"))
	require.Equal(t, "s3://b/team", New(Config{Bucket: "b", Prefix: "team"}).Location())
}

func TestSanitizeEndpoint(t *testing.T) {
	tests := [][2]string{
		{"https://acct.r2.cloudflarestorage.com", "acct.r2.cloudflarestorage.com"},
		{"http://localhost:9000/", "localhost:9000"},
		{" localhost:9000 ", "localhost:9000"},
		{"https://minio.local:9000/some/path?x=1", "minio.local:9000"},
	}
	for _, tt := range tests {
		in, want := tt[0], tt[1]
		require.Equal(t, want, sanitizeEndpoint(in), in)
	}
}

func TestInitRequiresBucket(t *testing.T) {
	require.Error(t, New(Config{}).Init(context.Background()))
}

// Set WEEKWISE_S3_TEST_ENDPOINT, WEEKWISE_S3_TEST_BUCKET and the
// WEEKWISE_S3_TEST_ACCESS_KEY/SECRET_KEY pair (e.g. a local MinIO) to run.
func TestStoreIntegration(t *testing.T) {
	endpoint := os.Getenv("WEEKWISE_S3_TEST_ENDPOINT")
	bucket := os.Getenv("WEEKWISE_S3_TEST_BUCKET")
	if endpoint == "" || bucket == "" {
		t.Skip("WEEKWISE_S3_TEST_ENDPOINT/BUCKET not set, skipping object store integration test")
	}

	ctx := context.Background()
	s := New(Config{
		Endpoint:  endpoint,
		Bucket:    bucket,
		Prefix:    "weekwise-test",
		AccessKey: os.Getenv("WEEKWISE_S3_TEST_ACCESS_KEY"),
		SecretKey: os.Getenv("WEEKWISE_S3_TEST_SECRET_KEY"),
	})
	require.NoError(t, s.Init(ctx))
	defer s.Close()

	require.NoError(t, s.Remove(ctx, "k"))
	_, err := s.Read(ctx, "k")
	require.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Write(ctx, "k", []byte(`{}`)))
	got, err := s.Read(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "{}", string(got))
	require.NoError(t, s.Remove(ctx, "k"))
}
