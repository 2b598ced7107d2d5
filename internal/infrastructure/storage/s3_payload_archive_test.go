package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/erp/checkout/internal/infrastructure/config"
)

func TestArchiveKey(t *testing.T) {
	at := time.Date(2025, 3, 9, 23, 30, 0, 42, time.FixedZone("IST", -5*3600))

	assert.Equal(t, "webhooks/2025/03/10/ord-1/1741581000000000042.json", ArchiveKey("/webhooks/", "ord-1", at))
	assert.Equal(t, "2025/03/10/uncorrelated/1741581000000000042.json", ArchiveKey("", "  ", at))
	assert.Equal(t, "2025/03/10/a_b/1741581000000000042.json", ArchiveKey("", "a/b", at))
}

func TestNewS3PayloadArchive_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3PayloadArchive(nil)
		assert.ErrorContains(t, err, "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3PayloadArchive(&config.ArchiveConfig{})
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("half a key pair", func(t *testing.T) {
		_, err := NewS3PayloadArchive(&config.ArchiveConfig{Bucket: "b", AccessKey: "ak"})
		assert.ErrorContains(t, err, "must be set together")
	})

	t.Run("valid", func(t *testing.T) {
		a, err := NewS3PayloadArchive(&config.ArchiveConfig{Bucket: "b", Prefix: "/raw/"})
		require.NoError(t, err)
		assert.Equal(t, "b", a.Bucket())
		assert.Equal(t, "raw", a.prefix)
	})
}

type s3Stub struct {
	mu     sync.Mutex
	status int
	paths  []string
	bodies []string
}

func (s *s3Stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, _ := io.ReadAll(r.Body)
	s.paths = append(s.paths, r.Method+" "+r.URL.Path)
	s.bodies = append(s.bodies, string(body))
	w.WriteHeader(s.status)
}

func newStubArchive(t *testing.T, status int) (*S3PayloadArchive, *s3Stub) {
	t.Helper()
	stub := &s3Stub{status: status}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	a, err := NewS3PayloadArchive(&config.ArchiveConfig{
		Bucket:         "payloads",
		Prefix:         "webhooks",
		Endpoint:       srv.URL,
		AccessKey:      "ak",
		SecretKey:      "sk",
		ForcePathStyle: true,
	}, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return a, stub
}

func TestS3PayloadArchive_Store(t *testing.T) {
	a, stub := newStubArchive(t, http.StatusOK)
	at := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

	require.NoError(t, a.Store(context.Background(), "ord-1", at, []byte(`{"status":"paid"}`)))

	stub.mu.Lock()
	defer stub.mu.Unlock()
	require.Len(t, stub.paths, 1)
	assert.Equal(t, "PUT /payloads/webhooks/2025/03/10/ord-1/1741599000000000000.json", stub.paths[0])
	assert.Equal(t, `{"status":"paid"}`, stub.bodies[0])
}

func TestS3PayloadArchive_StoreFailure(t *testing.T) {
	a, _ := newStubArchive(t, http.StatusForbidden)
	err := a.Store(context.Background(), "", time.Now(), []byte(`{}`))
	assert.ErrorContains(t, err, "uncorrelated")
}
