package receipt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/imamik/statehub/api/v1"
)

func TestReceipt_Mark(t *testing.T) {
	t.Parallel()

	r := New("prod", "statehub-system", nil)
	assert.False(t, r.Done("register"))

	r.Mark("register")
	r.Mark("register")
	assert.True(t, r.Done("register"))
	assert.Equal(t, []string{"register"}, r.Completed)
	assert.False(t, r.Updated.IsZero())
}

func TestReceipt_MarkInstalled(t *testing.T) {
	t.Parallel()

	r := New("prod", "statehub-system", nil)
	assert.False(t, r.IsInstalled("statehub"))

	r.MarkInstalled("statehub")
	r.MarkInstalled("statehub")
	assert.True(t, r.IsInstalled("statehub"))
	assert.Equal(t, []string{"statehub"}, r.Installed)
}

func TestReceipt_Matches(t *testing.T) {
	t.Parallel()

	r := New("prod", "statehub-system", []v1.StateName{"alfa", "bravo"})

	tests := []struct {
		name      string
		namespace string
		states    []v1.StateName
		wantErr   string
	}{
		{name: "same", namespace: "statehub-system", states: []v1.StateName{"alfa", "bravo"}},
		{name: "reordered", namespace: "statehub-system", states: []v1.StateName{"bravo", "alfa"}},
		{name: "other namespace", namespace: "custom", states: []v1.StateName{"alfa", "bravo"}, wantErr: `namespace "statehub-system", not "custom"`},
		{name: "other states", namespace: "statehub-system", states: []v1.StateName{"bravo"}, wantErr: "states [alfa bravo], not [bravo]"},
		{name: "no states", namespace: "statehub-system", wantErr: "states [alfa bravo], not []"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := r.Matches(tt.namespace, tt.states)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "receipts")
	store := &FileStore{Dir: dir}

	_, err := store.Load(ctx, "prod")
	require.ErrorIs(t, err, ErrNotFound)

	r := New("prod", "statehub-system", nil)
	r.States = append(r.States, "default")
	r.Mark("register")
	require.NoError(t, store.Save(ctx, r))

	info, err := os.Stat(filepath.Join(dir, "prod.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load(ctx, "prod")
	require.NoError(t, err)
	assert.Equal(t, r.Cluster, loaded.Cluster)
	assert.Equal(t, r.States, loaded.States)
	assert.True(t, loaded.Done("register"))

	require.NoError(t, store.Delete(ctx, "prod"))
	require.NoError(t, store.Delete(ctx, "prod"))
	_, err = store.Load(ctx, "prod")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_RejectsNewerVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prod.yaml"), []byte("version: 9\ncluster: prod\n"), 0o600))

	_, err := (&FileStore{Dir: dir}).Load(context.Background(), "prod")
	assert.ErrorContains(t, err, "unsupported receipt version 9")
}

func TestOpen(t *testing.T) {
	t.Parallel()

	store, err := Open(context.Background(), "/tmp/receipts")
	require.NoError(t, err)
	assert.Equal(t, &FileStore{Dir: "/tmp/receipts"}, store)

	_, err = Open(context.Background(), "s3:///prefix")
	assert.ErrorContains(t, err, "missing bucket")

	_, err = Open(context.Background(), "")
	assert.Error(t, err)
}

// fakeBucket is a minimal path-style S3 object store.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[key] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := b.objects[key]
		if !ok {
			xmlResponse(w, http.StatusNotFound, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)
	case http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, body string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(body))
}

func testS3Store(t *testing.T, bucket *fakeBucket) *S3Store {
	t.Helper()
	server := httptest.NewServer(bucket)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
	})
	return NewS3StoreFromClient(client, "receipts", "statehub/clusters")
}

func TestS3Store(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bucket := &fakeBucket{objects: map[string][]byte{}}
	store := testS3Store(t, bucket)

	_, err := store.Load(ctx, "prod")
	require.ErrorIs(t, err, ErrNotFound)

	r := New("prod", "statehub-system", nil)
	r.Mark("register")
	r.Mark("namespace")
	require.NoError(t, store.Save(ctx, r))
	assert.Contains(t, bucket.objects, "receipts/statehub/clusters/prod.yaml")

	loaded, err := store.Load(ctx, "prod")
	require.NoError(t, err)
	assert.Equal(t, []string{"register", "namespace"}, loaded.Completed)

	require.NoError(t, store.Delete(ctx, "prod"))
	assert.Empty(t, bucket.objects)
}
