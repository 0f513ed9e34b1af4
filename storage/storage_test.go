package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 beantwortet die wenigen S3-Aufrufe, die S3Store absetzt.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		prefix := req.URL.Query().Get("prefix")
		var keys []string
		for k := range f.objects {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
		for _, k := range keys {
			fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>2026-01-01T00:00:00Z</LastModified></Contents>", k, len(f.objects[k]))
		}
		b.WriteString("</ListBucketResult>")
		return response(http.StatusOK, b.String()), nil
	}

	switch req.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(req.Body)
		if decoded, ok := decodeChunked(body); ok {
			body = decoded
		}
		f.objects[key] = body
		return response(http.StatusOK, ""), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return response(http.StatusNotFound, `<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`), nil
		}
		resp := response(http.StatusOK, string(body))
		resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
		return resp, nil
	case http.MethodDelete:
		delete(f.objects, key)
		return response(http.StatusNoContent, ""), nil
	}
	return response(http.StatusNotImplemented, ""), nil
}

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/xml"}},
	}
}

// decodeChunked entpackt eine aws-chunked Nutzlast mit einem einzelnen Chunk.
func decodeChunked(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 || parts[2] != "0" {
		return nil, false
	}
	size, err := strconv.ParseInt(parts[0], 16, 64)
	if err != nil || int64(len(parts[1])) != size {
		return nil, false
	}
	return []byte(parts[1]), true
}

func newTestS3Store(t *testing.T) (*S3Store, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}}
	store, err := NewS3Store(context.Background(), S3Config{
		Bucket:          "lab-images",
		Region:          "us-east-1",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return store, fake
}

func TestS3StoreRoundTrip(t *testing.T) {
	store, fake := newTestS3Store(t)
	ctx := context.Background()

	data := []byte("tiff-bytes")
	require.NoError(t, store.Put(ctx, "wells/w1/a.tif", bytes.NewReader(data), int64(len(data)), "image/tiff"))
	assert.Equal(t, data, fake.objects["wells/w1/a.tif"])

	rc, err := store.Get(ctx, "wells/w1/a.tif")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, data, got)

	require.NoError(t, store.Put(ctx, "wells/w2/b.tif", bytes.NewReader(data), int64(len(data)), ""))
	objects, err := store.List(ctx, "wells/w1/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "wells/w1/a.tif", objects[0].Key)
	assert.EqualValues(t, len(data), objects[0].Size)

	require.NoError(t, store.Delete(ctx, "wells/w1/a.tif"))
	_, err = store.Get(ctx, "wells/w1/a.tif")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, store.Delete(ctx, "wells/w1/a.tif"))
}

func TestS3StorePresign(t *testing.T) {
	store, _ := newTestS3Store(t)
	url, err := store.PresignURL(context.Background(), "wells/w1/a.tif", 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://mock.s3.local/lab-images/wells/w1/a.tif?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=900")
}

func TestNewS3StoreRequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "a/1", strings.NewReader("one"), -1, "text/plain"))
	require.NoError(t, store.Put(ctx, "b/2", strings.NewReader("two"), -1, ""))
	assert.True(t, store.Has("a/1"))

	objects, err := store.List(ctx, "a/")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "text/plain", objects[0].ContentType)

	url, err := store.PresignURL(ctx, "a/1", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memory://blob/a/1"))

	require.NoError(t, store.Delete(ctx, "a/1"))
	_, err = store.Get(ctx, "a/1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.PresignURL(ctx, "a/1", time.Minute)
	assert.ErrorIs(t, err, ErrNotFound)
}
