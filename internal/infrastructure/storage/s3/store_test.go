package s3

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket serves the ListObjectsV2, PutObject and DeleteObject calls the store makes.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string // key -> content type
}

func (f *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && strings.Contains(req.URL.RawQuery, "list-type=2") {
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
			b.WriteString("<Contents><Key>" + k + "</Key><Size>1</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>")
		}
		b.WriteString("</ListBucketResult>")
		return respond(http.StatusOK, b.String()), nil
	}

	switch req.Method {
	case http.MethodPut:
		_, _ = io.Copy(io.Discard, req.Body)
		f.objects[key] = req.Header.Get("Content-Type")
		return respond(http.StatusOK, ""), nil
	case http.MethodDelete:
		delete(f.objects, key)
		return respond(http.StatusNoContent, ""), nil
	}

	return respond(http.StatusNotImplemented, ""), nil
}

func (f *fakeBucket) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func respond(status int, body string) *http.Response {
	header := http.Header{}
	if body != "" {
		header.Set("Content-Type", "application/xml")
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(body)), Header: header}
}

func newTestStore(t *testing.T, objects map[string]string) (*Store, *fakeBucket) {
	t.Helper()

	bucket := &fakeBucket{objects: objects}
	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		o.HTTPClient = &http.Client{Transport: bucket}
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String("https://mock.s3.local")
	})

	return NewWithClient(client, "photos", "uploads/", 0), bucket
}

func TestCurrentWithoutPhotoIsNil(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"uploads/readme.txt": "text/plain"})

	photo, err := store.Current(context.Background())
	require.NoError(t, err)
	assert.Nil(t, photo)
}

func TestCurrentReturnsPresignedURL(t *testing.T) {
	store, _ := newTestStore(t, map[string]string{"uploads/team.jpg": "image/jpeg"})

	photo, err := store.Current(context.Background())
	require.NoError(t, err)
	require.NotNil(t, photo)

	assert.Equal(t, "team.jpg", photo.Name)
	assert.Contains(t, photo.URL, "mock.s3.local/photos/uploads/team.jpg")
	assert.Contains(t, photo.URL, "X-Amz-Signature")
}

func TestReplaceDeletesPreviousImages(t *testing.T) {
	store, bucket := newTestStore(t, map[string]string{
		"uploads/team.jpg":     "image/jpeg",
		"uploads/old.gif":      "image/gif",
		"uploads/notes.txt":    "text/plain",
		"uploads/nested/x.png": "image/png",
	})

	photo, err := store.Replace(context.Background(), "team.png", bytes.NewBufferString("png-bytes"), "image/png")
	require.NoError(t, err)
	require.NotNil(t, photo)
	assert.Equal(t, "team.png", photo.Name)

	assert.Equal(t, []string{"uploads/nested/x.png", "uploads/notes.txt", "uploads/team.png"}, bucket.keys())
	assert.Equal(t, "image/png", bucket.objects["uploads/team.png"])
}

func TestReplaceRejectsNestedNames(t *testing.T) {
	store, bucket := newTestStore(t, map[string]string{"uploads/team.jpg": "image/jpeg"})

	_, err := store.Replace(context.Background(), "../team.png", strings.NewReader("x"), "image/png")
	require.Error(t, err)
	assert.Equal(t, []string{"uploads/team.jpg"}, bucket.keys())
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{Region: "us-east-1"})
	require.Error(t, err)
}
