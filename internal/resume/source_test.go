package resume

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/linky/internal/httpclient"
)

func TestHTTPSourceURL(t *testing.T) {
	src := NewHTTPSource(nil, "https://storage.example.com/resumes/", nil)

	assert.Equal(t, "https://storage.example.com/resumes/alice.pdf", src.URL("alice.pdf"))
	assert.Equal(t, "https://storage.example.com/resumes/alice.pdf", src.URL("  alice.pdf "))
	assert.Equal(t, "http://other.example.com/bob.pdf", src.URL("http://other.example.com/bob.pdf"))
	assert.Equal(t, "https://other.example.com/bob.pdf", src.URL("https://other.example.com/bob.pdf"))
}

func TestHTTPSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/resumes/alice.pdf":
			_, _ = w.Write([]byte("%PDF-1.4 alice"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := httpclient.New(httpclient.Config{MaxAttempts: 1, Timeout: time.Second}, zap.NewNop())
	src := NewHTTPSource(client, srv.URL+"/resumes/", zap.NewNop())

	data, err := src.Fetch(context.Background(), "alice.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 alice", string(data))

	_, err = src.Fetch(context.Background(), "missing.pdf")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPSourceFetchEmptyLocation(t *testing.T) {
	src := NewHTTPSource(nil, "", nil)

	_, err := src.Fetch(context.Background(), "  ")
	require.Error(t, err)
}

func TestNewMinIOSourceValidatesConfig(t *testing.T) {
	_, err := NewMinIOSource(MinIOConfig{Bucket: "resumes"}, nil)
	require.Error(t, err)

	_, err = NewMinIOSource(MinIOConfig{Endpoint: "localhost:9000"}, nil)
	require.Error(t, err)
}

func TestMinIOSourceObjectKey(t *testing.T) {
	src, err := NewMinIOSource(MinIOConfig{Endpoint: "localhost:9000", Bucket: "resumes"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "alice.pdf", src.ObjectKey("alice.pdf"))
	assert.Equal(t, "alice.pdf", src.ObjectKey("/alice.pdf"))
	assert.Equal(t, "2024/alice.pdf", src.ObjectKey("resumes/2024/alice.pdf"))
}

func TestMinIOSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/resumes/alice.pdf" {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
				`<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message>` +
				`<Key>missing.pdf</Key><BucketName>resumes</BucketName></Error>`))
			return
		}

		body := "%PDF-1.4 alice"
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", "14")
		w.Header().Set("ETag", `"0123456789abcdef0123456789abcdef"`)
		w.Header().Set("Last-Modified", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Format(http.TimeFormat))
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	src, err := NewMinIOSource(MinIOConfig{
		Endpoint:  strings.TrimPrefix(srv.URL, "http://"),
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "resumes",
		Region:    "us-east-1",
	}, zap.NewNop())
	require.NoError(t, err)

	data, err := src.Fetch(context.Background(), "alice.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 alice", string(data))

	_, err = src.Fetch(context.Background(), "missing.pdf")
	require.ErrorIs(t, err, ErrNotFound)
}
