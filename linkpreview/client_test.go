package linkpreview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jotpad_go/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchParsesAndCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "https://go.dev/doc", r.URL.Query().Get("url"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","data":{"title":"Go","description":"Docs","url":"https://go.dev/doc/","image":{"url":"https://go.dev/logo.png"}}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, time.Minute, logger.NewNopLogger())
	p := c.Fetch(context.Background(), "https://go.dev/doc")
	require.NotNil(t, p)
	assert.Equal(t, Preview{URL: "https://go.dev/doc/", Title: "Go", Description: "Docs", Image: "https://go.dev/logo.png"}, *p)

	again := c.Fetch(context.Background(), "https://go.dev/doc")
	assert.Equal(t, p, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchFailsSilently(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case "https://fail.example":
			w.Write([]byte(`{"status":"fail"}`))
		case "https://broken.example":
			w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, time.Minute, logger.NewNopLogger())
	ctx := context.Background()
	assert.Nil(t, c.Fetch(ctx, "https://fail.example"))
	assert.Nil(t, c.Fetch(ctx, "https://broken.example"))
	assert.Nil(t, c.Fetch(ctx, "https://down.example"))
	assert.Nil(t, c.Fetch(ctx, "ftp://files.example"))
	assert.Nil(t, c.Fetch(ctx, "not a url"))
}

func TestFetchUnreachableService(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, time.Minute, logger.NewNopLogger())
	assert.Nil(t, c.Fetch(context.Background(), "https://go.dev"))
}

func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://go.dev/doc", FirstURL("see https://go.dev/doc, then http://x.io"))
	assert.Equal(t, "http://example.com/a?b=c", FirstURL("(http://example.com/a?b=c)"))
	assert.Empty(t, FirstURL("no links here"))
}
