package fetcher_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"polysum/internal/infra/fetcher"
	"polysum/internal/resilience/circuitbreaker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
	<article>
		<h1>Test Article Title</h1>
		<p>This is the first paragraph of the article content.</p>
		<p>This is the second paragraph with more important information.</p>
		<p>This is the third paragraph to ensure we have enough content.</p>
	</article>
</body>
</html>`

func localConfig() fetcher.Config {
	cfg := fetcher.DefaultConfig()
	cfg.DenyPrivateIPs = false // httptest listens on loopback
	return cfg
}

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(html))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestExtract_Success(t *testing.T) {
	var userAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articleHTML))
	}))
	defer server.Close()

	article, err := fetcher.NewReadabilityFetcher(localConfig()).Extract(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "PolysumBot/1.0", userAgent.Load())
	assert.NotEmpty(t, article.Title)
	assert.Contains(t, article.Text, "first paragraph")
	assert.Contains(t, article.Text, "third paragraph")
	assert.True(t, strings.HasPrefix(article.URL, server.URL))
}

func TestExtract_InvalidURL(t *testing.T) {
	f := fetcher.NewReadabilityFetcher(fetcher.DefaultConfig())

	tests := []struct {
		name string
		url  string
	}{
		{name: "ftp scheme", url: "ftp://example.com/file"},
		{name: "file scheme", url: "file:///etc/passwd"},
		{name: "no host", url: "http://"},
		{name: "garbage", url: "://bad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Extract(context.Background(), tt.url)
			require.Error(t, err)
			assert.ErrorIs(t, err, fetcher.ErrInvalidURL)
			assert.True(t, fetcher.IsClientError(err))
		})
	}
}

func TestExtract_PrivateIP(t *testing.T) {
	f := fetcher.NewReadabilityFetcher(fetcher.DefaultConfig())

	for _, u := range []string{
		"http://127.0.0.1/admin",
		"http://10.0.0.1/",
		"http://192.168.1.1/",
		"http://172.16.0.1/",
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]/",
	} {
		t.Run(u, func(t *testing.T) {
			_, err := f.Extract(context.Background(), u)
			assert.ErrorIs(t, err, fetcher.ErrPrivateIP)
		})
	}
}

func TestExtract_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := fetcher.NewReadabilityFetcher(localConfig()).Extract(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.False(t, fetcher.IsClientError(err))
}

func TestExtract_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := localConfig()
	cfg.Timeout = 50 * time.Millisecond

	_, err := fetcher.NewReadabilityFetcher(cfg).Extract(context.Background(), server.URL)
	assert.ErrorIs(t, err, fetcher.ErrTimeout)
}

func TestExtract_BodyTooLarge(t *testing.T) {
	server := serveHTML(t, fmt.Sprintf(`<html><body><p>%s</p></body></html>`, strings.Repeat("x", 4096)))

	cfg := localConfig()
	cfg.MaxBodySize = 1024

	_, err := fetcher.NewReadabilityFetcher(cfg).Extract(context.Background(), server.URL)
	assert.ErrorIs(t, err, fetcher.ErrBodyTooLarge)
}

func TestExtract_TooManyRedirects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.String(), http.StatusFound)
	}))
	defer server.Close()

	cfg := localConfig()
	cfg.MaxRedirects = 2

	_, err := fetcher.NewReadabilityFetcher(cfg).Extract(context.Background(), server.URL)
	assert.ErrorIs(t, err, fetcher.ErrTooManyRedirects)
}

func TestExtract_FollowsRedirect(t *testing.T) {
	final := serveHTML(t, articleHTML)
	initial := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, final.URL+"/story", http.StatusFound)
	}))
	defer initial.Close()

	article, err := fetcher.NewReadabilityFetcher(localConfig()).Extract(context.Background(), initial.URL)
	require.NoError(t, err)
	assert.Equal(t, final.URL+"/story", article.URL)
	assert.Contains(t, article.Text, "second paragraph")
}

func TestExtract_NoReadableContent(t *testing.T) {
	server := serveHTML(t, `<html><head><title>Empty</title></head><body></body></html>`)

	_, err := fetcher.NewReadabilityFetcher(localConfig()).Extract(context.Background(), server.URL)
	assert.ErrorIs(t, err, fetcher.ErrReadabilityFailed)
}

func TestExtract_CircuitBreakerOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := fetcher.NewReadabilityFetcher(localConfig())

	// MinRequests=5 with an 80% failure threshold.
	for i := 0; i < 5; i++ {
		_, err := f.Extract(context.Background(), server.URL)
		require.Error(t, err)
	}
	require.True(t, f.CircuitOpen())

	_, err := f.Extract(context.Background(), server.URL)
	assert.True(t, circuitbreaker.IsUnavailable(err))
	assert.Equal(t, int32(5), hits.Load())
}
