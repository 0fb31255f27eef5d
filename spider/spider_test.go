package spider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSpider(t *testing.T) *DefaultSpider {
	t.Helper()
	s, err := NewDefaultSpider(zerolog.Nop())
	require.NoError(t, err)
	// The default transport's dnscache dialer won't resolve httptest's
	// 127.0.0.1 addresses through a hostname cache usefully, but net.Dial
	// handles IP literals directly, so the default client works unmodified
	// against httptest servers.
	s.PageBufferSize = 4
	return s
}

func TestDefaultSpider_CrawlSinglePageNoLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte(`<html><body><p>hello</p></body></html>`))
		}
	}))
	defer srv.Close()

	s := newTestSpider(t)
	site, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := s.Crawl(ctx, site)
	require.NoError(t, err)

	var pages []string
	for p := range sess.Pages() {
		pages = append(pages, p.URL())
		sess.Ack()
	}
	<-sess.Done()
	assert.NoError(t, sess.Err())
	assert.Len(t, pages, 1)
	assert.Equal(t, srv.URL+"/", pages[0])
}

func TestDefaultSpider_FollowsSameSiteLinksOnly(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.WriteHeader(http.StatusNotFound)
		case "/":
			w.Write([]byte(`<html><body><a href="/about">about</a><a href="https://external.example/other">external</a></body></html>`))
		case "/about":
			w.Write([]byte(`<html><body>about page</body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := newTestSpider(t)
	site, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := s.Crawl(ctx, site)
	require.NoError(t, err)

	seen := map[string]bool{}
	for p := range sess.Pages() {
		seen[p.URL()] = true
		sess.Ack()
	}
	<-sess.Done()
	assert.NoError(t, sess.Err())
	assert.True(t, seen[srv.URL+"/"])
	assert.True(t, seen[srv.URL+"/about"])
	assert.Len(t, seen, 2, "external-host link must not be followed")
}

func TestDefaultSpider_RobotsDisallowBlocksRoot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			w.Write([]byte("User-agent: *\nDisallow: /\n"))
		default:
			w.Write([]byte(`<html><body>should not be fetched</body></html>`))
		}
	}))
	defer srv.Close()

	s := newTestSpider(t)
	site, err := url.Parse(srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sess, err := s.Crawl(ctx, site)
	require.NoError(t, err)

	var pages []string
	for p := range sess.Pages() {
		pages = append(pages, p.URL())
		sess.Ack()
	}
	<-sess.Done()
	assert.Empty(t, pages)
}

func TestDiscoverLinks_ResolvesRelativeAndAbsolute(t *testing.T) {
	base, err := url.Parse("https://example.com/dir/page")
	require.NoError(t, err)
	body := []byte(`<html><body>
		<a href="child">child</a>
		<a href="/root">root</a>
		<a href="https://other.example/x">other</a>
	</body></html>`)

	links := discoverLinks(base, body)
	require.Len(t, links, 3)
	assert.Equal(t, "https://example.com/dir/child", links[0].String())
	assert.Equal(t, "https://example.com/root", links[1].String())
	assert.Equal(t, "https://other.example/x", links[2].String())
}
