// Package spider is the default concrete implementation of the
// indexer.Spider/Session/Page boundary (SPEC_FULL §14). spec.md §1 places
// the actual page-fetching engine out of scope ("referenced only by
// interface"); this package is the reference implementation used for
// integration wiring and tests, grounded on fetcher.go's fetcher/
// FetchManager shape (robots.txt handling, dnscache-backed Transport,
// crawl delay) and parse.go's link-discovery pass, adapted to goquery for
// the same reason normalize/extract.go is: the teacher's golang.org/x/net
// HTML tokenizer dependency is dead (code.google.com/p/go.net/html).
package spider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/temoto/robotstxt"

	"github.com/iParadigms/indexer"
	"github.com/iParadigms/indexer/dnscache"
)

const (
	// DefaultPageBufferSize is the bounded page-stream width, matching
	// original_source/src/services/crawler.rs's website.subscribe(18)
	// (SPEC_FULL §12).
	DefaultPageBufferSize = 18

	defaultUserAgent      = "indexerbot"
	defaultHTTPTimeout    = 30 * time.Second
	defaultMaxDNSEntries  = 4096
	defaultMaxContentSize = 10 << 20 // 10MiB, mirrors fetcher.go's MaxHTTPContentSizeBytes intent
)

// page is the concrete indexer.Page implementation.
type page struct {
	url  string
	html string
}

func (p *page) URL() string  { return p.url }
func (p *page) HTML() string { return p.html }

// DefaultSpider is the reference indexer.Spider implementation: a
// same-site, robots.txt-honoring, dnscache-dialing crawler.
type DefaultSpider struct {
	UserAgent      string
	Client         *http.Client
	PageBufferSize int
	Logger         zerolog.Logger
}

// NewDefaultSpider builds a DefaultSpider with a dnscache-wrapped
// transport, mirroring fetcher.go's FetchManager.Start transport setup.
func NewDefaultSpider(logger zerolog.Logger) (*DefaultSpider, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		Dial: (&net.Dialer{
			Timeout:   defaultHTTPTimeout,
			KeepAlive: 30 * time.Second,
		}).Dial,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	cachingDial, err := dnscache.Dial(transport.Dial, defaultMaxDNSEntries)
	if err != nil {
		return nil, fmt.Errorf("constructing dns-caching dialer: %w", err)
	}
	transport.Dial = cachingDial

	return &DefaultSpider{
		UserAgent:      defaultUserAgent,
		Client:         &http.Client{Transport: transport, Timeout: defaultHTTPTimeout},
		PageBufferSize: DefaultPageBufferSize,
		Logger:         logger.With().Str("component", "spider").Logger(),
	}, nil
}

// Crawl implements indexer.Spider. It fetches the site's robots.txt, then
// starts a goroutine that walks the site breadth-first, restricted to the
// same host as site, and returns a bound Session without waiting for that
// walk (the contract in interfaces.go: "Crawl itself should not block on
// completion of the crawl").
func (s *DefaultSpider) Crawl(ctx context.Context, site *url.URL) (indexer.Session, error) {
	bufferSize := s.PageBufferSize
	if bufferSize <= 0 {
		bufferSize = DefaultPageBufferSize
	}

	sess := &session{
		pages:     make(chan indexer.Page, bufferSize),
		done:      make(chan struct{}),
		producing: true,
	}

	robots := s.fetchRobots(ctx, site)

	go s.crawl(ctx, site, robots, sess)

	return sess, nil
}

// session is the default indexer.Session implementation. Done only closes
// once every page it has sent has been Acked and no further pages will be
// produced, so a consumer selecting between Pages() and Done() (crawler.go)
// can never observe Done() ready while Pages() still holds an unread value
// — the watermark guard SPEC_FULL §14.3 describes
// (original_source/src/services/crawler.rs's rx_guard.inc()), not a
// best-effort signal that races the channel close order.
type session struct {
	pages chan indexer.Page
	done  chan struct{}

	mu        sync.Mutex
	doneOnce  sync.Once
	err       error
	sent      int
	acked     int
	producing bool
}

func (sess *session) Pages() <-chan indexer.Page { return sess.pages }

// Ack implements indexer.Session. Once every page sent so far has been
// acked and the crawl has finished producing, Done closes.
func (sess *session) Ack() {
	sess.mu.Lock()
	sess.acked++
	sess.maybeClose()
	sess.mu.Unlock()
}

func (sess *session) Done() <-chan struct{} { return sess.done }

func (sess *session) Err() error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.err
}

func (sess *session) fail(err error) {
	sess.mu.Lock()
	sess.err = err
	sess.mu.Unlock()
}

// recordSent marks one more page as sent onto the Pages() channel.
func (sess *session) recordSent() {
	sess.mu.Lock()
	sess.sent++
	sess.mu.Unlock()
}

// finishProducing marks that no further pages will ever be sent, closing
// Done immediately if every page already sent has already been acked.
func (sess *session) finishProducing() {
	sess.mu.Lock()
	sess.producing = false
	sess.maybeClose()
	sess.mu.Unlock()
}

// maybeClose closes done once production has finished and every sent page
// has been acked. Callers must hold sess.mu.
func (sess *session) maybeClose() {
	if !sess.producing && sess.acked >= sess.sent {
		sess.doneOnce.Do(func() { close(sess.done) })
	}
}

// crawl implements the breadth-first, same-site walk. Grounded on
// fetcher.go's crawlNewHost loop, minus the cross-host claim/unclaim
// machinery (spec.md Non-goals exclude distributed coordination; this
// Spider instance owns exactly one site per Crawl call).
func (s *DefaultSpider) crawl(ctx context.Context, site *url.URL, robots *robotstxt.Group, sess *session) {
	defer sess.finishProducing()
	defer close(sess.pages)

	root := *site
	if root.Path == "" {
		root.Path = "/"
	}
	queue := []*url.URL{&root}
	visited := map[string]bool{root.String(): true}

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			sess.fail(ctx.Err())
			return
		default:
		}

		next := queue[0]
		queue = queue[1:]

		if robots != nil && !robots.Test(next.RequestURI()) {
			continue
		}

		body, err := s.fetch(ctx, next)
		if err != nil {
			s.Logger.Debug().Err(err).Str("url", next.String()).Msg("fetch failed, skipping")
			continue
		}

		select {
		case sess.pages <- &page{url: next.String(), html: string(body)}:
			sess.recordSent()
		case <-ctx.Done():
			sess.fail(ctx.Err())
			return
		}

		for _, link := range discoverLinks(next, body) {
			if link.Host != site.Host {
				continue
			}
			key := link.String()
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, link)
		}

		if robots != nil && robots.CrawlDelay > 0 {
			select {
			case <-time.After(robots.CrawlDelay):
			case <-ctx.Done():
				sess.fail(ctx.Err())
				return
			}
		}
	}
}

// fetch performs a single GET, bounding the response body the same way
// fetcher.go's fillReadBuffer does.
func (s *DefaultSpider) fetch(ctx context.Context, u *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)

	res, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", u, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("fetching %s: status %d", u, res.StatusCode)
	}

	limited := io.LimitReader(res.Body, defaultMaxContentSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", u, err)
	}
	if len(body) > defaultMaxContentSize {
		return nil, fmt.Errorf("fetching %s: content exceeded max size", u)
	}
	return body, nil
}

// fetchRobots fetches and parses robots.txt for site's host, falling back
// to an allow-all group on any failure (fetcher.go's getRobots does the
// same: "failure to GET just returns the default group").
func (s *DefaultSpider) fetchRobots(ctx context.Context, site *url.URL) *robotstxt.Group {
	robotsURL := &url.URL{Scheme: site.Scheme, Host: site.Host, Path: "/robots.txt"}

	allowAll, _ := robotstxt.FromBytes([]byte("User-agent: *\n"))
	defaultGroup := allowAll.FindGroup(s.UserAgent)

	body, err := s.fetch(ctx, robotsURL)
	if err != nil {
		return defaultGroup
	}

	robots, err := robotstxt.FromBytes(body)
	if err != nil {
		s.Logger.Debug().Err(err).Str("url", robotsURL.String()).Msg("could not parse robots.txt, allowing all")
		return defaultGroup
	}
	return robots.FindGroup(s.UserAgent)
}

// discoverLinks extracts same-document <a href> targets as absolute URLs,
// grounded on parse.go's parseAnchorAttrs, adapted to goquery the way
// normalize/extract.go adapts the teacher's tokenizer-based walk.
func discoverLinks(base *url.URL, body []byte) []*url.URL {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, base.ResolveReference(ref))
	})
	return links
}
