package indexer

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iParadigms/indexer/model"
)

// Page is one fetched HTML document, opaque to this module except for its
// URL and HTML body (spec.md §3's in-flight Page record). Concrete
// implementations live behind the external spider (spider/ package).
type Page interface {
	URL() string
	HTML() string
}

// Session is a per-site crawl in progress against the external spider
// (SPEC_FULL §14.3). It models original_source/src/services/crawler.rs's
// `website.subscribe(18)` + `rx.recv()`/`rx_guard.inc()` + `website.crawl()`
// triple as a small Go interface, in the shape of the teacher's own
// Datastore/Handler interfaces (interfaces.go): short, verb-named methods,
// each with a one-paragraph contract.
type Session interface {
	// Pages returns the bounded page-stream channel for this site. Buffer
	// width is the spider's choice, but should default to 18 per SPEC_FULL
	// §12 (original_source used exactly that width).
	Pages() <-chan Page

	// Ack signals the completion-tick/watermark guard for one delivered
	// page. Callers must call Ack exactly once per Page received from
	// Pages(), in the order received.
	Ack()

	// Done closes once the site has been fully crawled: Pages() is drained
	// and no further pages will be produced.
	Done() <-chan struct{}

	// Err returns a non-nil error if the site crawl failed unrecoverably.
	// Only meaningful after Done() has closed.
	Err() error
}

// Spider is the external, out-of-scope collaborator that actually fetches
// pages and honors robots.txt, crawl-delay, and link discovery for a site.
// spec.md §1 places this engine out of scope, "referenced only by
// interface"; this is that interface. A concrete default implementation is
// provided in spider/ for integration testing.
type Spider interface {
	// Crawl begins crawling site and returns a Session bound to it. Crawl
	// itself should not block on completion of the crawl; callers read
	// Session.Pages() and Session.Done() to observe progress.
	Crawl(ctx context.Context, site *url.URL) (Session, error)
}

// Store is the relational persistence contract the Indexer relies on
// (spec.md §3, §4.5, §6). A concrete pgx-backed implementation lives in
// store/. This interface is the database-access analogue of the teacher's
// Datastore interface (interfaces.go) — named verb methods, one per
// operation the Indexer's state machine needs, rather than a single
// do-everything method.
type Store interface {
	// FindWebsiteByURL returns the Website for url, or (nil, nil) if none
	// exists yet.
	FindWebsiteByURL(ctx context.Context, url string) (*model.Website, error)

	// InsertWebsite creates a new Website row (spec.md §4.5 step 4).
	InsertWebsite(ctx context.Context, url string, wordCount int) (*model.Website, error)

	// UpdateWebsiteWordCount updates an existing Website's word_count
	// (spec.md §4.5 step 3).
	UpdateWebsiteWordCount(ctx context.Context, websiteID uuid.UUID, wordCount int) error

	// DeleteWebsiteKeywords deletes all WebsiteKeyword rows for websiteID
	// (spec.md §4.5 step 3: re-index clears occurrence rows before
	// re-inserting them).
	DeleteWebsiteKeywords(ctx context.Context, websiteID uuid.UUID) error

	// FindOrCreateKeyword resolves the Keyword row for term, inserting one
	// if this is its first sighting (spec.md §4.5 step 5, §9 find-or-create).
	FindOrCreateKeyword(ctx context.Context, term string) (*model.Keyword, error)

	// InsertWebsiteKeyword inserts one occurrence row (spec.md §4.5 step 5).
	InsertWebsiteKeyword(ctx context.Context, websiteID, keywordID uuid.UUID, frequency int) error

	// CountWebsiteKeywordsByKeyword returns the number of documents
	// containing keywordID, counted AFTER the current page's occurrence row
	// has been inserted (spec.md §4.5: "Compute statistics after insertion").
	CountWebsiteKeywordsByKeyword(ctx context.Context, keywordID uuid.UUID) (int64, error)

	// CountWebsites returns the total number of Website rows.
	CountWebsites(ctx context.Context) (int64, error)

	// UpsertWebsiteKeywordTFIDF upserts the (websiteID, keywordID) TFIDF row
	// (spec.md §4.5 step 5, §3: "upserted in place on re-index").
	UpsertWebsiteKeywordTFIDF(ctx context.Context, websiteID, keywordID uuid.UUID, tf, idf, tfidf decimal.Decimal) error
}
