// Package model defines the four persisted entities of spec.md §3: Website,
// Keyword, WebsiteKeyword, and WebsiteKeywordTFIDF. These are plain data
// structs; all persistence logic lives in store/.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Website is a crawled document identified by its absolute URL (spec.md
// §3). WordCount is the total token count after normalization; it is
// mutated on every re-index.
type Website struct {
	ID        uuid.UUID
	URL       string
	WordCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Keyword is a canonical normalized token (spec.md §3). Created on first
// sighting (find-or-create); immutable thereafter.
type Keyword struct {
	ID        uuid.UUID
	Keyword   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WebsiteKeyword is a per-document occurrence record (spec.md §3): at most
// one row per (WebsiteID, KeywordID) at rest. All rows for a website are
// deleted before re-indexing that website, then re-inserted from scratch.
type WebsiteKeyword struct {
	ID        uuid.UUID
	WebsiteID uuid.UUID
	KeywordID uuid.UUID
	Frequency int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WebsiteKeywordTFIDF is a per-document, per-term index entry (spec.md §3):
// at most one row per (WebsiteID, KeywordID); upserted in place on
// re-index. TF holds the raw frequency (the tfidf->normalization is applied
// only in TFIDF itself); see SPEC_FULL §16 for the stale-row quirk this
// asymmetric delete-vs-upsert lifecycle deliberately preserves.
type WebsiteKeywordTFIDF struct {
	ID        uuid.UUID
	WebsiteID uuid.UUID
	KeywordID uuid.UUID
	TF        decimal.Decimal
	IDF       decimal.Decimal
	TFIDF     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
