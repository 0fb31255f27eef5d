package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iParadigms/indexer/model"
)

// FindWebsiteByURL implements indexer.Store. Grounded on
// lueurxax-TelegramDigestBot/internal/storage/ratings.go's raw-query style
// (db.Pool.Query + manual Scan) rather than sqlc-generated code.
func (db *DB) FindWebsiteByURL(ctx context.Context, url string) (*model.Website, error) {
	var w model.Website
	err := db.Pool.QueryRow(ctx,
		`SELECT id, url, word_count, created_at, updated_at FROM websites WHERE url = $1`,
		url,
	).Scan(&w.ID, &w.URL, &w.WordCount, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding website by url: %w", err)
	}
	return &w, nil
}

// InsertWebsite implements indexer.Store (spec.md §4.5 step 4). The id,
// created_at and updated_at are database-generated (spec.md §9:
// "The application must not choose ids client-side").
func (db *DB) InsertWebsite(ctx context.Context, url string, wordCount int) (*model.Website, error) {
	var w model.Website
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO websites (url, word_count) VALUES ($1, $2)
		 RETURNING id, url, word_count, created_at, updated_at`,
		url, wordCount,
	).Scan(&w.ID, &w.URL, &w.WordCount, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting website: %w", err)
	}
	return &w, nil
}

// UpdateWebsiteWordCount implements indexer.Store (spec.md §4.5 step 3).
func (db *DB) UpdateWebsiteWordCount(ctx context.Context, websiteID uuid.UUID, wordCount int) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE websites SET word_count = $1, updated_at = now() WHERE id = $2`,
		wordCount, websiteID,
	)
	if err != nil {
		return fmt.Errorf("updating website word count: %w", err)
	}
	return nil
}

// DeleteWebsiteKeywords implements indexer.Store (spec.md §4.5 step 3: "all
// rows for a website are deleted before re-indexing"). The corresponding
// website_keyword_tfidf rows are intentionally left alone — see SPEC_FULL
// §16 item 1, the stale-TFIDF-row quirk preserved as-is.
func (db *DB) DeleteWebsiteKeywords(ctx context.Context, websiteID uuid.UUID) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM website_keywords WHERE website_id = $1`, websiteID)
	if err != nil {
		return fmt.Errorf("deleting website keywords: %w", err)
	}
	return nil
}

// FindOrCreateKeyword implements indexer.Store (spec.md §4.5 step 5, §9).
// Uses a single INSERT ... ON CONFLICT (keyword) DO UPDATE ... RETURNING
// statement rather than a plain SELECT-then-INSERT, so an existing row's id
// is returned as well, closing the race window spec.md §9 flags
// ("Concurrent Indexer instances can race on Keyword insertion").
func (db *DB) FindOrCreateKeyword(ctx context.Context, term string) (*model.Keyword, error) {
	var k model.Keyword
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO keywords (keyword) VALUES ($1)
		 ON CONFLICT (keyword) DO UPDATE SET keyword = EXCLUDED.keyword
		 RETURNING id, keyword, created_at, updated_at`,
		term,
	).Scan(&k.ID, &k.Keyword, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("finding or creating keyword %q: %w", term, err)
	}
	return &k, nil
}

// InsertWebsiteKeyword implements indexer.Store (spec.md §4.5 step 5).
func (db *DB) InsertWebsiteKeyword(ctx context.Context, websiteID, keywordID uuid.UUID, frequency int) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO website_keywords (website_id, keyword_id, frequency) VALUES ($1, $2, $3)
		 ON CONFLICT (website_id, keyword_id) DO UPDATE SET frequency = EXCLUDED.frequency, updated_at = now()`,
		websiteID, keywordID, frequency,
	)
	if err != nil {
		return fmt.Errorf("inserting website keyword occurrence: %w", err)
	}
	return nil
}

// CountWebsiteKeywordsByKeyword implements indexer.Store. Must be called
// after the current page's occurrence row has been inserted (spec.md §4.5:
// "Compute statistics after insertion so the counts include this page").
func (db *DB) CountWebsiteKeywordsByKeyword(ctx context.Context, keywordID uuid.UUID) (int64, error) {
	var count int64
	err := db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM website_keywords WHERE keyword_id = $1`, keywordID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting documents with keyword: %w", err)
	}
	return count, nil
}

// CountWebsites implements indexer.Store.
func (db *DB) CountWebsites(ctx context.Context) (int64, error) {
	var count int64
	if err := db.Pool.QueryRow(ctx, `SELECT count(*) FROM websites`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting websites: %w", err)
	}
	return count, nil
}

// UpsertWebsiteKeywordTFIDF implements indexer.Store (spec.md §4.5 step 5).
//
// original_source/src/models/website_keyword_tfidf.rs upserts via a
// find-then-branch (SELECT, then UPDATE or INSERT). This uses a single
// native INSERT ... ON CONFLICT DO UPDATE statement instead — the same net
// row state, without the read-then-write race window the find-then-branch
// version has under concurrent Indexers (SPEC_FULL §12, a deliberate
// Go-idiomatic simplification recorded in DESIGN.md).
func (db *DB) UpsertWebsiteKeywordTFIDF(ctx context.Context, websiteID, keywordID uuid.UUID, tf, idf, tfidf decimal.Decimal) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO website_keyword_tfidf (website_id, keyword_id, tf, idf, tfidf)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (website_id, keyword_id) DO UPDATE
		 SET tf = EXCLUDED.tf, idf = EXCLUDED.idf, tfidf = EXCLUDED.tfidf, updated_at = now()`,
		websiteID, keywordID, tf, idf, tfidf,
	)
	if err != nil {
		return fmt.Errorf("upserting website keyword tfidf: %w", err)
	}
	return nil
}
