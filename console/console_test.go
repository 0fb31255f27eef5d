package console

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iParadigms/indexer/model"
)

// fakeStore is a minimal indexer.Store double exercising only what
// console needs.
type fakeStore struct {
	total int64
	err   error
}

func (s *fakeStore) FindWebsiteByURL(ctx context.Context, url string) (*model.Website, error) {
	return nil, nil
}
func (s *fakeStore) InsertWebsite(ctx context.Context, url string, wordCount int) (*model.Website, error) {
	return nil, nil
}
func (s *fakeStore) UpdateWebsiteWordCount(ctx context.Context, websiteID uuid.UUID, wordCount int) error {
	return nil
}
func (s *fakeStore) DeleteWebsiteKeywords(ctx context.Context, websiteID uuid.UUID) error { return nil }
func (s *fakeStore) FindOrCreateKeyword(ctx context.Context, term string) (*model.Keyword, error) {
	return nil, nil
}
func (s *fakeStore) InsertWebsiteKeyword(ctx context.Context, websiteID, keywordID uuid.UUID, frequency int) error {
	return nil
}
func (s *fakeStore) CountWebsiteKeywordsByKeyword(ctx context.Context, keywordID uuid.UUID) (int64, error) {
	return 0, nil
}
func (s *fakeStore) CountWebsites(ctx context.Context) (int64, error) { return s.total, s.err }
func (s *fakeStore) UpsertWebsiteKeywordTFIDF(ctx context.Context, websiteID, keywordID uuid.UUID, tf, idf, tfidf decimal.Decimal) error {
	return nil
}

func TestServer_HealthController(t *testing.T) {
	srv := NewServer(&fakeStore{}, zerolog.Nop())
	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestServer_StatsController(t *testing.T) {
	srv := NewServer(&fakeStore{total: 42}, zerolog.Nop())
	req := httptest.NewRequest("GET", "/stats", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(42), stats.TotalWebsites)
}

func TestServer_StatsController_StoreError(t *testing.T) {
	srv := NewServer(&fakeStore{err: assert.AnError}, zerolog.Nop())
	req := httptest.NewRequest("GET", "/stats", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, 503, rec.Code)
}
