package indexer

import (
	"context"
	"math"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iParadigms/indexer/model"
)

// Indexer is stage 5 (the terminal stage) of the pipeline (spec.md §4.5):
// for each TokenBatch it computes raw term frequencies and maintains the
// Website/Keyword/WebsiteKeyword/WebsiteKeywordTFIDF rows described in
// spec.md §3/§6. It does not batch across pages. An error on the page's
// Website row is logged and that page is skipped; an error on a single term
// is logged and only that term is skipped (spec.md §7).
//
// Grounded step-for-step on
// original_source/src/services/text_pool.rs's TextPool::start/save_texts/
// insert_keyword, the Rust implementation's equivalent terminal stage.
type Indexer struct {
	In     <-chan TokenBatch
	Store  Store
	Logger zerolog.Logger
}

// NewIndexer constructs an Indexer consuming batches from in against store.
func NewIndexer(in <-chan TokenBatch, store Store, logger zerolog.Logger) *Indexer {
	return &Indexer{
		In:     in,
		Store:  store,
		Logger: logger.With().Str("component", "indexer").Logger(),
	}
}

// Run consumes TokenBatches from In until it is closed and drained, then
// returns. Per original_source/src/main.rs, the Indexer is the stage main()
// awaits directly: the process's lifetime is this call's lifetime
// (SPEC_FULL §12/§13).
func (ix *Indexer) Run(ctx context.Context) error {
	for {
		select {
		case batch, ok := <-ix.In:
			if !ok {
				return nil
			}
			ix.indexPage(ctx, batch)
		case <-ctx.Done():
			return nil
		}
	}
}

// indexPage implements spec.md §4.5's per-page state machine: received ->
// word_count_committed -> {existing: keywords_cleared | new:
// website_inserted} -> for each term: keyword_ensured -> occurrence_inserted
// -> tfidf_upserted -> done.
func (ix *Indexer) indexPage(ctx context.Context, batch TokenBatch) {
	log := ix.Logger.With().Str("url", batch.Page.URL()).Logger()

	total := len(batch.Tokens)
	tf := termFrequency(batch.Tokens)

	website, err := ix.commitWebsite(ctx, batch.Page.URL(), total)
	if err != nil {
		log.Error().Err(err).Msg("failed to commit website row, skipping page")
		return
	}

	for term, freq := range tf {
		if err := ix.indexTerm(ctx, website, term, freq); err != nil {
			log.Error().Err(err).Str("term", term).Msg("failed to index term, skipping term")
		}
	}
}

// commitWebsite implements spec.md §4.5 steps 2-4: find the Website by URL;
// if it exists, update word_count and clear its WebsiteKeyword rows
// (re-index); otherwise insert a new Website.
func (ix *Indexer) commitWebsite(ctx context.Context, url string, wordCount int) (*model.Website, error) {
	existing, err := ix.Store.FindWebsiteByURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return ix.Store.InsertWebsite(ctx, url, wordCount)
	}

	if err := ix.Store.UpdateWebsiteWordCount(ctx, existing.ID, wordCount); err != nil {
		return nil, err
	}
	if err := ix.Store.DeleteWebsiteKeywords(ctx, existing.ID); err != nil {
		return nil, err
	}
	existing.WordCount = wordCount
	return existing, nil
}

// indexTerm implements spec.md §4.5 step 5: find-or-create the Keyword,
// insert its occurrence row, then compute and upsert its TFIDF row using
// statistics taken AFTER the occurrence row is inserted.
func (ix *Indexer) indexTerm(ctx context.Context, website *model.Website, term string, freq int) error {
	keyword, err := ix.Store.FindOrCreateKeyword(ctx, term)
	if err != nil {
		return err
	}

	if err := ix.Store.InsertWebsiteKeyword(ctx, website.ID, keyword.ID, freq); err != nil {
		return err
	}

	docsWithKeyword, err := ix.Store.CountWebsiteKeywordsByKeyword(ctx, keyword.ID)
	if err != nil {
		return err
	}
	totalDocs, err := ix.Store.CountWebsites(ctx)
	if err != nil {
		return err
	}

	tf, idf, tfidf := computeTFIDF(freq, website.WordCount, totalDocs, docsWithKeyword)

	return ix.Store.UpsertWebsiteKeywordTFIDF(ctx, website.ID, keyword.ID, tf, idf, tfidf)
}

// termFrequency builds the raw term-frequency mapping for one page (spec.md
// §4.5 step 1).
func termFrequency(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// computeTFIDF implements spec.md §4.5's exact numerical definition,
// preserved as-is including the quirks SPEC_FULL §16 records:
//
//	idf   = 1 + ln(total_docs / docs_with_keyword)
//	tfidf = (raw_count / website.word_count) * idf
//
// docsWithKeyword is always >= 1 here because the occurrence row for the
// current page has already been inserted by the caller.
func computeTFIDF(freq, wordCount int, totalDocs, docsWithKeyword int64) (tf, idf, tfidf decimal.Decimal) {
	tf = decimal.NewFromInt(int64(freq))

	idfValue := 1 + math.Log(float64(totalDocs)/float64(docsWithKeyword))
	idf = decimal.NewFromFloat(idfValue)

	var normalizedTF float64
	if wordCount > 0 {
		normalizedTF = float64(freq) / float64(wordCount)
	}
	tfidf = decimal.NewFromFloat(normalizedTF * idfValue)

	return tf, idf, tfidf
}
