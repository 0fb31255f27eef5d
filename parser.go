package indexer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iParadigms/indexer/normalize"
)

// TokenBatch is the in-flight record emitted by the Parser: a Page paired
// with its ordered list of post-normalization tokens (spec.md §3's
// TokenBatch = (Page, ordered list of post-normalization tokens)).
type TokenBatch struct {
	Page   Page
	Tokens []string
}

// Parser is stage 4 of the pipeline (spec.md §4.4): it extracts visible
// text from every Page on In, runs the normalization pipeline, and emits a
// TokenBatch per page onto Out.
//
// Neither the teacher's parse.go (an HTML-tokenizer outlink/meta extractor)
// nor lueurxax-TelegramDigestBot's readability-based extractor.go is the
// right grain for "select all text nodes under a universal selector" — see
// SPEC_FULL §11; normalize.ExtractTokens (goquery "*" selector) is.
type Parser struct {
	In       <-chan Page
	Out      chan<- TokenBatch
	Pipeline *normalize.Pipeline
	Logger   zerolog.Logger
}

// NewParser constructs a Parser. lemmaPath is loaded once, here, so a
// load failure is fatal before any page is processed (spec.md §4.4:
// "Load failure aborts Parser construction and is fatal for the run").
func NewParser(lemmaPath string, in <-chan Page, out chan<- TokenBatch, logger zerolog.Logger) (*Parser, error) {
	lemma, err := normalize.LoadLemmaMap(lemmaPath)
	if err != nil {
		return nil, fmt.Errorf("constructing parser: %w", err)
	}
	return &Parser{
		In:       in,
		Out:      out,
		Pipeline: normalize.New(lemma),
		Logger:   logger.With().Str("component", "parser").Logger(),
	}, nil
}

// Run consumes pages from In until it is closed and drained, then closes
// Out. A page whose HTML cannot be parsed is logged and dropped; it does
// not stop the pipeline (spec.md §7: "Page parse failure ... Log; drop
// page.").
func (p *Parser) Run(ctx context.Context) error {
	defer close(p.Out)

	for {
		select {
		case page, ok := <-p.In:
			if !ok {
				return nil
			}
			p.processPage(ctx, page)
		case <-ctx.Done():
			return nil
		}
	}
}

func (p *Parser) processPage(ctx context.Context, page Page) {
	rawTokens, err := normalize.ExtractTokens(page.HTML())
	if err != nil {
		p.Logger.Error().Err(err).Str("url", page.URL()).Msg("failed to extract text from page, dropping")
		return
	}

	tokens := p.Pipeline.Normalize(rawTokens)

	select {
	case p.Out <- TokenBatch{Page: page, Tokens: tokens}:
	case <-ctx.Done():
	}
}
