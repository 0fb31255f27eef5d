package indexer

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"
)

// SiteAdmission is stage 2 of the pipeline (spec.md §4.2): a one-to-one,
// order-preserving forwarder from its In channel to its Out channel. It
// exists as its own stage so that a future admission policy (dedup by
// registrable domain, rate limiting, a robots precheck) has a designated
// insertion point without disturbing Seed Reader or Crawler Pool.
//
// A per-run registrable-domain LRU cache (hashicorp/golang-lru, already a
// teacher dependency) was considered here but not wired in: spec.md
// describes this stage as "minimally an identity forwarder", and adding
// deduplication would implement a policy the spec's Non-goals exclude
// ("deduplication of near-duplicate pages"). See SPEC_FULL §11.
//
// Grounded on original_source/src/services/site_pool.rs's SitePool, which
// does exactly this: receive, forward, nothing else.
type SiteAdmission struct {
	In     <-chan *url.URL
	Out    chan<- *url.URL
	Logger zerolog.Logger
}

// NewSiteAdmission constructs a SiteAdmission stage forwarding in to out.
func NewSiteAdmission(in <-chan *url.URL, out chan<- *url.URL, logger zerolog.Logger) *SiteAdmission {
	return &SiteAdmission{
		In:     in,
		Out:    out,
		Logger: logger.With().Str("component", "siteadmission").Logger(),
	}
}

// Run forwards every URL from In to Out, in order, until In is closed and
// drained, then closes Out (closure propagation per spec.md §5/§9).
func (a *SiteAdmission) Run(ctx context.Context) error {
	defer close(a.Out)

	for {
		select {
		case u, ok := <-a.In:
			if !ok {
				return nil
			}
			select {
			case a.Out <- u:
			case <-ctx.Done():
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}
