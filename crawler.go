package indexer

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultNumCrawlers is the default Crawler Pool size (spec.md §4.3,
// confirmed by original_source/src/main.rs's `0..10` crawler loop).
const DefaultNumCrawlers = 10

// CrawlerPool is stage 3 of the pipeline (spec.md §4.3): a fixed pool of N
// workers sharing In as a work queue. Each worker dequeues one site URL,
// opens a Session against the external Spider, forwards every delivered
// Page onto Out, and Acks each page to the spider's completion-tick
// watermark (SPEC_FULL §14.3). Grounded on the teacher's FetchManager
// (fetcher.go): a fixed goroutine pool reading from a shared channel, with
// per-worker failure isolated to the one URL being processed.
type CrawlerPool struct {
	NumWorkers int
	Spider     Spider
	In         <-chan *url.URL
	Out        chan<- Page
	Logger     zerolog.Logger
}

// NewCrawlerPool constructs a CrawlerPool of numWorkers workers driving
// spider, reading site URLs from in and emitting pages onto out. numWorkers
// <= 0 is normalized to DefaultNumCrawlers.
func NewCrawlerPool(numWorkers int, spider Spider, in <-chan *url.URL, out chan<- Page, logger zerolog.Logger) *CrawlerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultNumCrawlers
	}
	return &CrawlerPool{
		NumWorkers: numWorkers,
		Spider:     spider,
		In:         in,
		Out:        out,
		Logger:     logger.With().Str("component", "crawler").Logger(),
	}
}

// Run starts NumWorkers workers, each looping on In until it is closed and
// drained, then closes Out once every worker has returned (closure
// propagation per spec.md §5).
func (p *CrawlerPool) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(p.NumWorkers)
	for i := 0; i < p.NumWorkers; i++ {
		go func(workerID int) {
			defer wg.Done()
			p.worker(ctx, workerID)
		}(i)
	}
	wg.Wait()
	close(p.Out)
	return nil
}

func (p *CrawlerPool) worker(ctx context.Context, workerID int) {
	log := p.Logger.With().Int("worker", workerID).Logger()

	for {
		var site *url.URL
		select {
		case u, ok := <-p.In:
			if !ok {
				return
			}
			site = u
		case <-ctx.Done():
			return
		}

		if !p.crawlSite(ctx, site, log) {
			return
		}
	}
}

// crawlSite drives one site's Session to completion, forwarding every page
// it produces. Returns false if the pool should stop entirely (context
// canceled); an unrecoverable fetch failure for
// this one site only logs and returns true so the worker moves on (spec.md
// §4.3/§7: "an unrecoverable fetch for a given URL fails only that URL").
func (p *CrawlerPool) crawlSite(ctx context.Context, site *url.URL, log zerolog.Logger) bool {
	sess, err := p.Spider.Crawl(ctx, site)
	if err != nil {
		log.Error().Err(err).Str("site", site.String()).Msg("failed to start crawl session")
		return true
	}

	pages := sess.Pages()
	done := sess.Done()
	for {
		select {
		case page, ok := <-pages:
			if !ok {
				// A closed channel never blocks again; stop selecting it so
				// this loop waits on done instead of busy-spinning.
				pages = nil
				continue
			}
			select {
			case p.Out <- page:
				sess.Ack()
			case <-ctx.Done():
				return false
			}
		case <-done:
			if err := sess.Err(); err != nil {
				log.Error().Err(err).Str("site", site.String()).Msg("site crawl finished with error")
			}
			return true
		case <-ctx.Done():
			return false
		}
	}
}
