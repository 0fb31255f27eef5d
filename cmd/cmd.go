/*
Package cmd wires the five pipeline stages (spec.md §4) into a single
runnable process and exposes it as a cobra command.

This collapses the teacher's walker CLI (crawl/fetch/dispatch/seed/
schema/console/readlink subcommands, each with its own flags) down to one
command with no flags and no subcommands, per spec.md: configuration is
by environment variable only. What survives from the teacher is the
approach, not the surface: a package-level Execute() that blocks until
the pipeline completes or is interrupted, and package-level setters
(Spider, Store) that let a custom binary override either collaborator the
same way the teacher's Handler/Datastore/Dispatcher setters did.

	func main() {
		cmd.Execute()
	}
*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	indexer "github.com/iParadigms/indexer"
	"github.com/iParadigms/indexer/console"
	"github.com/iParadigms/indexer/spider"
	"github.com/iParadigms/indexer/store"
)

// Spider sets the global Spider for this process. If unset, Execute
// builds a spider.DefaultSpider.
func Spider(s indexer.Spider) {
	commander.Spider = s
}

// Store sets the global Store for this process. If unset, Execute
// connects to Postgres using the loaded Config and runs migrations.
func Store(s indexer.Store) {
	commander.Store = s
}

// Execute runs the command specified by the command line. There is
// exactly one command and it takes no flags; Execute exists, rather than
// calling run() directly from main, so custom binaries can still use
// cobra's argument handling (-h/--help, unknown-flag errors) the way the
// teacher's cmd.Execute() did.
func Execute() {
	if err := commander.Command.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var commander struct {
	Command *cobra.Command
	Spider  indexer.Spider
	Store   indexer.Store
}

func init() {
	commander.Command = &cobra.Command{
		Use:   "indexer",
		Short: "crawl seeded sites and build a TF-IDF keyword index",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
}

// run wires the pipeline end to end (spec.md §4) and blocks on the
// Indexer stage, mirroring original_source/src/main.rs's terminal-await
// shape: main's lifetime is the Indexer's Run call's lifetime.
func run() error {
	logger := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	cfg, err := indexer.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info().Msg("received shutdown signal, draining pipeline")
		cancel()
	}()

	db, closeStore, err := resolveStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	sp := commander.Spider
	if sp == nil {
		defaultSpider, err := spider.NewDefaultSpider(logger)
		if err != nil {
			return fmt.Errorf("constructing default spider: %w", err)
		}
		defaultSpider.PageBufferSize = cfg.PageBufferSize
		sp = defaultSpider
	}

	consoleSrv := console.NewServer(commander.Store, logger)
	go func() {
		if err := http.ListenAndServe(":6060", consoleSrv.Router()); err != nil {
			logger.Error().Err(err).Msg("console server stopped")
		}
	}()

	seedToSite := make(chan *url.URL, cfg.PageBufferSize)
	siteToCrawler := make(chan *url.URL, cfg.PageBufferSize)
	pagesToParser := make(chan indexer.Page, cfg.PageBufferSize)
	batchesToIndexer := make(chan indexer.TokenBatch, cfg.PageBufferSize)

	seedReader := indexer.NewSeedReader(cfg.SitesPath, seedToSite, logger)
	admission := indexer.NewSiteAdmission(seedToSite, siteToCrawler, logger)
	crawlers := indexer.NewCrawlerPool(cfg.NumCrawlers, sp, siteToCrawler, pagesToParser, logger)
	parser, err := indexer.NewParser(cfg.LemmatizerJSONPath, pagesToParser, batchesToIndexer, logger)
	if err != nil {
		return fmt.Errorf("constructing parser: %w", err)
	}
	ix := indexer.NewIndexer(batchesToIndexer, db, logger)

	var wg sync.WaitGroup
	runStage := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				logger.Error().Err(err).Str("stage", name).Msg("pipeline stage exited with error")
			}
		}()
	}

	runStage("seed_reader", seedReader.Run)
	runStage("site_admission", admission.Run)
	runStage("crawler_pool", crawlers.Run)
	runStage("parser", parser.Run)

	err = ix.Run(ctx)
	wg.Wait()
	return err
}

// resolveStore returns the configured Store (possibly overridden via
// Store()), connecting to Postgres and running migrations if it wasn't.
func resolveStore(ctx context.Context, cfg *indexer.Config, logger zerolog.Logger) (indexer.Store, func(), error) {
	if commander.Store != nil {
		return commander.Store, func() {}, nil
	}

	dsn := store.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUsername, cfg.DBPassword, cfg.DBDatabase)
	db, err := store.New(ctx, dsn, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	commander.Store = db
	return db, db.Close, nil
}
