package indexer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/rs/zerolog"
)

// expectedSeedHeader is the fixed header row spec.md §4.1/§6 requires: the
// seed CSV's first row must read exactly "rank,root_domain".
var expectedSeedHeader = []string{"rank", "root_domain"}

// SeedReader is stage 1 of the pipeline (spec.md §4.1): it streams the seed
// list from a CSV file and emits one normalized absolute URL per row onto
// its output channel, closing that channel when the file is exhausted.
//
// Grounded on original_source/src/services/file_reader.rs's FileReader,
// adapted to Go's encoding/csv instead of csv_async, and on the teacher's
// "one cooperative producer stage" shape (dispatcher.go's domainIterator).
type SeedReader struct {
	Path   string
	Out    chan<- *url.URL
	Logger zerolog.Logger
}

// NewSeedReader constructs a SeedReader that will read path and emit onto
// out. out is closed by Run when the file is exhausted.
func NewSeedReader(path string, out chan<- *url.URL, logger zerolog.Logger) *SeedReader {
	return &SeedReader{
		Path:   path,
		Out:    out,
		Logger: logger.With().Str("component", "seedreader").Logger(),
	}
}

// Run opens the seed CSV and streams it to Out until exhausted or ctx is
// canceled. A file-open error is returned immediately (startup-fatal, per
// spec.md §7); per-row parse errors are logged and skipped (non-fatal).
func (s *SeedReader) Run(ctx context.Context) error {
	defer close(s.Out)

	f, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("opening seed file %q: %w", s.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading seed file header: %w", err)
	}
	if header[0] != expectedSeedHeader[0] || header[1] != expectedSeedHeader[1] {
		return fmt.Errorf("unexpected seed file header %v, want %v", header, expectedSeedHeader)
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			s.Logger.Error().Err(err).Msg("malformed seed row, skipping")
			continue
		}

		u, err := ParseSeedURL(row[1])
		if err != nil {
			s.Logger.Error().Err(err).Str("root_domain", row[1]).Msg("could not parse seed domain, skipping")
			continue
		}

		select {
		case s.Out <- u:
		case <-ctx.Done():
			return nil
		}
	}
}
