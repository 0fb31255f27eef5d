// Command indexer runs the crawl/parse/index pipeline described in
// spec.md §4. It takes no flags; every setting comes from the
// environment (see Config in config.go).
package main

import (
	"github.com/iParadigms/indexer/cmd"
)

func main() {
	cmd.Execute()
}
