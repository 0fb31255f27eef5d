// Package migrations embeds the goose SQL migrations implementing the
// schema contract of spec.md §6.
package migrations

import "embed"

// FS is passed to goose.SetBaseFS, mirroring
// lueurxax-TelegramDigestBot/migrations's embed pattern.
//
//go:embed *.sql
var FS embed.FS
