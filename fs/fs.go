// Package fs exposes the application's embedded static assets:
// database migrations and email templates.
package fs

import "embed"

//go:embed migrations all:assets
var FS embed.FS
