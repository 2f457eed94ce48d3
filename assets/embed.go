// apps/go-server/assets/embed.go
//
// Files compiled into the server binary.
// Provides:
//   - bank.yaml: the default question bank and card symbols.
//   - sql/<dialect>/*.sql: schema migrations, one directory per database.

package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed bank.yaml sql
var FS embed.FS

// DefaultBank returns the raw embedded bank document.
func DefaultBank() ([]byte, error) {
	return FS.ReadFile("bank.yaml")
}

// Migrations returns the migration files for a dialect ("sqlite" or "postgres").
func Migrations(dialect string) (fs.FS, error) {
	dir := "sql/" + dialect
	if _, err := fs.Stat(FS, dir); err != nil {
		return nil, fmt.Errorf("no migrations for %q: %w", dialect, err)
	}
	return fs.Sub(FS, dir)
}
