package postgres

import (
	"embed"
	"fmt"
	"strings"

	pkgpg "github.com/the-lost-phoenix/credit-risk-engine/pkg/postgres"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies the schema migrations. When dir is empty the migrations
// embedded in the binary are used.
func Migrate(dsn, dir string) error {
	if dir == "" {
		return pkgpg.RunMigrationsFS(dsn, migrationFS, "migrations")
	}
	if !strings.Contains(dir, "://") {
		dir = "file://" + dir
	}
	if err := pkgpg.RunMigrations(dsn, dir); err != nil {
		return fmt.Errorf("migrate from %s: %w", dir, err)
	}
	return nil
}
