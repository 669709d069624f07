package migrations

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

const migrationsDir = "data/sql/migrations"

// ForDialect returns the star_records migrations for dialect. Postgres files
// live at the tree root and the sqlite alternatives under sqlite/.
func ForDialect(dialect string) (fs.FS, error) {
	dir := migrationsDir
	switch dialect {
	case DialectPostgres:
	case DialectSQLite:
		dir = path.Join(migrationsDir, DialectSQLite)
	default:
		return nil, fmt.Errorf("migrations: unsupported dialect %q", dialect)
	}

	sub, err := fs.Sub(FS(), dir)
	if err != nil {
		return nil, fmt.Errorf("migrations: resolve %s filesystem: %w", dialect, err)
	}
	matches, err := fs.Glob(sub, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("migrations: glob %s: %w", dir, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("migrations: %s filesystem %q has no *.up.sql files", dialect, dir)
	}
	return sub, nil
}

// DialectForDriver maps a database/sql driver name to its migration dialect.
func DialectForDriver(driver string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(driver)) {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "postgres", "postgresql", "pgx":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("migrations: unsupported driver %q", driver)
	}
}
