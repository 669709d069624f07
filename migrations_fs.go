package stargazer

import (
	"io/fs"

	"github.com/goliatone/go-stargazer/migrations"
)

// GetMigrationsFS returns the embedded migration tree, rooted so that
// data/sql/migrations holds the postgres files and data/sql/migrations/sqlite
// the sqlite alternatives.
func GetMigrationsFS() fs.FS {
	return migrations.FS()
}
