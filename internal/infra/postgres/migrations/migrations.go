package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema history applied by `cyberguard migrate`.
var Migrations = migrate.NewMigrations()
