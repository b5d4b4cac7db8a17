package postgres

import "embed"

// Migrations holds the embedded schema migration files for the reviews store.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the .up.sql files.
const MigrationsDir = "migrations"
