// Package db provides embedded database schema and seed files.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// Seed contains idempotent seed rows: the discount tier ladder and the
// runtime configuration defaults.
//
//go:embed migrations/002_seed.sql
var Seed string
