package database

import (
	"embed"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunGooseMigrations moves the database to the latest schema version.
// It panics on migration failure since the service cannot run against an
// unknown schema.
func RunGooseMigrations(logger *slog.Logger, pool *pgxpool.Pool) {

	if err := goose.SetDialect(string(goose.DialectPostgres)); err != nil {
		panic(err)
	}

	goose.SetBaseFS(migrationsFS)

	db := stdlib.OpenDBFromPool(pool)

	if err := goose.Up(db, "migrations"); err != nil {
		panic(err)
	}

	logger.Info("Migrations ran and were completed successfully")
}
