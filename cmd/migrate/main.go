package main

// Run usage ledger migrations:
//   go run ./cmd/migrate            (DATABASE_URL, Postgres)
//   SQLITE_PATH=usage.db go run ./cmd/migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"star-backend/internal/shared/config"
	"star-backend/internal/shared/storage/db"
)

func main() {
	if err := run(context.Background(), config.Load()); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	var (
		sqlDB   *sql.DB
		dialect string
		err     error
	)
	switch {
	case cfg.DatabaseURL != "":
		dialect = db.DialectPostgres
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	case cfg.SQLitePath != "":
		dialect = db.DialectSQLite
		sqlDB, err = db.OpenSQLite(ctx, cfg.SQLitePath)
	default:
		return errors.New("DATABASE_URL or SQLITE_PATH is required")
	}
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	log.Printf("migrations applied (%s)", dialect)
	return nil
}
