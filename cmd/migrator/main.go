package main

import (
	"context"
	"log"

	"github.com/UnknownOlympus/glimpse/internal/config"
	"github.com/UnknownOlympus/glimpse/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	cfg := config.MustLoad()
	if cfg.Storage.Driver != config.DriverPostgres {
		log.Fatalf("migrations only apply to the postgres driver, configured driver is %q", cfg.Storage.Driver)
	}

	pg := cfg.Storage.Postgres
	dbpool, dbErr := repository.NewDatabase(
		context.Background(), repository.PostgresURL(pg.Host, pg.Port, pg.User, pg.Password, pg.Dbname))
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	dtb := stdlib.OpenDBFromPool(dbpool)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal(err) //nolint:gocritic // pool is closed on exit anyway
	}
	if migrationErr := goose.Up(dtb, "migrations"); migrationErr != nil {
		log.Fatal(migrationErr)
	}

	log.Println("✅ Migrations applied successfully")
}
