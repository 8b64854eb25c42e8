package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4"

	"soulsync/internal/config"
	"soulsync/internal/domain/ports/repository"
	pg "soulsync/internal/infra/db/postgres"
	"soulsync/internal/infra/logging"
	"soulsync/internal/wellness"
)

// seed applies the schema and loads the wellness exercise catalog. Running it
// twice is safe.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	schema := flag.String("schema", "deploy/postgres/init.sql", "schema file to apply; empty skips it")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	if *schema != "" {
		ddl, err := os.ReadFile(*schema)
		if err != nil {
			log.Fatal().Err(err).Str("file", *schema).Msg("read schema")
		}
		// no arguments: pgx sends it over the simple protocol, so the file may
		// hold several statements.
		if _, err := pool.Exec(ctx, string(ddl)); err != nil {
			log.Fatal().Err(err).Msg("apply schema")
		}
		log.Info().Str("file", *schema).Msg("schema applied")
	}

	exercises, err := wellness.Default()
	if err != nil {
		log.Fatal().Err(err).Msg("wellness catalog")
	}
	repo := pg.NewPostgresWellnessRepo(pool)
	tm := pg.NewTxManager(pool)
	err = tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		for _, e := range exercises {
			if err := repo.Upsert(ctx, tx, e); err != nil {
				return fmt.Errorf("upsert %s: %w", e.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("seed wellness")
	}
	log.Info().Int("exercises", len(exercises)).Msg("seeding complete")
}
