package main

import (
	"context"
	"os"

	"github.com/centsible/centsible-backend/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type seedCategory struct {
	name      string
	appliesTo string
}

// Default categories created on a fresh installation. Inserts are
// idempotent; existing names are left untouched.
var defaultCategories = []seedCategory{
	{"Salary", "income"},
	{"Freelance", "income"},
	{"Investments", "income"},
	{"Gifts", "income"},
	{"Other Income", "income"},
	{"Groceries", "expense"},
	{"Rent", "expense"},
	{"Utilities", "expense"},
	{"Transport", "expense"},
	{"Dining Out", "expense"},
	{"Entertainment", "expense"},
	{"Health", "expense"},
	{"Shopping", "expense"},
	{"Travel", "expense"},
	{"Education", "expense"},
	{"Savings", "expense"},
	{"Other Expenses", "expense"},
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	seeded := 0
	for _, cat := range defaultCategories {
		tag, err := pool.Exec(context.Background(), `
			INSERT INTO categories (name, applies_to)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING`,
			cat.name, cat.appliesTo)
		if err != nil {
			log.Fatal().Err(err).Str("category", cat.name).Msg("Failed to seed category")
		}
		seeded += int(tag.RowsAffected())
	}

	log.Info().Int("created", seeded).Int("total", len(defaultCategories)).Msg("Category seed complete")
}
