package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiwari-pos/ordering/internal/config"
	"github.com/kiwari-pos/ordering/internal/database"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type seedItem struct {
	id          string
	name        string
	description string
	image       string
	cost        string
}

// Image keys are object names in the IMAGE_BUCKET storage bucket.
var defaultMenu = []seedItem{
	{"1", "Burger", "Beef patty, cheddar, pickles and house sauce", "burger.png", "5.00"},
	{"2", "Fries", "Crispy skin-on fries", "fries.png", "2.00"},
	{"3", "Chicken Wrap", "Grilled chicken, lettuce and garlic mayo", "chicken-wrap.png", "6.50"},
	{"4", "Lemonade", "Fresh squeezed, lightly sweetened", "lemonade.png", "2.50"},
}

func main() {
	migrateFirst := flag.Bool("migrate", false, "Apply migrations before seeding")
	flag.Parse()

	cfg := config.Load()
	log := logrus.New()

	if *migrateFirst {
		if err := database.Migrate(cfg.DatabaseURL); err != nil {
			log.WithError(err).Fatal("migrate")
		}
		log.Info("migrations applied")
	}

	// Connect to database
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("unable to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.WithError(err).Fatal("unable to ping database")
	}
	log.Info("connected to database")

	// Seed in a transaction: the whole menu or nothing
	tx, err := pool.Begin(ctx)
	if err != nil {
		log.WithError(err).Fatal("begin transaction")
	}
	defer tx.Rollback(ctx)

	if err := seedMenu(ctx, tx, log); err != nil {
		log.WithError(err).Fatal("seed menu")
	}

	if err := tx.Commit(ctx); err != nil {
		log.WithError(err).Fatal("commit")
	}
	log.WithField("items", len(defaultMenu)).Info("seed completed successfully")
}

// seedMenu upserts every default menu item, so reseeding is safe.
func seedMenu(ctx context.Context, tx pgx.Tx, log logrus.FieldLogger) error {
	q := database.New(tx)
	for _, it := range defaultMenu {
		cost, err := decimal.NewFromString(it.cost)
		if err != nil {
			return fmt.Errorf("item %s cost: %w", it.id, err)
		}
		row, err := q.CreateMenuItem(ctx, database.CreateMenuItemParams{
			ID:          it.id,
			Name:        it.name,
			Description: it.description,
			Image:       it.image,
			Cost:        database.DecimalToNumeric(cost),
		})
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", it.id, err)
		}
		log.WithFields(logrus.Fields{"id": row.ID, "name": row.Name, "cost": cost.StringFixed(2)}).Info("menu item seeded")
	}
	return nil
}
