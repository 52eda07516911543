// Command seed-db applies migrations and loads development fixtures: an admin
// account, a sample restaurant, and a starter drink catalog. All inserts are
// idempotent so the command can run against a non-empty database.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/shakehq/milkshake-api/internal/repository"
)

func main() {
	var (
		databaseURL   string
		adminEmail    string
		adminPassword string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&adminEmail, "admin-email", "admin@shakehq.example", "admin account email")
	flag.StringVar(&adminPassword, "admin-password", "", "admin account password (or SHAKE_SEED_ADMIN_PASSWORD env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if adminPassword == "" {
		adminPassword = os.Getenv("SHAKE_SEED_ADMIN_PASSWORD")
	}
	if adminPassword == "" {
		slog.Error("admin password is required: set --admin-password or SHAKE_SEED_ADMIN_PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, adminEmail, adminPassword); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, adminEmail, adminPassword string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	if err := seedAdmin(ctx, pool, adminEmail, adminPassword); err != nil {
		return errors.Wrap(err, "seed admin")
	}
	if err := seedRestaurant(ctx, pool); err != nil {
		return errors.Wrap(err, "seed restaurant")
	}
	if err := seedCatalog(ctx, pool); err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	return nil
}

func seedAdmin(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	slog.Info("seeding admin account", slog.String("email", email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO customers (full_name, email, password_hash, role)
		VALUES ('Administrator', $1, $2, 'admin')
		ON CONFLICT (email) DO NOTHING`,
		email, string(hash),
	)
	return err
}

func seedRestaurant(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding sample restaurant")

	// 08:00 to 20:00, matching the default availability window.
	_, err := pool.Exec(ctx, `
		INSERT INTO restaurants (name, address, phone_number, opening_time, closing_time)
		SELECT 'ShakeHQ Central', '1 Milkshake Lane', '+27 21 000 0000', 480, 1200
		WHERE NOT EXISTS (SELECT 1 FROM restaurants WHERE name = 'ShakeHQ Central')`)
	return err
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("seeding starter catalog")

	items := []struct {
		name     string
		category string
		price    decimal.Decimal
	}{
		{"Chocolate", "Flavour", decimal.NewFromFloat(45.00)},
		{"Strawberry", "Flavour", decimal.NewFromFloat(42.50)},
		{"Vanilla", "Flavour", decimal.NewFromFloat(40.00)},
		{"Oreo Crumble", "Topping", decimal.NewFromFloat(12.00)},
		{"Caramel Drizzle", "Topping", decimal.NewFromFloat(8.50)},
		{"Plain", "Topping", decimal.Zero},
		{"Thick", "Consistency", decimal.NewFromFloat(5.00)},
		{"Regular", "Consistency", decimal.Zero},
	}

	for _, it := range items {
		_, err := pool.Exec(ctx, `
			INSERT INTO lookups (name, category, price)
			SELECT $1, $2, $3
			WHERE NOT EXISTS (
				SELECT 1 FROM lookups WHERE name = $1 AND category = $2 AND active)`,
			it.name, it.category, it.price,
		)
		if err != nil {
			return errors.Wrapf(err, "insert %s %s", it.category, it.name)
		}
		slog.Info("seeded catalog item", slog.String("category", it.category), slog.String("name", it.name))
	}
	return nil
}
