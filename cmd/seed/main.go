// Command seed loads a small demo dataset into the configured database.
// It runs pending migrations first, so it works against a fresh instance.
package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"orgapi/application/services"
	"orgapi/infrastructure/config"
	"orgapi/infrastructure/di"
	"orgapi/infrastructure/persistence/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container := di.BuildContainer(cfg)

	logger := di.MustResolve[*zap.Logger](container)
	defer func() { _ = logger.Sync() }()

	pool, err := di.Resolve[*pgxpool.Pool](container)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := seed(ctx, container, logger); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Info("Seeding complete")
}

func seed(ctx context.Context, c *di.Container, logger *zap.Logger) error {
	orgs := di.MustResolve[*services.OrganizationService](c)
	users := di.MustResolve[*services.UserService](c)
	orders := di.MustResolve[*services.OrderService](c)

	acme, err := orgs.Create(ctx, services.CreateOrganizationInput{
		Name:        "Acme Corporation",
		Industry:    "Manufacturing",
		DateFounded: time.Date(1987, 3, 14, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return err
	}

	globex, err := orgs.Create(ctx, services.CreateOrganizationInput{
		Name:        "Globex",
		Industry:    "Energy",
		DateFounded: time.Date(1999, 11, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return err
	}

	ada, err := users.Create(ctx, services.CreateUserInput{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@acme.example",
		OrganizationID: acme.ID,
	})
	if err != nil {
		return err
	}

	grace, err := users.Create(ctx, services.CreateUserInput{
		FirstName:      "Grace",
		LastName:       "Hopper",
		Email:          "grace@globex.example",
		OrganizationID: globex.ID,
	})
	if err != nil {
		return err
	}

	amounts := map[string][]float64{
		ada.ID:   {125.50, 980.00},
		grace.ID: {42.75},
	}
	for userID, totals := range amounts {
		for _, total := range totals {
			if _, err := orders.Create(ctx, services.CreateOrderInput{
				UserID:      userID,
				TotalAmount: total,
			}); err != nil {
				return err
			}
		}
	}

	logger.Info("Inserted demo data",
		zap.Int("organizations", 2),
		zap.Int("users", 2),
		zap.Int("orders", 3),
	)
	return nil
}
