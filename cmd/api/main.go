package main

import (
	"context"
	"log"

	"github.com/caffinity/caffinity-api/internal/cart"
	"github.com/caffinity/caffinity-api/internal/config"
	"github.com/caffinity/caffinity-api/internal/database"
	"github.com/caffinity/caffinity-api/internal/order"
	"github.com/caffinity/caffinity-api/internal/product"
	"github.com/caffinity/caffinity-api/internal/user"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("[main] database connection failed: %v", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("[main] schema setup failed: %v", err)
	}

	deps := appDeps{
		cfg:      cfg,
		users:    user.NewPGRepo(pool),
		products: product.NewPGRepo(pool),
		carts:    cart.NewPGRepo(pool),
		orders:   order.NewPGRepo(pool),
	}

	r := newRouter(deps)
	log.Printf("[main] caffinity-api listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("[main] server stopped: %v", err)
	}
}
