package database

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are IF NOT EXISTS so startup stays idempotent against an
// already-provisioned database.
var schema = []struct {
	table string
	ddl   string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			phone VARCHAR(20),
			address TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`},
	{"products", `
		CREATE TABLE IF NOT EXISTS products (
			id SERIAL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description TEXT,
			price DECIMAL(10,2) NOT NULL,
			category VARCHAR(50),
			image_url VARCHAR(255),
			flash_sale BOOLEAN DEFAULT false,
			stock INTEGER DEFAULT 100,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`},
	{"cart", `
		CREATE TABLE IF NOT EXISTS cart (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL,
			product_name VARCHAR(100) NOT NULL,
			product_price DECIMAL(10,2) NOT NULL,
			product_image VARCHAR(255),
			quantity INTEGER DEFAULT 1,
			added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`},
	{"orders", `
		CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
			total_amount DECIMAL(10,2) NOT NULL,
			status VARCHAR(20) DEFAULT 'pending',
			shipping_address TEXT,
			payment_method VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`},
	{"order_items", `
		CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INTEGER REFERENCES orders(id) ON DELETE CASCADE,
			product_id INTEGER NOT NULL,
			product_name VARCHAR(100) NOT NULL,
			product_price DECIMAL(10,2) NOT NULL,
			quantity INTEGER NOT NULL,
			subtotal DECIMAL(10,2) GENERATED ALWAYS AS (product_price * quantity) STORED
		)`},
}

// EnsureSchema creates the five tables if they are absent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, s := range schema {
		if _, err := pool.Exec(ctx, s.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", s.table, err)
		}
		log.Printf("[db] ensured table %s", s.table)
	}
	return nil
}
