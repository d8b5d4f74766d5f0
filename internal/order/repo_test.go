package order

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/caffinity/caffinity-api/internal/config"
	"github.com/caffinity/caffinity-api/internal/database"
)

func setupTestPool(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	pg, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	host, err := pg.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())
	pool, err := database.NewPool(ctx, config.Config{
		PostgresDSN:      dsn,
		DBMaxConns:       5,
		DBConnectTimeout: 5 * time.Second,
		DBConnIdleTime:   30 * time.Second,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	cleanup := func() {
		pool.Close()
		if err := pg.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}
	return pool, cleanup
}

func createTestUser(t *testing.T, pool *pgxpool.Pool, username string) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (username, email, password)
		VALUES ($1, $1 || '@example.com', 'x')
		RETURNING id
	`, username).Scan(&id)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return id
}

func addCartRow(t *testing.T, pool *pgxpool.Pool, userID, productID int64, name, price string, qty int, addedAt time.Time) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		INSERT INTO cart (user_id, product_id, product_name, product_price, quantity, added_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, userID, productID, name, price, qty, addedAt)
	if err != nil {
		t.Fatalf("add cart row: %v", err)
	}
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestCreateFromCart(t *testing.T) {
	pool, cleanup := setupTestPool(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, pool, "alice")
	base := time.Now().Add(-time.Hour)
	addCartRow(t, pool, userID, 1, "Kopi Susu", "18.50", 2, base)
	addCartRow(t, pool, userID, 2, "Croissant", "12.00", 1, base.Add(time.Minute))
	addCartRow(t, pool, userID, 3, "Americano", "5.25", 4, base.Add(2*time.Minute))

	repo := NewPGRepo(pool)
	ship := "Jl. Kenangan 1"
	o, items, err := repo.CreateFromCart(ctx, userID, &ship, nil)
	if err != nil {
		t.Fatalf("create from cart: %v", err)
	}

	// 18.50*2 + 12.00*1 + 5.25*4
	if o.TotalAmount != "70.00" {
		t.Errorf("total=%s, want 70.00", o.TotalAmount)
	}
	if o.Status != StatusPending {
		t.Errorf("status=%s, want pending", o.Status)
	}
	if o.ShippingAddress == nil || *o.ShippingAddress != ship {
		t.Errorf("shipping address=%v", o.ShippingAddress)
	}
	if o.PaymentMethod != nil {
		t.Errorf("payment method should be null, got %v", *o.PaymentMethod)
	}

	if len(items) != 3 {
		t.Fatalf("items=%d, want 3", len(items))
	}
	// Line items keep cart insertion order, oldest first.
	for i, wantProduct := range []int64{1, 2, 3} {
		if items[i].ProductID != wantProduct {
			t.Errorf("item %d product=%d, want %d", i, items[i].ProductID, wantProduct)
		}
	}
	if items[2].Subtotal != "21.00" {
		t.Errorf("subtotal=%s, want 21.00", items[2].Subtotal)
	}

	if n := countRows(t, pool, "cart"); n != 0 {
		t.Errorf("cart should be empty after assembly, has %d rows", n)
	}
	if n := countRows(t, pool, "orders"); n != 1 {
		t.Errorf("orders=%d, want 1", n)
	}
	if n := countRows(t, pool, "order_items"); n != 3 {
		t.Errorf("order_items=%d, want 3", n)
	}

	// A second assembly sees the emptied cart.
	if _, _, err := repo.CreateFromCart(ctx, userID, nil, nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("second assembly: err=%v, want ErrEmptyCart", err)
	}
}

func TestCreateFromCart_EmptyCart(t *testing.T) {
	pool, cleanup := setupTestPool(t)
	defer cleanup()

	userID := createTestUser(t, pool, "bob")
	repo := NewPGRepo(pool)

	_, _, err := repo.CreateFromCart(context.Background(), userID, nil, nil)
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("err=%v, want ErrEmptyCart", err)
	}
	if n := countRows(t, pool, "orders"); n != 0 {
		t.Errorf("orders=%d, want 0", n)
	}
	if n := countRows(t, pool, "order_items"); n != 0 {
		t.Errorf("order_items=%d, want 0", n)
	}
}

func TestCreateFromCart_RollsBackOnItemFailure(t *testing.T) {
	pool, cleanup := setupTestPool(t)
	defer cleanup()
	ctx := context.Background()

	userID := createTestUser(t, pool, "carol")
	base := time.Now().Add(-time.Hour)
	addCartRow(t, pool, userID, 1, "Kopi Susu", "18.50", 1, base)
	addCartRow(t, pool, userID, 2, "BOOM", "12.00", 1, base.Add(time.Minute))

	// Force the last item insert to fail after the first one succeeded.
	if _, err := pool.Exec(ctx, `ALTER TABLE order_items ADD CONSTRAINT reject_boom CHECK (product_name <> 'BOOM')`); err != nil {
		t.Fatalf("add constraint: %v", err)
	}

	repo := NewPGRepo(pool)
	_, _, err := repo.CreateFromCart(ctx, userID, nil, nil)
	if err == nil {
		t.Fatal("expected assembly to fail")
	}
	if errors.Is(err, ErrEmptyCart) {
		t.Fatalf("unexpected empty-cart error: %v", err)
	}

	// All-or-nothing: no partial order survives, cart untouched.
	if n := countRows(t, pool, "orders"); n != 0 {
		t.Errorf("orders=%d after rollback, want 0", n)
	}
	if n := countRows(t, pool, "order_items"); n != 0 {
		t.Errorf("order_items=%d after rollback, want 0", n)
	}
	if n := countRows(t, pool, "cart"); n != 2 {
		t.Errorf("cart=%d after rollback, want 2", n)
	}
}

func TestConfirm_OwnershipGate(t *testing.T) {
	pool, cleanup := setupTestPool(t)
	defer cleanup()
	ctx := context.Background()

	owner := createTestUser(t, pool, "dave")
	stranger := createTestUser(t, pool, "eve")
	addCartRow(t, pool, owner, 1, "Kopi Susu", "18.50", 1, time.Now())

	repo := NewPGRepo(pool)
	o, _, err := repo.CreateFromCart(ctx, owner, nil, nil)
	if err != nil {
		t.Fatalf("create from cart: %v", err)
	}

	if _, err := repo.Confirm(ctx, o.ID, stranger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("confirm by stranger: err=%v, want ErrNotFound", err)
	}

	got, _, err := repo.GetByID(ctx, o.ID, owner)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status=%s after rejected confirm, want pending", got.Status)
	}

	confirmed, err := repo.Confirm(ctx, o.ID, owner)
	if err != nil {
		t.Fatalf("confirm by owner: %v", err)
	}
	if confirmed.Status != StatusCompleted {
		t.Fatalf("status=%s, want completed", confirmed.Status)
	}
}
