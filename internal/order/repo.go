package order

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound  = errors.New("order not found")
	ErrEmptyCart = errors.New("cart is empty")
)

type Repository interface {
	CreateFromCart(ctx context.Context, userID int64, shippingAddress, paymentMethod *string) (*Order, []Item, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	GetByID(ctx context.Context, id, userID int64) (*Order, []Item, error)
	Confirm(ctx context.Context, id, userID int64) (*Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const selectOrder = `
	SELECT id, user_id, total_amount::text, status, shipping_address, payment_method, created_at
	FROM orders
`

const selectItems = `
	SELECT id, order_id, product_id, product_name, product_price::text, quantity, subtotal::text
	FROM order_items
`

// cartRow is the snapshot read inside the assembly transaction.
type cartRow struct {
	productID   int64
	productName string
	price       string
	quantity    int
}

// CreateFromCart atomically converts the user's cart into an order plus
// line items and empties the cart. Either the fully-populated order exists
// and the cart is gone, or nothing changed at all.
func (r *PGRepo) CreateFromCart(ctx context.Context, userID int64, shippingAddress, paymentMethod *string) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Oldest rows first so line items keep the order items were added in.
	rows, err := tx.Query(ctx, `
		SELECT product_id, product_name, product_price::text, quantity
		FROM cart WHERE user_id=$1
		ORDER BY added_at ASC
	`, userID)
	if err != nil {
		return nil, nil, err
	}
	var cartRows []cartRow
	for rows.Next() {
		var cr cartRow
		if err := rows.Scan(&cr.productID, &cr.productName, &cr.price, &cr.quantity); err != nil {
			rows.Close()
			return nil, nil, err
		}
		cartRows = append(cartRows, cr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(cartRows) == 0 {
		return nil, nil, ErrEmptyCart
	}

	// Total from the price snapshots on the cart rows, not live product prices.
	total := decimal.Zero
	for _, cr := range cartRows {
		price, err := decimal.NewFromString(cr.price)
		if err != nil {
			return nil, nil, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(cr.quantity))))
	}

	var o Order
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (user_id, total_amount, status, shipping_address, payment_method)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, user_id, total_amount::text, status, shipping_address, payment_method, created_at
	`, userID, total.StringFixed(2), StatusPending, shippingAddress, paymentMethod).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress, &o.PaymentMethod, &o.CreatedAt)
	if err != nil {
		return nil, nil, err
	}

	items := make([]Item, 0, len(cartRows))
	for _, cr := range cartRows {
		var it Item
		err := tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity)
			VALUES ($1,$2,$3,$4,$5)
			RETURNING id, order_id, product_id, product_name, product_price::text, quantity, subtotal::text
		`, o.ID, cr.productID, cr.productName, cr.price, cr.quantity).
			Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductPrice, &it.Quantity, &it.Subtotal)
		if err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart WHERE user_id=$1`, userID); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}
	return &o, items, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, selectOrder+`WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress, &o.PaymentMethod, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// GetByID returns the order header plus items, gated on ownership: an order
// belonging to another user is indistinguishable from a missing one.
func (r *PGRepo) GetByID(ctx context.Context, id, userID int64) (*Order, []Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, selectOrder+`WHERE id=$1 AND user_id=$2`, id, userID).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress, &o.PaymentMethod, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	rows, err := r.db.Query(ctx, selectItems+`WHERE order_id=$1 ORDER BY id ASC`, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, nil, err
		}
		items = append(items, it)
	}
	return &o, items, rows.Err()
}

// Confirm transitions an order owned by userID from pending to completed.
// Single statement, no transaction needed.
func (r *PGRepo) Confirm(ctx context.Context, id, userID int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var o Order
	err := r.db.QueryRow(ctx, `
		UPDATE orders SET status=$3
		WHERE id=$1 AND user_id=$2
		RETURNING id, user_id, total_amount::text, status, shipping_address, payment_method, created_at
	`, id, userID, StatusCompleted).
		Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.ShippingAddress, &o.PaymentMethod, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}
