package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("cart item not found")

type Repository interface {
	ListByUser(ctx context.Context, userID int64) ([]Item, error)
	Add(ctx context.Context, it *Item) (updated bool, err error)
	UpdateQuantity(ctx context.Context, id int64, quantity int) (*Item, error)
	Remove(ctx context.Context, id int64) (*Item, error)
	Clear(ctx context.Context, userID int64) ([]Item, error)
	Summarize(ctx context.Context, userID int64) (Summary, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const returningItem = `id, user_id, product_id, product_name, product_price::text, product_image, quantity, added_at`

func (r *PGRepo) ListByUser(ctx context.Context, userID int64) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT `+returningItem+`
		FROM cart WHERE user_id=$1
		ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := scanItem(rows, &it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Add upserts a cart row. At most one row exists per (user, product): when a
// row is already present its quantity is incremented and its timestamp
// refreshed, otherwise a new row is inserted.
func (r *PGRepo) Add(ctx context.Context, it *Item) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var existingID int64
	err := r.db.QueryRow(ctx, `
		SELECT id FROM cart WHERE user_id=$1 AND product_id=$2
	`, it.UserID, it.ProductID).Scan(&existingID)
	switch {
	case err == nil:
		row := r.db.QueryRow(ctx, `
			UPDATE cart
			SET quantity = quantity + $1, added_at = CURRENT_TIMESTAMP
			WHERE id = $2
			RETURNING `+returningItem, it.Quantity, existingID)
		if err := scanItem(row, it); err != nil {
			return false, err
		}
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		row := r.db.QueryRow(ctx, `
			INSERT INTO cart (user_id, product_id, product_name, product_price, product_image, quantity)
			VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING `+returningItem,
			it.UserID, it.ProductID, it.ProductName, it.ProductPrice, it.ProductImage, it.Quantity)
		if err := scanItem(row, it); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, err
	}
}

func (r *PGRepo) UpdateQuantity(ctx context.Context, id int64, quantity int) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var it Item
	row := r.db.QueryRow(ctx, `
		UPDATE cart SET quantity=$1 WHERE id=$2
		RETURNING `+returningItem, quantity, id)
	if err := scanItem(row, &it); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) Remove(ctx context.Context, id int64) (*Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var it Item
	row := r.db.QueryRow(ctx, `
		DELETE FROM cart WHERE id=$1
		RETURNING `+returningItem, id)
	if err := scanItem(row, &it); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &it, nil
}

func (r *PGRepo) Clear(ctx context.Context, userID int64) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		DELETE FROM cart WHERE user_id=$1
		RETURNING `+returningItem, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := scanItem(rows, &it); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *PGRepo) Summarize(ctx context.Context, userID int64) (Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		s          Summary
		totalQty   *int
		totalPrice *string
	)
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), SUM(quantity), SUM(product_price * quantity)::text
		FROM cart WHERE user_id=$1
	`, userID).Scan(&s.TotalItems, &totalQty, &totalPrice)
	if err != nil {
		return Summary{}, err
	}
	if totalQty != nil {
		s.TotalQuantity = *totalQty
	}
	if totalPrice != nil {
		d, err := decimal.NewFromString(*totalPrice)
		if err != nil {
			return Summary{}, err
		}
		s.TotalPrice = d.InexactFloat64()
	}
	return s, nil
}

func scanItem(row pgx.Row, it *Item) error {
	return row.Scan(&it.ID, &it.UserID, &it.ProductID, &it.ProductName, &it.ProductPrice, &it.ProductImage, &it.Quantity, &it.AddedAt)
}
