package order

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Order is immutable once created except for the pending -> completed
// status transition.
type Order struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	TotalAmount     string    `json:"total_amount"` // DECIMAL(10,2) -> text
	Status          string    `json:"status"`
	ShippingAddress *string   `json:"shipping_address"`
	PaymentMethod   *string   `json:"payment_method"`
	CreatedAt       time.Time `json:"created_at"`
}

// Item carries the product snapshot copied from the cart row that produced
// it. Subtotal is a stored generated column (price * quantity).
type Item struct {
	ID           int64  `json:"id"`
	OrderID      int64  `json:"order_id"`
	ProductID    int64  `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     string `json:"subtotal"`
}
