package product

import "time"

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	// Price is DECIMAL(10,2) in postgres; scanned as text to avoid
	// floating-point rounding.
	Price     string    `json:"price"`
	Category  *string   `json:"category"`
	ImageURL  *string   `json:"image_url"`
	FlashSale bool      `json:"flash_sale"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
}
