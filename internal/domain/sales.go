package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is an active voucher code with its validity window and the optional
// minimum order amount.
type Voucher struct {
	ID             int
	Code           string
	DiscountType   string
	DiscountValue  decimal.Decimal
	StartDate      time.Time
	EndDate        time.Time
	MinOrderAmount *decimal.Decimal
}

// Review is a product review written by a customer.
type Review struct {
	ProductID int    `json:"product_id"`
	UserID    int    `json:"user_id"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
}
