package seller

import (
	"time"

	"github.com/shopspring/decimal"
)

type Seller struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SaleLine is a sale as listed under its seller
type SaleLine struct {
	ID               int64
	SellerID         int64
	Amount           decimal.Decimal
	CommissionAmount decimal.Decimal
	SoldAt           time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type SellerWithSales struct {
	Seller
	Sales []SaleLine
}

// Ranking aggregates a seller's sales for the top sellers board
type Ranking struct {
	Seller
	SalesCount      int64
	TotalAmount     decimal.Decimal
	TotalCommission decimal.Decimal
}
