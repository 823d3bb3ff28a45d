package sale

import (
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/shopspring/decimal"
)

type Sale struct {
	ID               int64
	SellerID         int64
	Amount           decimal.Decimal
	CommissionAmount decimal.Decimal
	SoldAt           time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Join
	Seller *seller.Seller
}

// CommissionLine feeds the sale to a commission.Calculator
func (s Sale) CommissionLine() commission.Line {
	return commission.Line{
		Amount:     s.Amount,
		Commission: s.CommissionAmount,
	}
}

// CommissionLines converts sales for commission.Calculator.Total
func CommissionLines(sales []Sale) []commission.Line {
	lines := make([]commission.Line, len(sales))
	for i, s := range sales {
		lines[i] = s.CommissionLine()
	}
	return lines
}

// Totals is the aggregate of a set of sales
type Totals struct {
	Count      int64
	Amount     decimal.Decimal
	Commission decimal.Decimal
}

// TotalsFilter bounds sold_at to [From, To). Nil bounds are open.
type TotalsFilter struct {
	From *time.Time
	To   *time.Time
}

// SellerSalesFilter pages the sales of one seller, optionally restricted
// to records created within [CreatedFrom, CreatedTo)
type SellerSalesFilter struct {
	SellerID    int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	PerPage     int
}

// SellerDaySummary is a seller's activity on one day
type SellerDaySummary struct {
	Seller      seller.Seller
	Date        string
	Count       int
	TotalAmount decimal.Decimal
	Commission  decimal.Decimal
}
