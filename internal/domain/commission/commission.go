package commission

import "github.com/shopspring/decimal"

// DefaultRate is the commission paid on every sale (8.5%)
var DefaultRate = decimal.RequireFromString("0.085")

// Line is a sale-like record. A zero Commission means none was stored.
type Line struct {
	Amount     decimal.Decimal
	Commission decimal.Decimal
}

type Calculator interface {
	// Rate returns the rate the calculator was built with
	Rate() decimal.Decimal

	// Calculate returns amount * rate, for any amount
	Calculate(amount decimal.Decimal) decimal.Decimal

	// Total sums stored commissions, calculating the missing ones
	Total(lines []Line) decimal.Decimal
}
