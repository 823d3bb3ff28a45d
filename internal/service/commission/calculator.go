package commission

import (
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
)

type CalculatorImpl struct {
	rate decimal.Decimal
}

func NewCalculator(rate decimal.Decimal) commission.Calculator {
	return &CalculatorImpl{rate: rate}
}

// Rate implements commission.Calculator.
func (c *CalculatorImpl) Rate() decimal.Decimal {
	return c.rate
}

// Calculate implements commission.Calculator.
func (c *CalculatorImpl) Calculate(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.rate)
}

// Total implements commission.Calculator.
// Lines without a positive stored commission fall back to Calculate.
func (c *CalculatorImpl) Total(lines []commission.Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.Commission.IsPositive() {
			total = total.Add(line.Commission)
			continue
		}
		total = total.Add(c.Calculate(line.Amount))
	}
	return total
}
