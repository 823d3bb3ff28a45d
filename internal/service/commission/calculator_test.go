package commission

import (
	"testing"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/commission"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculator_Calculate(t *testing.T) {
	calc := NewCalculator(commission.DefaultRate)

	cases := []struct {
		amount string
		want   string
	}{
		{"1000", "85"},
		{"100", "8.5"},
		{"0.01", "0.00085"},
		{"0", "0"},
		{"-200", "-17"},
	}
	for _, c := range cases {
		got := calc.Calculate(dec(c.amount))
		assert.True(t, dec(c.want).Equal(got), "Calculate(%s) = %s, want %s", c.amount, got, c.want)
	}
}

func TestCalculator_CustomRate(t *testing.T) {
	calc := NewCalculator(dec("0.1"))

	assert.True(t, dec("0.1").Equal(calc.Rate()))
	assert.True(t, dec("100").Equal(calc.Calculate(dec("1000"))))
}

func TestCalculator_Total(t *testing.T) {
	calc := NewCalculator(commission.DefaultRate)

	t.Run("empty", func(t *testing.T) {
		assert.True(t, calc.Total(nil).IsZero())
		assert.True(t, calc.Total([]commission.Line{}).IsZero())
	})

	t.Run("stored commission preferred, missing one calculated", func(t *testing.T) {
		lines := []commission.Line{
			{Amount: dec("500"), Commission: dec("10")},
			{Amount: dec("100")},
		}
		assert.True(t, dec("18.5").Equal(calc.Total(lines)))
	})

	t.Run("non-positive stored commission falls back", func(t *testing.T) {
		lines := []commission.Line{
			{Amount: dec("1000"), Commission: dec("-1")},
		}
		assert.True(t, dec("85").Equal(calc.Total(lines)))
	})
}
