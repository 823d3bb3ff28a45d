package report

import (
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/shopspring/decimal"
)

// DailySalesSummary aggregates every sale sold on Date
type DailySalesSummary struct {
	Date        string
	TotalSales  int
	TotalAmount decimal.Decimal
	AverageSale decimal.Decimal
	Sales       []sale.Sale
}

// SellerDailySummary aggregates one seller's sales sold on Date
type SellerDailySummary struct {
	Seller      seller.Seller
	Date        string
	Count       int
	TotalAmount decimal.Decimal
	Commission  decimal.Decimal
	Sales       []sale.Sale
}
