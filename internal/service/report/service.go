package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	saleRepo   sale.SaleRepository
	sellerRepo seller.SellerRepository
	calculator commission.Calculator
	loc        *time.Location
}

func NewReportService(saleRepo sale.SaleRepository, sellerRepo seller.SellerRepository, calculator commission.Calculator, loc *time.Location) report.ReportService {
	if loc == nil {
		loc = time.Local
	}
	return &ReportServiceImpl{
		saleRepo:   saleRepo,
		sellerRepo: sellerRepo,
		calculator: calculator,
		loc:        loc,
	}
}

// DailySalesSummary implements report.ReportService.
func (s *ReportServiceImpl) DailySalesSummary(ctx context.Context, date string) (report.DailySalesSummary, error) {
	from, to, err := utils.DayBounds(date, s.loc)
	if err != nil {
		return report.DailySalesSummary{}, err
	}

	sales, err := s.saleRepo.ListSoldBetween(ctx, from, to)
	if err != nil {
		return report.DailySalesSummary{}, fmt.Errorf("failed to load sales of %s: %w", date, err)
	}

	total := sumAmounts(sales)
	average := decimal.Zero
	if len(sales) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(sales))))
	}

	return report.DailySalesSummary{
		Date:        date,
		TotalSales:  len(sales),
		TotalAmount: total,
		AverageSale: average,
		Sales:       sales,
	}, nil
}

// SellerDailySummary implements report.ReportService.
func (s *ReportServiceImpl) SellerDailySummary(ctx context.Context, sellerID int64, date string) (report.SellerDailySummary, error) {
	owner, err := s.sellerRepo.GetByID(ctx, sellerID)
	if errors.Is(err, seller.ErrSellerNotFound) {
		return report.SellerDailySummary{}, fmt.Errorf("%w: seller %d not found", report.ErrInvalidArgument, sellerID)
	}
	if err != nil {
		return report.SellerDailySummary{}, fmt.Errorf("failed to load seller: %w", err)
	}

	from, to, err := utils.DayBounds(date, s.loc)
	if err != nil {
		return report.SellerDailySummary{}, err
	}

	sales, err := s.saleRepo.ListBySellerSoldBetween(ctx, sellerID, from, to)
	if err != nil {
		return report.SellerDailySummary{}, fmt.Errorf("failed to load seller %d sales of %s: %w", sellerID, date, err)
	}

	return report.SellerDailySummary{
		Seller:      owner,
		Date:        date,
		Count:       len(sales),
		TotalAmount: sumAmounts(sales),
		Commission:  s.calculator.Total(sale.CommissionLines(sales)),
		Sales:       sales,
	}, nil
}

func sumAmounts(sales []sale.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, item := range sales {
		total = total.Add(item.Amount)
	}
	return total
}
