package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	saleRepo   sale.SaleRepository
	sellerRepo seller.SellerRepository
	loc        *time.Location
	now        func() time.Time
}

func NewDashboardService(saleRepo sale.SaleRepository, sellerRepo seller.SellerRepository, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardServiceImpl{
		saleRepo:   saleRepo,
		sellerRepo: sellerRepo,
		loc:        loc,
		now:        time.Now,
	}
}

// GetAllStats returns combined dashboard data using parallel goroutines
func (s *DashboardServiceImpl) GetAllStats(ctx context.Context) (*dashboard.DashboardResponse, error) {
	var (
		general      *dashboard.GeneralStatsResponse
		today        *dashboard.PeriodStatsResponse
		thisMonth    *dashboard.PeriodStatsResponse
		topSellers   []dashboard.TopSellerResponse
		salesByMonth []dashboard.MonthlySalesResponse
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		general, err = s.GetGeneralStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.GetTodayStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		thisMonth, err = s.GetThisMonthStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		topSellers, err = s.GetTopSellers(gctx, dashboard.DefaultTopSellersLimit)
		return err
	})
	g.Go(func() error {
		var err error
		salesByMonth, err = s.GetSalesByMonth(gctx, dashboard.DefaultMonths)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		General:      *general,
		Today:        *today,
		ThisMonth:    *thisMonth,
		TopSellers:   topSellers,
		SalesByMonth: salesByMonth,
	}, nil
}

// GetGeneralStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetGeneralStats(ctx context.Context) (*dashboard.GeneralStatsResponse, error) {
	sellers, err := s.sellerRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count sellers: %w", err)
	}
	totals, err := s.saleRepo.Totals(ctx, sale.TotalsFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to get sales totals: %w", err)
	}

	average := decimal.Zero
	if totals.Count > 0 {
		average = totals.Amount.Div(decimal.NewFromInt(totals.Count))
	}

	return &dashboard.GeneralStatsResponse{
		TotalSellers:               sellers,
		TotalSales:                 totals.Count,
		TotalSalesAmount:           money.Float(totals.Amount),
		FormattedTotalSalesAmount:  money.FormatCurrency(totals.Amount),
		TotalCommissions:           money.Float(totals.Commission),
		FormattedTotalCommissions:  money.FormatCurrency(totals.Commission),
		AverageSaleAmount:          money.Float(average),
		FormattedAverageSaleAmount: money.FormatCurrency(average),
	}, nil
}

// GetTodayStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetTodayStats(ctx context.Context) (*dashboard.PeriodStatsResponse, error) {
	start := utils.StartOfDay(s.now(), s.loc)
	end := start.AddDate(0, 0, 1)
	return s.periodStats(ctx, start, end)
}

// GetThisMonthStats implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetThisMonthStats(ctx context.Context) (*dashboard.PeriodStatsResponse, error) {
	now := s.now()
	// month start up to and including now
	return s.periodStats(ctx, utils.StartOfMonth(now, s.loc), now.Add(time.Nanosecond))
}

func (s *DashboardServiceImpl) periodStats(ctx context.Context, from, to time.Time) (*dashboard.PeriodStatsResponse, error) {
	totals, err := s.saleRepo.Totals(ctx, sale.TotalsFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to get sales totals: %w", err)
	}
	return &dashboard.PeriodStatsResponse{
		SalesCount:           totals.Count,
		SalesAmount:          money.Float(totals.Amount),
		FormattedSalesAmount: money.FormatCurrency(totals.Amount),
	}, nil
}

// GetTopSellers implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetTopSellers(ctx context.Context, limit int) ([]dashboard.TopSellerResponse, error) {
	if limit <= 0 {
		limit = dashboard.DefaultTopSellersLimit
	}

	rankings, err := s.sellerRepo.TopBySalesAmount(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank sellers: %w", err)
	}

	result := make([]dashboard.TopSellerResponse, 0, len(rankings))
	for _, r := range rankings {
		result = append(result, dashboard.TopSellerResponse{
			ID:                       r.ID,
			Name:                     r.Name,
			Email:                    r.Email,
			SalesCount:               r.SalesCount,
			TotalAmount:              money.Float(r.TotalAmount),
			FormattedTotalAmount:     money.FormatCurrency(r.TotalAmount),
			TotalCommission:          money.Float(r.TotalCommission),
			FormattedTotalCommission: money.FormatCurrency(r.TotalCommission),
		})
	}
	return result, nil
}

// GetSalesByMonth implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetSalesByMonth(ctx context.Context, months int) ([]dashboard.MonthlySalesResponse, error) {
	if months <= 0 {
		months = dashboard.DefaultMonths
	}

	current := utils.StartOfMonth(s.now(), s.loc)
	result := make([]dashboard.MonthlySalesResponse, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		totals, err := s.saleRepo.Totals(ctx, sale.TotalsFilter{From: &start, To: &end})
		if err != nil {
			return nil, fmt.Errorf("failed to get sales of %s: %w", start.Format("2006-01"), err)
		}

		result = append(result, dashboard.MonthlySalesResponse{
			Month:           start.Format("2006-01"),
			MonthName:       start.Format("Jan 2006"),
			SalesCount:      totals.Count,
			SalesAmount:     money.Float(totals.Amount),
			FormattedAmount: money.FormatCurrency(totals.Amount),
		})
	}
	return result, nil
}
