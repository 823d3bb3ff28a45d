package dashboard

import "context"

const (
	DefaultTopSellersLimit = 5
	DefaultMonths          = 6
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetAllStats returns combined dashboard data using goroutines
	GetAllStats(ctx context.Context) (*DashboardResponse, error)

	GetGeneralStats(ctx context.Context) (*GeneralStatsResponse, error)

	// GetTodayStats covers the current calendar day
	GetTodayStats(ctx context.Context) (*PeriodStatsResponse, error)

	// GetThisMonthStats covers the first day of the month up to now
	GetThisMonthStats(ctx context.Context) (*PeriodStatsResponse, error)

	// GetTopSellers ranks sellers by total sale amount, at most limit entries
	GetTopSellers(ctx context.Context, limit int) ([]TopSellerResponse, error)

	// GetSalesByMonth returns exactly months entries, oldest first, ending
	// with the current month
	GetSalesByMonth(ctx context.Context, months int) ([]MonthlySalesResponse, error)
}
