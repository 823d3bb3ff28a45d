package report

import "context"

type ReportService interface {
	// DailySalesSummary covers sales with sold_at on date (YYYY-MM-DD)
	DailySalesSummary(ctx context.Context, date string) (DailySalesSummary, error)

	// SellerDailySummary fails with an error wrapping ErrInvalidArgument
	// when the seller does not exist
	SellerDailySummary(ctx context.Context, sellerID int64, date string) (SellerDailySummary, error)
}
