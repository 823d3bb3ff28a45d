package notification

import (
	"context"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
)

// Sender delivers commission mails. Every method reports success and logs
// its own failures instead of returning them.
type Sender interface {
	// SendSaleCommission mails the seller attached to s
	SendSaleCommission(ctx context.Context, s sale.Sale) bool
	SendDailySellerCommission(ctx context.Context, summary report.SellerDailySummary) bool
	SendDailyAdminSummary(ctx context.Context, to string, summary report.DailySalesSummary) bool
}
