package notification

import "context"

// Task types of the commission mail queue
const (
	TaskSaleCommission        = "sale_commission"
	TaskDailySellerCommission = "daily_seller_commission"
	TaskDailyAdminSummary     = "daily_admin_summary"
)

// Dispatcher enqueues commission mails. It returns once the task is
// queued, never waiting for the mail itself.
type Dispatcher interface {
	DispatchSaleCommission(ctx context.Context, saleID int64) error
	DispatchDailySellerCommission(ctx context.Context, sellerID int64, date string) error
	DispatchDailyAdminSummary(ctx context.Context, date string, adminEmail string) error
}

type SaleCommissionPayload struct {
	SaleID int64 `json:"sale_id"`
}

type DailySellerCommissionPayload struct {
	SellerID int64  `json:"seller_id"`
	Date     string `json:"date"`
}

type DailyAdminSummaryPayload struct {
	Date       string `json:"date"`
	AdminEmail string `json:"admin_email"`
}
