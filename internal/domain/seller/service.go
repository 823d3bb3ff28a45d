package seller

import (
	"context"

	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/pagination"
)

type SellerService interface {
	Create(ctx context.Context, req CreateSellerRequest) (Seller, error)
	GetByID(ctx context.Context, id int64) (Seller, error)
	List(ctx context.Context, req ListSellersRequest) (pagination.Page[SellerWithSales], error)

	// ResendCommission enqueues the daily commission mail of one seller.
	// An empty date means today.
	ResendCommission(ctx context.Context, sellerID int64, date string) (ResendCommissionResponse, error)

	// RunDailyMails enqueues the daily commission mail of every seller and
	// the admin summary. An empty date means today.
	RunDailyMails(ctx context.Context, date string) (RunDailyMailsResponse, error)
}
