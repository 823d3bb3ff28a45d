package sale

import (
	"context"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/pagination"
	"github.com/shopspring/decimal"
)

type SaleService interface {
	// Create rejects non-positive amounts with ErrInvalidSaleAmount and
	// unknown sellers with seller.ErrSellerNotFound
	Create(ctx context.Context, sellerID int64, amount decimal.Decimal, soldAt time.Time) (Sale, error)

	GetByID(ctx context.Context, id int64) (Sale, error)
	List(ctx context.Context, req ListSalesRequest) (pagination.Page[Sale], error)
	ListBySeller(ctx context.Context, req ListSellerSalesRequest) (pagination.Page[Sale], error)

	// DailySummaryForSeller is never cached
	DailySummaryForSeller(ctx context.Context, sellerID int64, date string) (SellerDaySummary, error)

	// ResendSaleCommission enqueues the commission mail of an existing sale again
	ResendSaleCommission(ctx context.Context, saleID int64) error
}
