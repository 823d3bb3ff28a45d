package sale

import (
	"context"
	"time"
)

// All time ranges are half-open: [from, to).
type SaleRepository interface {
	// Create persists the sale and notifies the registered observers once
	// the write is committed
	Create(ctx context.Context, newSale Sale) (Sale, error)

	// GetByID loads the sale with its seller, ErrSaleNotFound when missing
	GetByID(ctx context.Context, id int64) (Sale, error)

	// List pages all sales by id desc, each with its seller
	List(ctx context.Context, page, perPage int) ([]Sale, int64, error)

	// ListBySeller pages a seller's sales by id desc
	ListBySeller(ctx context.Context, filter SellerSalesFilter) ([]Sale, int64, error)

	ListBySellerCreatedBetween(ctx context.Context, sellerID int64, from, to time.Time) ([]Sale, error)
	ListSoldBetween(ctx context.Context, from, to time.Time) ([]Sale, error)
	ListBySellerSoldBetween(ctx context.Context, sellerID int64, from, to time.Time) ([]Sale, error)

	Totals(ctx context.Context, filter TotalsFilter) (Totals, error)
}
