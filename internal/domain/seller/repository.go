package seller

import "context"

type SellerRepository interface {
	Create(ctx context.Context, newSeller Seller) (Seller, error)

	// GetByID returns ErrSellerNotFound when id does not resolve
	GetByID(ctx context.Context, id int64) (Seller, error)

	// ExistsByEmail expects a normalized email
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// ListWithSales pages sellers by id desc, each with all of its sales
	ListWithSales(ctx context.Context, page, perPage int) ([]SellerWithSales, int64, error)

	ListIDs(ctx context.Context) ([]int64, error)
	Count(ctx context.Context) (int64, error)

	// TopBySalesAmount ranks by total amount desc, then seller id asc
	TopBySalesAmount(ctx context.Context, limit int) ([]Ranking, error)
}
