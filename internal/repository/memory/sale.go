package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/shopspring/decimal"
)

type saleRepository struct {
	store     *Store
	observers []sale.Observer
}

// NewSaleRepository notifies observers of every created sale after commit
func NewSaleRepository(store *Store, observers ...sale.Observer) sale.SaleRepository {
	return &saleRepository{store: store, observers: observers}
}

func (r *saleRepository) Create(ctx context.Context, newSale sale.Sale) (sale.Sale, error) {
	s := r.store
	s.mu.Lock()
	if _, ok := s.sellers[newSale.SellerID]; !ok {
		s.mu.Unlock()
		return sale.Sale{}, seller.ErrSellerNotFound
	}
	s.nextSaleID++
	now := s.now()
	newSale.ID = s.nextSaleID
	newSale.CreatedAt = now
	newSale.UpdatedAt = now
	newSale.Seller = nil
	s.sales[newSale.ID] = newSale
	s.mu.Unlock()

	created := newSale
	afterCommit(ctx, func() {
		sale.NotifyCreated(ctx, r.observers, created)
	})
	return created, nil
}

func (r *saleRepository) GetByID(_ context.Context, id int64) (sale.Sale, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	found, ok := s.sales[id]
	if !ok {
		return sale.Sale{}, sale.ErrSaleNotFound
	}
	return withSeller(s, found), nil
}

func (r *saleRepository) List(_ context.Context, p, perPage int) ([]sale.Sale, int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedSales(s, nil, true)
	items := page(all, p, perPage)
	result := make([]sale.Sale, len(items))
	for i, item := range items {
		result[i] = withSeller(s, item)
	}
	return result, int64(len(all)), nil
}

func (r *saleRepository) ListBySeller(_ context.Context, filter sale.SellerSalesFilter) ([]sale.Sale, int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedSales(s, func(item sale.Sale) bool {
		if item.SellerID != filter.SellerID {
			return false
		}
		if filter.CreatedFrom != nil && item.CreatedAt.Before(*filter.CreatedFrom) {
			return false
		}
		if filter.CreatedTo != nil && !item.CreatedAt.Before(*filter.CreatedTo) {
			return false
		}
		return true
	}, true)
	items := page(all, filter.Page, filter.PerPage)
	return append([]sale.Sale{}, items...), int64(len(all)), nil
}

func (r *saleRepository) ListBySellerCreatedBetween(_ context.Context, sellerID int64, from, to time.Time) ([]sale.Sale, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedSales(s, func(item sale.Sale) bool {
		return item.SellerID == sellerID && within(item.CreatedAt, from, to)
	}, false), nil
}

func (r *saleRepository) ListSoldBetween(_ context.Context, from, to time.Time) ([]sale.Sale, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := sortedSales(s, func(item sale.Sale) bool {
		return within(item.SoldAt, from, to)
	}, false)
	for i := range items {
		items[i] = withSeller(s, items[i])
	}
	return items, nil
}

func (r *saleRepository) ListBySellerSoldBetween(_ context.Context, sellerID int64, from, to time.Time) ([]sale.Sale, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedSales(s, func(item sale.Sale) bool {
		return item.SellerID == sellerID && within(item.SoldAt, from, to)
	}, false), nil
}

func (r *saleRepository) Totals(_ context.Context, filter sale.TotalsFilter) (sale.Totals, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := sale.Totals{Amount: decimal.Zero, Commission: decimal.Zero}
	for _, item := range s.sales {
		if filter.From != nil && item.SoldAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !item.SoldAt.Before(*filter.To) {
			continue
		}
		totals.Count++
		totals.Amount = totals.Amount.Add(item.Amount)
		totals.Commission = totals.Commission.Add(item.CommissionAmount)
	}
	return totals, nil
}

// sortedSales filters and orders sales by id; the store lock must be held
func sortedSales(s *Store, keep func(sale.Sale) bool, desc bool) []sale.Sale {
	result := make([]sale.Sale, 0)
	for _, item := range s.sales {
		if keep == nil || keep(item) {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if desc {
			return result[i].ID > result[j].ID
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func withSeller(s *Store, item sale.Sale) sale.Sale {
	if owner, ok := s.sellers[item.SellerID]; ok {
		item.Seller = &owner
	}
	return item
}
