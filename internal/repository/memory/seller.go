package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/shopspring/decimal"
)

type sellerRepository struct {
	store *Store
}

func NewSellerRepository(store *Store) seller.SellerRepository {
	return &sellerRepository{store: store}
}

func (r *sellerRepository) Create(_ context.Context, newSeller seller.Seller) (seller.Seller, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.sellers {
		if existing.Email == newSeller.Email {
			return seller.Seller{}, seller.ErrDuplicateSellerEmail
		}
	}

	s.nextSellerID++
	now := s.now()
	newSeller.ID = s.nextSellerID
	newSeller.CreatedAt = now
	newSeller.UpdatedAt = now
	s.sellers[newSeller.ID] = newSeller
	return newSeller, nil
}

func (r *sellerRepository) GetByID(_ context.Context, id int64) (seller.Seller, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	found, ok := r.store.sellers[id]
	if !ok {
		return seller.Seller{}, seller.ErrSellerNotFound
	}
	return found, nil
}

func (r *sellerRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, existing := range r.store.sellers {
		if existing.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *sellerRepository) ListWithSales(_ context.Context, p, perPage int) ([]seller.SellerWithSales, int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	sellers := r.sortedSellers(true)
	result := make([]seller.SellerWithSales, 0, perPage)
	for _, item := range page(sellers, p, perPage) {
		withSales := seller.SellerWithSales{Seller: item, Sales: []seller.SaleLine{}}
		for _, sl := range sortedSales(s, func(sl sale.Sale) bool { return sl.SellerID == item.ID }, false) {
			withSales.Sales = append(withSales.Sales, seller.SaleLine{
				ID:               sl.ID,
				SellerID:         sl.SellerID,
				Amount:           sl.Amount,
				CommissionAmount: sl.CommissionAmount,
				SoldAt:           sl.SoldAt,
				CreatedAt:        sl.CreatedAt,
				UpdatedAt:        sl.UpdatedAt,
			})
		}
		result = append(result, withSales)
	}
	return result, int64(len(sellers)), nil
}

func (r *sellerRepository) ListIDs(_ context.Context) ([]int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	sellers := r.sortedSellers(false)
	ids := make([]int64, len(sellers))
	for i, item := range sellers {
		ids[i] = item.ID
	}
	return ids, nil
}

func (r *sellerRepository) Count(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.sellers)), nil
}

func (r *sellerRepository) TopBySalesAmount(_ context.Context, limit int) ([]seller.Ranking, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := make(map[int64]*seller.Ranking, len(s.sellers))
	for _, item := range s.sellers {
		byID[item.ID] = &seller.Ranking{Seller: item, TotalAmount: decimal.Zero, TotalCommission: decimal.Zero}
	}
	for _, sl := range s.sales {
		ranking, ok := byID[sl.SellerID]
		if !ok {
			continue
		}
		ranking.SalesCount++
		ranking.TotalAmount = ranking.TotalAmount.Add(sl.Amount)
		ranking.TotalCommission = ranking.TotalCommission.Add(sl.CommissionAmount)
	}

	rankings := make([]seller.Ranking, 0, len(byID))
	for _, ranking := range byID {
		rankings = append(rankings, *ranking)
	}
	sort.Slice(rankings, func(i, j int) bool {
		if c := rankings[i].TotalAmount.Cmp(rankings[j].TotalAmount); c != 0 {
			return c > 0
		}
		return rankings[i].ID < rankings[j].ID
	})
	if limit > 0 && len(rankings) > limit {
		rankings = rankings[:limit]
	}
	return rankings, nil
}

// sortedSellers expects the store lock to be held
func (r *sellerRepository) sortedSellers(desc bool) []seller.Seller {
	sellers := make([]seller.Seller, 0, len(r.store.sellers))
	for _, item := range r.store.sellers {
		sellers = append(sellers, item)
	}
	sort.Slice(sellers, func(i, j int) bool {
		if desc {
			return sellers[i].ID > sellers[j].ID
		}
		return sellers[i].ID < sellers[j].ID
	})
	return sellers
}
