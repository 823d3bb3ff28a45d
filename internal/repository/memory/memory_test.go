package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellerRepository(t *testing.T) {
	store := NewStore()
	repo := NewSellerRepository(store)
	ctx := context.Background()

	ana, err := repo.Create(ctx, seller.Seller{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ana.ID)
	assert.False(t, ana.CreatedAt.IsZero())

	_, err = repo.Create(ctx, seller.Seller{Name: "Ana 2", Email: "ana@example.com"})
	assert.ErrorIs(t, err, seller.ErrDuplicateSellerEmail)

	exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, seller.ErrSellerNotFound)

	_, err = repo.Create(ctx, seller.Seller{Name: "Bia", Email: "bia@example.com"})
	require.NoError(t, err)

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)

	first, total, err := repo.ListWithSales(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, first, 1)
	assert.Equal(t, "Bia", first[0].Name)
	assert.NotNil(t, first[0].Sales)

	beyond, _, err := repo.ListWithSales(ctx, 5, 1)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestSaleRepository(t *testing.T) {
	store := NewStore()
	sellers := NewSellerRepository(store)
	var created []int64
	sales := NewSaleRepository(store, sale.ObserverFunc(func(_ context.Context, s sale.Sale) {
		created = append(created, s.ID)
	}))
	ctx := context.Background()

	ana, err := sellers.Create(ctx, seller.Seller{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = sales.Create(ctx, sale.Sale{SellerID: 99, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, seller.ErrSellerNotFound)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := sales.Create(ctx, sale.Sale{
			SellerID:         ana.ID,
			Amount:           decimal.NewFromInt(int64(100 * (i + 1))),
			CommissionAmount: decimal.NewFromInt(int64(10 * (i + 1))),
			SoldAt:           day.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}
	assert.Equal(t, []int64{1, 2, 3}, created)

	found, err := sales.GetByID(ctx, 2)
	require.NoError(t, err)
	require.NotNil(t, found.Seller)
	assert.Equal(t, "Ana", found.Seller.Name)

	_, err = sales.GetByID(ctx, 9)
	assert.ErrorIs(t, err, sale.ErrSaleNotFound)

	list, total, err := sales.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)

	sold, err := sales.ListSoldBetween(ctx, day, day.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Len(t, sold, 2)

	from := day.AddDate(0, 0, 1)
	totals, err := sales.Totals(ctx, sale.TotalsFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Count)
	assert.True(t, decimal.NewFromInt(500).Equal(totals.Amount))
	assert.True(t, decimal.NewFromInt(50).Equal(totals.Commission))
}

func TestTransactor_AfterCommit(t *testing.T) {
	store := NewStore()
	sellers := NewSellerRepository(store)
	var notified int
	sales := NewSaleRepository(store, sale.ObserverFunc(func(context.Context, sale.Sale) { notified++ }))
	ctx := context.Background()

	ana, err := sellers.Create(ctx, seller.Seller{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	tx := NewTransactor()
	err = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := sales.Create(txCtx, sale.Sale{SellerID: ana.ID, Amount: decimal.NewFromInt(1)})
		require.NoError(t, err)
		assert.Zero(t, notified)
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Zero(t, notified)

	err = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := sales.Create(txCtx, sale.Sale{SellerID: ana.ID, Amount: decimal.NewFromInt(1)})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, notified)
}

func TestUserRepository(t *testing.T) {
	repo := NewUserRepository(NewStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, user.User{Name: "Admin", Email: "admin@example.com", Roles: []user.Role{user.RoleAdmin}})
	require.NoError(t, err)

	_, err = repo.Create(ctx, user.User{Name: "Copy", Email: "admin@example.com"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	found, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.GetByID(ctx, 77)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
