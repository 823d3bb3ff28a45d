package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

const saleColumns = `sa.id, sa.seller_id, sa.amount, sa.commission_amount, sa.sold_at, sa.created_at, sa.updated_at`

const saleWithSellerColumns = saleColumns + `, s.id, s.name, s.email, s.created_at, s.updated_at`

type saleRepositoryImpl struct {
	db        *database.DB
	observers []sale.Observer
}

// NewSaleRepository notifies observers of every created sale after commit
func NewSaleRepository(db *database.DB, observers ...sale.Observer) sale.SaleRepository {
	return &saleRepositoryImpl{db: db, observers: observers}
}

// Create implements sale.SaleRepository.
func (r *saleRepositoryImpl) Create(ctx context.Context, newSale sale.Sale) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sales (seller_id, amount, commission_amount, sold_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, seller_id, amount, commission_amount, sold_at, created_at, updated_at
	`

	var created sale.Sale
	err := q.QueryRow(ctx, query, newSale.SellerID, newSale.Amount, newSale.CommissionAmount, newSale.SoldAt).Scan(
		&created.ID,
		&created.SellerID,
		&created.Amount,
		&created.CommissionAmount,
		&created.SoldAt,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return sale.Sale{}, err
	}

	AfterCommit(ctx, func() {
		sale.NotifyCreated(ctx, r.observers, created)
	})
	return created, nil
}

// GetByID implements sale.SaleRepository.
func (r *saleRepositoryImpl) GetByID(ctx context.Context, id int64) (sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + saleWithSellerColumns + ` FROM sales sa JOIN sellers s ON s.id = sa.seller_id WHERE sa.id = $1`

	found, err := scanSaleWithSeller(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sale.Sale{}, sale.ErrSaleNotFound
		}
		return sale.Sale{}, err
	}
	return found, nil
}

// List implements sale.SaleRepository.
func (r *saleRepositoryImpl) List(ctx context.Context, page, perPage int) ([]sale.Sale, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	query := `
		SELECT ` + saleWithSellerColumns + `
		FROM sales sa
		JOIN sellers s ON s.id = sa.seller_id
		ORDER BY sa.id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := q.Query(ctx, query, perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sales []sale.Sale
	for rows.Next() {
		item, err := scanSaleWithSeller(rows)
		if err != nil {
			return nil, 0, err
		}
		sales = append(sales, item)
	}
	return sales, total, rows.Err()
}

// ListBySeller implements sale.SaleRepository.
func (r *saleRepositoryImpl) ListBySeller(ctx context.Context, filter sale.SellerSalesFilter) ([]sale.Sale, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"sa.seller_id = $1"}
	args := []interface{}{filter.SellerID}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		conditions = append(conditions, fmt.Sprintf("sa.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		conditions = append(conditions, fmt.Sprintf("sa.created_at < $%d", len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM sales sa WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count seller sales: %w", err)
	}

	args = append(args, filter.PerPage, pagination.Offset(filter.Page, filter.PerPage))
	query := fmt.Sprintf(`
		SELECT %s
		FROM sales sa
		WHERE %s
		ORDER BY sa.id DESC
		LIMIT $%d OFFSET $%d
	`, saleColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	sales, err := collectSales(rows)
	return sales, total, err
}

// ListBySellerCreatedBetween implements sale.SaleRepository.
func (r *saleRepositoryImpl) ListBySellerCreatedBetween(ctx context.Context, sellerID int64, from, to time.Time) ([]sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + saleColumns + `
		FROM sales sa
		WHERE sa.seller_id = $1 AND sa.created_at >= $2 AND sa.created_at < $3
		ORDER BY sa.id
	`
	rows, err := q.Query(ctx, query, sellerID, from, to)
	if err != nil {
		return nil, err
	}
	return collectSales(rows)
}

// ListSoldBetween implements sale.SaleRepository.
func (r *saleRepositoryImpl) ListSoldBetween(ctx context.Context, from, to time.Time) ([]sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + saleWithSellerColumns + `
		FROM sales sa
		JOIN sellers s ON s.id = sa.seller_id
		WHERE sa.sold_at >= $1 AND sa.sold_at < $2
		ORDER BY sa.id
	`
	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []sale.Sale{}
	for rows.Next() {
		item, err := scanSaleWithSeller(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, item)
	}
	return sales, rows.Err()
}

// ListBySellerSoldBetween implements sale.SaleRepository.
func (r *saleRepositoryImpl) ListBySellerSoldBetween(ctx context.Context, sellerID int64, from, to time.Time) ([]sale.Sale, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + saleColumns + `
		FROM sales sa
		WHERE sa.seller_id = $1 AND sa.sold_at >= $2 AND sa.sold_at < $3
		ORDER BY sa.id
	`
	rows, err := q.Query(ctx, query, sellerID, from, to)
	if err != nil {
		return nil, err
	}
	return collectSales(rows)
}

// Totals implements sale.SaleRepository.
func (r *saleRepositoryImpl) Totals(ctx context.Context, filter sale.TotalsFilter) (sale.Totals, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(commission_amount), 0)
		FROM sales
		WHERE ($1::timestamptz IS NULL OR sold_at >= $1)
		AND ($2::timestamptz IS NULL OR sold_at < $2)
	`

	var totals sale.Totals
	err := q.QueryRow(ctx, query, filter.From, filter.To).Scan(&totals.Count, &totals.Amount, &totals.Commission)
	return totals, err
}

func collectSales(rows pgx.Rows) ([]sale.Sale, error) {
	defer rows.Close()

	sales := []sale.Sale{}
	for rows.Next() {
		var item sale.Sale
		if err := rows.Scan(
			&item.ID,
			&item.SellerID,
			&item.Amount,
			&item.CommissionAmount,
			&item.SoldAt,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sales = append(sales, item)
	}
	return sales, rows.Err()
}

func scanSaleWithSeller(row pgx.Row) (sale.Sale, error) {
	var item sale.Sale
	var owner seller.Seller
	err := row.Scan(
		&item.ID,
		&item.SellerID,
		&item.Amount,
		&item.CommissionAmount,
		&item.SoldAt,
		&item.CreatedAt,
		&item.UpdatedAt,
		&owner.ID,
		&owner.Name,
		&owner.Email,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	)
	if err != nil {
		return sale.Sale{}, err
	}
	item.Seller = &owner
	return item, nil
}
