package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/pagination"
	"github.com/jackc/pgx/v5"
)

type sellerRepositoryImpl struct {
	db *database.DB
}

func NewSellerRepository(db *database.DB) seller.SellerRepository {
	return &sellerRepositoryImpl{db: db}
}

// Create implements seller.SellerRepository.
func (r *sellerRepositoryImpl) Create(ctx context.Context, newSeller seller.Seller) (seller.Seller, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO sellers (name, email, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING id, name, email, created_at, updated_at
	`

	var created seller.Seller
	err := q.QueryRow(ctx, query, newSeller.Name, newSeller.Email).Scan(
		&created.ID,
		&created.Name,
		&created.Email,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return seller.Seller{}, seller.ErrDuplicateSellerEmail
		}
		return seller.Seller{}, err
	}

	return created, nil
}

// GetByID implements seller.SellerRepository.
func (r *sellerRepositoryImpl) GetByID(ctx context.Context, id int64) (seller.Seller, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, email, created_at, updated_at FROM sellers WHERE id = $1`

	var found seller.Seller
	err := q.QueryRow(ctx, query, id).Scan(&found.ID, &found.Name, &found.Email, &found.CreatedAt, &found.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return seller.Seller{}, seller.ErrSellerNotFound
		}
		return seller.Seller{}, err
	}

	return found, nil
}

// ExistsByEmail implements seller.SellerRepository.
func (r *sellerRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sellers WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// ListWithSales implements seller.SellerRepository.
func (r *sellerRepositoryImpl) ListWithSales(ctx context.Context, page, perPage int) ([]seller.SellerWithSales, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM sellers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sellers: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM sellers
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, perPage, pagination.Offset(page, perPage))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sellers []seller.SellerWithSales
	index := make(map[int64]int)
	ids := make([]int64, 0, perPage)
	for rows.Next() {
		var item seller.SellerWithSales
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, 0, err
		}
		item.Sales = []seller.SaleLine{}
		index[item.ID] = len(sellers)
		ids = append(ids, item.ID)
		sellers = append(sellers, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return sellers, total, nil
	}

	saleRows, err := q.Query(ctx, `
		SELECT id, seller_id, amount, commission_amount, sold_at, created_at, updated_at
		FROM sales
		WHERE seller_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load seller sales: %w", err)
	}
	defer saleRows.Close()

	for saleRows.Next() {
		var line seller.SaleLine
		if err := saleRows.Scan(
			&line.ID,
			&line.SellerID,
			&line.Amount,
			&line.CommissionAmount,
			&line.SoldAt,
			&line.CreatedAt,
			&line.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		i := index[line.SellerID]
		sellers[i].Sales = append(sellers[i].Sales, line)
	}
	if err := saleRows.Err(); err != nil {
		return nil, 0, err
	}

	return sellers, total, nil
}

// ListIDs implements seller.SellerRepository.
func (r *sellerRepositoryImpl) ListIDs(ctx context.Context) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM sellers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// Count implements seller.SellerRepository.
func (r *sellerRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM sellers`).Scan(&count)
	return count, err
}

// TopBySalesAmount implements seller.SellerRepository.
func (r *sellerRepositoryImpl) TopBySalesAmount(ctx context.Context, limit int) ([]seller.Ranking, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.name, s.email, s.created_at, s.updated_at,
			COUNT(sa.id) AS sales_count,
			COALESCE(SUM(sa.amount), 0) AS total_amount,
			COALESCE(SUM(sa.commission_amount), 0) AS total_commission
		FROM sellers s
		LEFT JOIN sales sa ON sa.seller_id = s.id
		GROUP BY s.id
		ORDER BY total_amount DESC, s.id ASC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rankings := make([]seller.Ranking, 0, limit)
	for rows.Next() {
		var item seller.Ranking
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Email,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.SalesCount,
			&item.TotalAmount,
			&item.TotalCommission,
		); err != nil {
			return nil, err
		}
		rankings = append(rankings, item)
	}
	return rankings, rows.Err()
}
