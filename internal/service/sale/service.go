package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/commission"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

const listTTL = 5 * time.Minute

const TagSales = "sales"

// SellerTag groups every cached page that lists the sales of sellerID
func SellerTag(sellerID int64) string {
	return fmt.Sprintf("seller:%d", sellerID)
}

type SaleServiceImpl struct {
	db         database.Transactor
	saleRepo   sale.SaleRepository
	sellerRepo seller.SellerRepository
	calculator commission.Calculator
	cache      cache.Cache
	dispatcher notification.Dispatcher
	loc        *time.Location
	now        func() time.Time
}

func NewSaleService(
	db database.Transactor,
	saleRepo sale.SaleRepository,
	sellerRepo seller.SellerRepository,
	calculator commission.Calculator,
	c cache.Cache,
	dispatcher notification.Dispatcher,
	loc *time.Location,
) sale.SaleService {
	if loc == nil {
		loc = time.Local
	}
	return &SaleServiceImpl{
		db:         db,
		saleRepo:   saleRepo,
		sellerRepo: sellerRepo,
		calculator: calculator,
		cache:      c,
		dispatcher: dispatcher,
		loc:        loc,
		now:        time.Now,
	}
}

// Create implements sale.SaleService.
func (s *SaleServiceImpl) Create(ctx context.Context, sellerID int64, amount decimal.Decimal, soldAt time.Time) (sale.Sale, error) {
	if !amount.IsPositive() {
		return sale.Sale{}, sale.ErrInvalidSaleAmount
	}

	var created sale.Sale
	var owner seller.Seller
	err := s.db.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		owner, err = s.sellerRepo.GetByID(txCtx, sellerID)
		if err != nil {
			return err
		}

		created, err = s.saleRepo.Create(txCtx, sale.Sale{
			SellerID:         sellerID,
			Amount:           amount,
			CommissionAmount: s.calculator.Calculate(amount).Round(2),
			SoldAt:           soldAt,
		})
		if err != nil {
			return fmt.Errorf("failed to create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return sale.Sale{}, err
	}

	cache.Flush(ctx, s.cache, TagSales, SellerTag(sellerID))

	created.Seller = &owner
	return created, nil
}

// GetByID implements sale.SaleService.
func (s *SaleServiceImpl) GetByID(ctx context.Context, id int64) (sale.Sale, error) {
	return s.saleRepo.GetByID(ctx, id)
}

// List implements sale.SaleService.
func (s *SaleServiceImpl) List(ctx context.Context, req sale.ListSalesRequest) (pagination.Page[sale.Sale], error) {
	page, perPage := pagination.Normalize(req.Page, req.PerPage)
	key := fmt.Sprintf("sales:all:page:%d:perPage:%d", page, perPage)

	return cache.Remember(ctx, s.cache, key, listTTL, []string{TagSales}, func() (pagination.Page[sale.Sale], error) {
		sales, total, err := s.saleRepo.List(ctx, page, perPage)
		if err != nil {
			return pagination.Page[sale.Sale]{}, fmt.Errorf("failed to list sales: %w", err)
		}
		return pagination.New(sales, total, page, perPage), nil
	})
}

// ListBySeller implements sale.SaleService.
// The date filter applies to the day the sale was recorded.
func (s *SaleServiceImpl) ListBySeller(ctx context.Context, req sale.ListSellerSalesRequest) (pagination.Page[sale.Sale], error) {
	if err := req.Validate(); err != nil {
		return pagination.Page[sale.Sale]{}, err
	}
	if _, err := s.sellerRepo.GetByID(ctx, req.SellerID); err != nil {
		return pagination.Page[sale.Sale]{}, err
	}

	page, perPage := pagination.Normalize(req.Page, req.PerPage)
	filter := sale.SellerSalesFilter{SellerID: req.SellerID, Page: page, PerPage: perPage}

	dateKey := "all"
	if req.Date != "" {
		from, to, err := utils.DayBounds(req.Date, s.loc)
		if err != nil {
			return pagination.Page[sale.Sale]{}, err
		}
		filter.CreatedFrom, filter.CreatedTo = &from, &to
		dateKey = req.Date
	}

	key := fmt.Sprintf("sales:seller:%d:date:%s:page:%d:perPage:%d", req.SellerID, dateKey, page, perPage)
	return cache.Remember(ctx, s.cache, key, listTTL, []string{SellerTag(req.SellerID)}, func() (pagination.Page[sale.Sale], error) {
		sales, total, err := s.saleRepo.ListBySeller(ctx, filter)
		if err != nil {
			return pagination.Page[sale.Sale]{}, fmt.Errorf("failed to list seller sales: %w", err)
		}
		return pagination.New(sales, total, page, perPage), nil
	})
}

// DailySummaryForSeller implements sale.SaleService.
func (s *SaleServiceImpl) DailySummaryForSeller(ctx context.Context, sellerID int64, date string) (sale.SellerDaySummary, error) {
	owner, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		return sale.SellerDaySummary{}, err
	}

	date, err = utils.ResolveDate(date, s.now(), s.loc)
	if err != nil {
		return sale.SellerDaySummary{}, err
	}
	from, to, err := utils.DayBounds(date, s.loc)
	if err != nil {
		return sale.SellerDaySummary{}, err
	}

	sales, err := s.saleRepo.ListBySellerCreatedBetween(ctx, sellerID, from, to)
	if err != nil {
		return sale.SellerDaySummary{}, fmt.Errorf("failed to load seller sales: %w", err)
	}

	total := decimal.Zero
	for _, item := range sales {
		total = total.Add(item.Amount)
	}

	return sale.SellerDaySummary{
		Seller:      owner,
		Date:        date,
		Count:       len(sales),
		TotalAmount: total,
		Commission:  s.calculator.Total(sale.CommissionLines(sales)),
	}, nil
}

// ResendSaleCommission implements sale.SaleService.
func (s *SaleServiceImpl) ResendSaleCommission(ctx context.Context, saleID int64) error {
	existing, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return err
	}
	if err := s.dispatcher.DispatchSaleCommission(ctx, existing.ID); err != nil {
		return fmt.Errorf("failed to queue sale commission mail: %w", err)
	}
	return nil
}
