package seller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/utils"
)

const listTTL = 10 * time.Minute

const TagSellers = "sellers"

type SellerServiceImpl struct {
	sellerRepo seller.SellerRepository
	cache      cache.Cache
	dispatcher notification.Dispatcher
	adminEmail string
	loc        *time.Location
	now        func() time.Time
}

// NewSellerService builds the seller service. An empty adminEmail disables
// the admin summary of RunDailyMails.
func NewSellerService(
	sellerRepo seller.SellerRepository,
	c cache.Cache,
	dispatcher notification.Dispatcher,
	adminEmail string,
	loc *time.Location,
) seller.SellerService {
	if loc == nil {
		loc = time.Local
	}
	return &SellerServiceImpl{
		sellerRepo: sellerRepo,
		cache:      c,
		dispatcher: dispatcher,
		adminEmail: adminEmail,
		loc:        loc,
		now:        time.Now,
	}
}

// Create implements seller.SellerService.
func (s *SellerServiceImpl) Create(ctx context.Context, req seller.CreateSellerRequest) (seller.Seller, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return seller.Seller{}, err
	}

	exists, err := s.sellerRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return seller.Seller{}, fmt.Errorf("failed to check seller email: %w", err)
	}
	if exists {
		return seller.Seller{}, seller.ErrDuplicateSellerEmail
	}

	created, err := s.sellerRepo.Create(ctx, seller.Seller{Name: req.Name, Email: req.Email})
	if err != nil {
		if errors.Is(err, seller.ErrDuplicateSellerEmail) {
			return seller.Seller{}, err
		}
		return seller.Seller{}, fmt.Errorf("failed to create seller: %w", err)
	}

	cache.Flush(ctx, s.cache, TagSellers)
	return created, nil
}

// GetByID implements seller.SellerService.
func (s *SellerServiceImpl) GetByID(ctx context.Context, id int64) (seller.Seller, error) {
	return s.sellerRepo.GetByID(ctx, id)
}

// List implements seller.SellerService.
// A page is also tagged with each listed seller so new sales evict it.
func (s *SellerServiceImpl) List(ctx context.Context, req seller.ListSellersRequest) (pagination.Page[seller.SellerWithSales], error) {
	page, perPage := pagination.Normalize(req.Page, req.PerPage)
	key := fmt.Sprintf("sellers:all:page:%d:perPage:%d", page, perPage)

	var cached pagination.Page[seller.SellerWithSales]
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}
	if found {
		return cached, nil
	}

	sellers, total, err := s.sellerRepo.ListWithSales(ctx, page, perPage)
	if err != nil {
		return pagination.Page[seller.SellerWithSales]{}, fmt.Errorf("failed to list sellers: %w", err)
	}
	result := pagination.New(sellers, total, page, perPage)

	tags := []string{TagSellers}
	for _, item := range sellers {
		tags = append(tags, fmt.Sprintf("seller:%d", item.ID))
	}
	if err := s.cache.Set(ctx, key, result, listTTL, tags...); err != nil {
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return result, nil
}

// ResendCommission implements seller.SellerService.
func (s *SellerServiceImpl) ResendCommission(ctx context.Context, sellerID int64, date string) (seller.ResendCommissionResponse, error) {
	found, err := s.sellerRepo.GetByID(ctx, sellerID)
	if err != nil {
		return seller.ResendCommissionResponse{}, err
	}

	date, err = utils.ResolveDate(date, s.now(), s.loc)
	if err != nil {
		return seller.ResendCommissionResponse{}, err
	}

	if err := s.dispatcher.DispatchDailySellerCommission(ctx, found.ID, date); err != nil {
		return seller.ResendCommissionResponse{}, fmt.Errorf("failed to queue commission mail: %w", err)
	}

	return seller.ResendCommissionResponse{
		SellerID:   found.ID,
		SellerName: found.Name,
		Date:       date,
		Message:    "Commission email queued for delivery",
	}, nil
}

// RunDailyMails implements seller.SellerService.
// Every seller is attempted even when some enqueues fail. The failures are
// returned together with a response counting what was queued.
func (s *SellerServiceImpl) RunDailyMails(ctx context.Context, date string) (seller.RunDailyMailsResponse, error) {
	date, err := utils.ResolveDate(date, s.now(), s.loc)
	if err != nil {
		return seller.RunDailyMailsResponse{}, err
	}

	ids, err := s.sellerRepo.ListIDs(ctx)
	if err != nil {
		return seller.RunDailyMailsResponse{}, fmt.Errorf("failed to list sellers: %w", err)
	}

	resp := seller.RunDailyMailsResponse{
		Date:         date,
		SellersCount: len(ids),
		Message:      "Daily commission emails queued for delivery",
	}

	var errs []error
	for _, id := range ids {
		if err := s.dispatcher.DispatchDailySellerCommission(ctx, id, date); err != nil {
			errs = append(errs, fmt.Errorf("seller %d: %w", id, err))
			continue
		}
		resp.QueuedCount++
	}

	if s.adminEmail != "" {
		email := s.adminEmail
		resp.AdminEmail = &email
		if err := s.dispatcher.DispatchDailyAdminSummary(ctx, date, s.adminEmail); err != nil {
			errs = append(errs, fmt.Errorf("admin summary: %w", err))
		} else {
			resp.AdminQueued = true
		}
	}

	if len(errs) > 0 {
		resp.Message = fmt.Sprintf("Queued %d of %d daily commission emails", resp.QueuedCount, resp.SellersCount)
		return resp, fmt.Errorf("%w: %w", seller.ErrDailyMailsIncomplete, errors.Join(errs...))
	}
	return resp, nil
}
