package sale

import (
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var minimumAmount = decimal.RequireFromString("0.01")

type CreateSaleRequest struct {
	SellerID *int64           `json:"seller_id"`
	Amount   *decimal.Decimal `json:"amount"`
	SoldAt   string           `json:"sold_at"`
}

func (r *CreateSaleRequest) Validate() error {
	var errs validator.ValidationErrors

	// Seller
	if r.SellerID == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "seller_id",
			Message: "seller_id is required",
		})
	} else if *r.SellerID < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "seller_id",
			Message: "seller_id must be a positive integer",
		})
	}

	// Amount
	if r.Amount == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount is required",
		})
	} else if r.Amount.LessThan(minimumAmount) {
		errs = append(errs, validator.ValidationError{
			Field:   "amount",
			Message: "amount must be at least 0.01",
		})
	}

	// Sold at
	if validator.IsEmpty(r.SoldAt) {
		errs = append(errs, validator.ValidationError{
			Field:   "sold_at",
			Message: "sold_at is required",
		})
	} else if _, ok := validator.ParseDateTime(r.SoldAt, time.UTC); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "sold_at",
			Message: "sold_at must be a valid date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListSalesRequest struct {
	Page    int
	PerPage int
}

type ListSellerSalesRequest struct {
	SellerID int64
	// Date optionally restricts to sales recorded on that day (YYYY-MM-DD)
	Date    string
	Page    int
	PerPage int
}

func (r *ListSellerSalesRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return nil
}

type SaleResponse struct {
	ID               int64                  `json:"id"`
	SellerID         int64                  `json:"seller_id"`
	Seller           *seller.SellerResponse `json:"seller,omitempty"`
	Amount           float64                `json:"amount"`
	CommissionAmount float64                `json:"commission_amount"`
	SoldAt           time.Time              `json:"sold_at"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

func NewSaleResponse(s Sale) SaleResponse {
	resp := SaleResponse{
		ID:               s.ID,
		SellerID:         s.SellerID,
		Amount:           money.Float(s.Amount),
		CommissionAmount: money.Float(s.CommissionAmount),
		SoldAt:           s.SoldAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if s.Seller != nil {
		sellerResp := seller.NewSellerResponse(*s.Seller)
		resp.Seller = &sellerResp
	}
	return resp
}

type SellerDaySummaryResponse struct {
	Seller      seller.SellerResponse `json:"seller"`
	Date        string                `json:"date"`
	Count       int                   `json:"count"`
	TotalAmount float64               `json:"total_amount"`
	Commission  float64               `json:"commission"`
}

func NewSellerDaySummaryResponse(s SellerDaySummary) SellerDaySummaryResponse {
	return SellerDaySummaryResponse{
		Seller:      seller.NewSellerResponse(s.Seller),
		Date:        s.Date,
		Count:       s.Count,
		TotalAmount: money.Float(s.TotalAmount),
		Commission:  money.Float(s.Commission),
	}
}
