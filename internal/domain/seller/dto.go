package seller

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/money"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/validator"
)

type CreateSellerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Normalize trims the name and trims and lowercases the email
func (r *CreateSellerRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
}

func (r *CreateSellerRequest) Validate() error {
	var errs validator.ValidationErrors

	// Name
	nameLength := utf8.RuneCountInString(strings.TrimSpace(r.Name))
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if nameLength < 2 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must be at least 2 characters long",
		})
	} else if nameLength > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}

	// Email
	email := NormalizeEmail(r.Email)
	if validator.IsEmpty(email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if len(email) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must not exceed 255 characters",
		})
	} else if !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type ListSellersRequest struct {
	Page    int
	PerPage int
}

// DateRequest carries the optional day of the admin mail endpoints
type DateRequest struct {
	Date string `json:"date"`
}

func (r *DateRequest) Validate() error {
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

type ResendCommissionResponse struct {
	SellerID   int64  `json:"seller_id"`
	SellerName string `json:"seller_name"`
	Date       string `json:"date"`
	Message    string `json:"message"`
}

type RunDailyMailsResponse struct {
	Date         string  `json:"date"`
	SellersCount int     `json:"sellers_count"`
	// QueuedCount is how many seller digests were actually enqueued
	QueuedCount  int     `json:"queued_count"`
	AdminEmail   *string `json:"admin_email"`
	AdminQueued  bool    `json:"admin_queued"`
	Message      string  `json:"message"`
}

type SellerResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type SellerWithSalesResponse struct {
	SellerResponse
	Sales []SaleLineResponse `json:"sales"`
}

type SaleLineResponse struct {
	ID               int64     `json:"id"`
	SellerID         int64     `json:"seller_id"`
	Amount           float64   `json:"amount"`
	CommissionAmount float64   `json:"commission_amount"`
	SoldAt           time.Time `json:"sold_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewSellerResponse(s Seller) SellerResponse {
	return SellerResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func NewSellerWithSalesResponse(s SellerWithSales) SellerWithSalesResponse {
	resp := SellerWithSalesResponse{
		SellerResponse: NewSellerResponse(s.Seller),
		Sales:          make([]SaleLineResponse, 0, len(s.Sales)),
	}
	for _, line := range s.Sales {
		resp.Sales = append(resp.Sales, SaleLineResponse{
			ID:               line.ID,
			SellerID:         line.SellerID,
			Amount:           money.Float(line.Amount),
			CommissionAmount: money.Float(line.CommissionAmount),
			SoldAt:           line.SoldAt,
			CreatedAt:        line.CreatedAt,
			UpdatedAt:        line.UpdatedAt,
		})
	}
	return resp
}
