package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/utils"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token has been revoked")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Seller
	case errors.Is(err, seller.ErrSellerNotFound):
		NotFound(w, "Seller not found")
	case errors.Is(err, seller.ErrDuplicateSellerEmail):
		Conflict(w, "Seller email already registered")

	// Sale
	case errors.Is(err, sale.ErrSaleNotFound):
		NotFound(w, "Sale not found")
	case errors.Is(err, sale.ErrInvalidCommissionData):
		ValidationError(w, map[string][]string{"amount": {"amount must be greater than zero"}})

	case errors.Is(err, utils.ErrInvalidDate):
		ValidationError(w, map[string][]string{"date": {"date must be in YYYY-MM-DD format"}})

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
