package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/response"
)

// AdminHandler exposes the manual mail actions
type AdminHandler interface {
	ResendSellerCommission(w http.ResponseWriter, r *http.Request)
	ResendSaleCommission(w http.ResponseWriter, r *http.Request)
	RunDailyMails(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	sellerService seller.SellerService
	saleService   sale.SaleService
}

func NewAdminHandler(sellerService seller.SellerService, saleService sale.SaleService) AdminHandler {
	return &adminHandlerImpl{sellerService: sellerService, saleService: saleService}
}

// ResendSellerCommission handles POST /admin/sellers/{id}/resend-commission
func (h *adminHandlerImpl) ResendSellerCommission(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.HandleError(w, seller.ErrSellerNotFound)
		return
	}

	var req seller.DateRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.sellerService.ResendCommission(r.Context(), id, req.Date)
	if err != nil {
		slog.Error("Resend seller commission failed", "seller_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}

// ResendSaleCommission handles POST /admin/sales/{id}/resend-commission
func (h *adminHandlerImpl) ResendSaleCommission(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.HandleError(w, sale.ErrSaleNotFound)
		return
	}

	if err := h.saleService.ResendSaleCommission(r.Context(), id); err != nil {
		slog.Error("Resend sale commission failed", "sale_id", id, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sale commission email queued for delivery", map[string]int64{"sale_id": id})
}

// RunDailyMails handles POST /admin/run-daily-mails
func (h *adminHandlerImpl) RunDailyMails(w http.ResponseWriter, r *http.Request) {
	var req seller.DateRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.sellerService.RunDailyMails(r.Context(), req.Date)
	if errors.Is(err, seller.ErrDailyMailsIncomplete) {
		slog.Error("Daily mails partially queued", "date", result.Date, "queued", result.QueuedCount, "sellers", result.SellersCount, "error", err)
		response.ServiceUnavailable(w, result.Message, result)
		return
	}
	if err != nil {
		slog.Error("Run daily mails failed", "date", req.Date, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, result.Message, result)
}
