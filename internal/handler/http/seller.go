package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/seller"
	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/response"
)

type SellerHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	// Sales lists one seller's sales, optionally for a single day
	Sales(w http.ResponseWriter, r *http.Request)
	DailySummary(w http.ResponseWriter, r *http.Request)
}

type sellerHandlerImpl struct {
	sellerService seller.SellerService
	saleService   sale.SaleService
}

func NewSellerHandler(sellerService seller.SellerService, saleService sale.SaleService) SellerHandler {
	return &sellerHandlerImpl{sellerService: sellerService, saleService: saleService}
}

// List handles GET /sellers
func (h *sellerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	result, err := h.sellerService.List(r.Context(), seller.ListSellersRequest{Page: page, PerPage: perPage})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, r, "Sellers retrieved successfully", result, seller.NewSellerWithSalesResponse)
}

// Create handles POST /sellers
func (h *sellerHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req seller.CreateSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.sellerService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Seller created", "seller_id", created.ID)
	response.Created(w, "Seller created successfully", seller.NewSellerResponse(created))
}

// GetByID handles GET /sellers/{id}
func (h *sellerHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.HandleError(w, seller.ErrSellerNotFound)
		return
	}

	found, err := h.sellerService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Seller retrieved successfully", seller.NewSellerResponse(found))
}

// Sales handles GET /sellers/{id}/sales
func (h *sellerHandlerImpl) Sales(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.HandleError(w, seller.ErrSellerNotFound)
		return
	}
	page, perPage := pageParams(r)

	result, err := h.saleService.ListBySeller(r.Context(), sale.ListSellerSalesRequest{
		SellerID: id,
		Date:     r.URL.Query().Get("date"),
		Page:     page,
		PerPage:  perPage,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, r, "Seller sales retrieved successfully", result, sale.NewSaleResponse)
}

// DailySummary handles GET /sellers/{id}/daily-summary
func (h *sellerHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.HandleError(w, seller.ErrSellerNotFound)
		return
	}

	req := seller.DateRequest{Date: r.URL.Query().Get("date")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.saleService.DailySummaryForSeller(r.Context(), id, req.Date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Seller daily summary retrieved successfully", sale.NewSellerDaySummaryResponse(summary))
}
