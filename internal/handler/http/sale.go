package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/sale"
	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/validator"
)

type SaleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
}

type saleHandlerImpl struct {
	saleService sale.SaleService
	loc         *time.Location
}

// NewSaleHandler reads zone-less sold_at values in loc
func NewSaleHandler(saleService sale.SaleService, loc *time.Location) SaleHandler {
	if loc == nil {
		loc = time.Local
	}
	return &saleHandlerImpl{saleService: saleService, loc: loc}
}

// List handles GET /sales
func (h *saleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := pageParams(r)

	result, err := h.saleService.List(r.Context(), sale.ListSalesRequest{Page: page, PerPage: perPage})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, r, "Sales retrieved successfully", result, sale.NewSaleResponse)
}

// Create handles POST /sales
func (h *saleHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req sale.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}
	soldAt, _ := validator.ParseDateTime(req.SoldAt, h.loc)

	created, err := h.saleService.Create(r.Context(), *req.SellerID, *req.Amount, soldAt)
	if err != nil {
		slog.Error("Create sale service error", "seller_id", *req.SellerID, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Sale created", "sale_id", created.ID, "seller_id", created.SellerID)
	response.Created(w, "Sale created successfully", sale.NewSaleResponse(created))
}

// GetByID handles GET /sales/{id}
func (h *saleHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		response.HandleError(w, sale.ErrSaleNotFound)
		return
	}

	found, err := h.saleService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Sale retrieved successfully", sale.NewSaleResponse(found))
}
