package http

import (
	"net/http"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// Stats returns combined dashboard data
	Stats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Stats handles GET /dashboard/stats
func (h *dashboardHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetAllStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Dashboard stats retrieved successfully", result)
}
