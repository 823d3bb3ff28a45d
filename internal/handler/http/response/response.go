package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/pagination"
)

type Response struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Meta    *Meta               `json:"meta,omitempty"`
	Links   *Links              `json:"links,omitempty"`
}

type Meta struct {
	CurrentPage int   `json:"current_page"`
	From        *int  `json:"from"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	To          *int  `json:"to"`
	Total       int64 `json:"total"`
}

type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// Success responses
func SuccessWithMessage(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Created(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Accepted(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusAccepted, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Paginated writes page mapped through fn, with links built from the
// request URL so other query parameters are kept.
func Paginated[T, U any](w http.ResponseWriter, r *http.Request, message string, page pagination.Page[T], fn func(T) U) {
	mapped := pagination.Map(page, fn)
	last := mapped.LastPage()

	link := func(n int) string {
		u := url.URL{Path: r.URL.Path}
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(n))
		q.Set("per_page", strconv.Itoa(mapped.PerPage))
		u.RawQuery = q.Encode()
		return u.String()
	}

	links := &Links{First: link(1), Last: link(last)}
	if mapped.CurrentPage > 1 {
		prev := link(mapped.CurrentPage - 1)
		links.Prev = &prev
	}
	if mapped.CurrentPage < last {
		next := link(mapped.CurrentPage + 1)
		links.Next = &next
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    mapped.Items,
		Meta: &Meta{
			CurrentPage: mapped.CurrentPage,
			From:        mapped.From(),
			LastPage:    last,
			PerPage:     mapped.PerPage,
			To:          mapped.To(),
			Total:       mapped.Total,
		},
		Links: links,
	})
}

// Error responses
func BadRequest(w http.ResponseWriter, message string, errors map[string][]string) {
	writeJSON(w, http.StatusBadRequest, Response{
		Message: message,
		Errors:  errors,
	})
}

func ValidationError(w http.ResponseWriter, errors map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, Response{
		Message: "Validation failed",
		Errors:  errors,
	})
}

func UnprocessableEntity(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, Response{Message: message})
}

func Unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, Response{Message: message})
}

func Forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, Response{Message: message})
}

func NotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, Response{Message: message})
}

func Conflict(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusConflict, Response{Message: message})
}

func InternalServerError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusInternalServerError, Response{Message: message})
}

func ServiceUnavailable(w http.ResponseWriter, message string, data interface{}) {
	writeJSON(w, http.StatusServiceUnavailable, Response{
		Message: message,
		Data:    data,
	})
}
