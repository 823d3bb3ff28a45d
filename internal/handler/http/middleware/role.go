package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/response"
)

// RequirePermission checks if the caller holds permission through any of its roles
func RequirePermission(authorizer user.Authorizer, permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !authorizer.UserHasPermission(principal.Roles, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
