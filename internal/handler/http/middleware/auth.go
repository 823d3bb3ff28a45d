package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/commission-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/commission-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/commission-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/commission-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type principalKey struct{}

// Principal is the authenticated caller of a request
type Principal struct {
	UserID int64
	Email  string
	Roles  []user.Role
	Token  string
}

// AuthRequired must run after jwtauth.Verifier. It rejects unverified,
// non-access and revoked tokens and stores the Principal in the context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, err := jwt.UserIDFromClaims(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			revoked, err := jwtService.IsTokenRevoked(r.Context(), raw)
			if err != nil {
				slog.ErrorContext(r.Context(), "Token revocation check failed", "error", err)
				response.InternalServerError(w, "An unexpected error occurred")
				return
			}
			if revoked {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			email, _ := claims["email"].(string)
			names := jwt.RolesFromClaims(claims)
			roles := make([]user.Role, len(names))
			for i, name := range names {
				roles[i] = user.Role(name)
			}

			ctx := context.WithValue(r.Context(), principalKey{}, Principal{
				UserID: userID,
				Email:  email,
				Roles:  roles,
				Token:  raw,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// PrincipalFromContext returns the caller stored by AuthRequired
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
