package middleware

import (
	"fmt"
	"net/http"

	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/response"
)

// RequirePermission checks if the actor's role grants permission
func RequirePermission(permission auth.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !auth.HasPermission(actor.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but role is '%s'", permission, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
