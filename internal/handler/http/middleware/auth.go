package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/domain/auth"
	"github.com/vt-ctyhp/attendance-system-sub004/internal/handler/http/response"
)

type actorKey struct{}

// Actor is the authenticated operator behind a request.
type Actor struct {
	UserID string
	Role   auth.Role
}

// RevocationChecker reports revoked raw tokens.
type RevocationChecker interface {
	IsTokenRevoked(token string) bool
}

// AuthRequired rejects requests without a verified access token and stores
// the token's Actor in the request context. Run it after jwtauth.Verifier.
func AuthRequired(revoked RevocationChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if revoked != nil && revoked.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrTokenRevoked)
				return
			}

			tokenType, ok := claims["type"].(string)
			if !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.HandleError(w, auth.ErrActorMissingInToken)
				return
			}
			roleStr, _ := claims["role"].(string)

			ctx := WithActor(r.Context(), Actor{UserID: userID, Role: auth.Role(roleStr)})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}

// ActorID returns the acting user's id for audit rows, or nil.
func ActorID(ctx context.Context) *string {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.UserID == "" {
		return nil
	}
	id := actor.UserID
	return &id
}
