package core

import (
	"context"
	"net/http"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

type contextKey string

// UserKey is the request context key under which JwtValidate stores the
// authenticated user.
const UserKey contextKey = "auth_user"

// JwtValidate guards authenticated endpoints. On success the authenticated
// *db.User is stored in the request context under UserKey.
func (a *App) JwtValidate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, resp, err := a.Auth().Authenticate(r)
		if err != nil {
			WriteJsonError(w, resp)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the user stored by JwtValidate, or nil when the
// request did not pass through it.
func UserFromContext(ctx context.Context) *db.User {
	user, _ := ctx.Value(UserKey).(*db.User)
	return user
}
