package core

import (
	"net/http"
)

// MeHandler returns the public record of the authenticated account.
// Endpoint: GET /api/auth/me
// Authenticated: Yes (via JwtValidate middleware)
func (a *App) MeHandler(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		// Only reachable when the handler is registered without the
		// authentication middleware.
		WriteJsonError(w, errorJwtInvalidToken)
		return
	}

	WriteJsonWithData(w, JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthRecord,
			Message: "Account record",
		},
		Data: AuthRecord{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Verified: user.Verified,
		},
	})
}
