package core

import (
	"net/http"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// Standardized response shapes for the endpoints that grant or advance
// authentication state.
//
// Example authentication response (successful login, session exchange or
// token refresh):
//
//	{
//	  "status": 200,
//	  "code": "ok_authentication",
//	  "message": "Authentication successful",
//	  "data": {
//	    "token_type": "Bearer",
//	    "access_token": "eyJhbGciOiJIUzI...",
//	    "expires_in": 2700,
//	    "record": {
//	      "id": "user123",
//	      "email": "user@example.com",
//	      "name": "Jane Doe",
//	      "verified": true
//	    }
//	  }
//	}

// AuthRecord represents the user record in authentication responses.
// Public identity fields only; never the password hash.
type AuthRecord struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// AuthData represents the authentication response structure.
type AuthData struct {
	TokenType   string     `json:"token_type"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
	Record      AuthRecord `json:"record"`
}

// TwoFactorRequiredData is returned by login when the account requires a
// second factor; the session token bridges to the code verification step.
type TwoFactorRequiredData struct {
	RequiresTwoFactor bool   `json:"requiresTwoFactor"`
	SessionToken      string `json:"sessionToken"`
	TwoFactorMethod   string `json:"twoFactorMethod"`
}

// PendingLoginData is the pending context behind a pre-2FA session token.
type PendingLoginData struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// NewAuthData creates a new AuthData instance.
func NewAuthData(token string, expiresIn int, user *db.User) *AuthData {
	return &AuthData{
		TokenType:   "Bearer",
		AccessToken: token,
		ExpiresIn:   expiresIn,
		Record: AuthRecord{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Verified: user.Verified,
		},
	}
}

// writeAuthResponse writes a standardized authentication response.
func writeAuthResponse(w http.ResponseWriter, token string, expiresIn int, user *db.User) {
	authData := NewAuthData(token, expiresIn, user)
	response := JsonWithData{
		JsonBasic: JsonBasic{
			Status:  http.StatusOK,
			Code:    CodeOkAuthentication,
			Message: "Authentication successful",
		},
		Data: authData,
	}
	WriteJsonWithData(w, response)
}
