package core

import (
	"encoding/json"
	"net/http"
)

const (
	// codes for dynamic, non precomputed responses
	CodeOkAuthentication      = "ok_authentication"
	CodeOkTwoFactorRequired   = "ok_two_factor_required"
	CodeOkPendingLogin        = "ok_pending_login"
	CodeOkTwoFactorVerified   = "ok_two_factor_verified"
	CodeOkResetTokenChecked   = "ok_reset_token_checked"
	CodeOkOAuth2ProvidersList = "ok_oauth2_providers_list"
	CodeOkAuthRecord          = "ok_auth_record"
)

type jsonResponse struct {
	status int
	body   []byte
}

// JsonBasic contains the basic response fields. All responses have them.
type JsonBasic struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// JsonWithData is used for structured JSON responses with a payload.
type JsonWithData struct {
	JsonBasic
	Data any `json:"data,omitempty"`
}

// WriteJsonWithData writes a structured JSON response with the provided data.
func WriteJsonWithData(w http.ResponseWriter, resp JsonWithData) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}
