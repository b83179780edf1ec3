package core

import (
	"encoding/json"
	"net/http"
)

// Standard response codes
const (
	// oks
	CodeOkTwoFactorCodeSent      = "ok_two_factor_code_sent"
	CodeOkPasswordResetRequested = "ok_password_reset_requested"
	CodeOkPasswordReset          = "ok_password_reset"
	CodeOkVerificationRequested  = "ok_verification_requested"
	CodeOkEmailVerified          = "ok_email_verified"
	CodeOkAlreadyVerified        = "ok_already_verified"

	// errors
	CodeErrorInvalidRequest                 = "err_invalid_input"
	CodeErrorMissingFields                  = "err_missing_fields"
	CodeErrorInvalidCredentials             = "err_invalid_credentials"
	CodeErrorInvalidOrExpiredCode           = "err_invalid_or_expired_code"
	CodeErrorInvalidOrExpiredToken          = "err_invalid_or_expired_token"
	CodeErrorInvalidOrExpiredSession        = "err_invalid_or_expired_session"
	CodeErrorDeliveryFailed                 = "err_delivery_failed"
	CodeErrorPasswordComplexity             = "err_password_complexity"
	CodeErrorPasswordMismatch               = "err_password_mismatch"
	CodeErrorEmailConflict                  = "err_email_conflict"
	CodeErrorTokenGeneration                = "err_token_generation"
	CodeErrorTooManyRequests                = "err_too_many_requests"
	CodeErrorServiceUnavailable             = "err_service_unavailable"
	CodeErrorNoAuthHeader                   = "err_no_auth_header"
	CodeErrorInvalidTokenFormat             = "err_invalid_token_format"
	CodeErrorJwtInvalidSignMethod           = "err_invalid_sign_method"
	CodeErrorJwtTokenExpired                = "err_token_expired"
	CodeErrorJwtInvalidToken                = "err_invalid_token"
	CodeErrorJwtInvalidVerificationToken    = "err_invalid_verification_token"
	CodeErrorInvalidContentType             = "err_invalid_content_type"
	CodeErrorInvalidOAuth2Provider          = "err_invalid_oauth2_provider"
	CodeErrorOAuth2TokenExchangeFailed      = "err_oauth2_token_exchange_failed"
	CodeErrorOAuth2UserInfoFailed           = "err_oauth2_user_info_failed"
	CodeErrorOAuth2UserInfoProcessingFailed = "err_oauth2_user_info_processing_failed"
	CodeErrorOAuth2DatabaseError            = "err_oauth2_database_error"
	CodeErrorAuthDatabaseError              = "err_auth_database_error"
	CodeErrorEmailVerificationFailed        = "err_email_verification_failed"
)

// precomputeBasicResponse runs during initialization (before main()); the
// JSON body is marshalled once and the bytes reused for every response.
func precomputeBasicResponse(status int, code, message string) jsonResponse {
	basic := JsonBasic{
		Status:  status,
		Code:    code,
		Message: message,
	}
	body, _ := json.Marshal(basic)
	return jsonResponse{status: status, body: body}
}

// Precomputed error and ok responses with status codes.
//
// The auth failure messages are deliberately uniform and vague: a failed
// login, a wrong code and an expired bridge token must not reveal which
// check failed or whether the account exists.
var (
	// errors
	errorInvalidRequest          = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidRequest, "The request contains invalid data")
	errorMissingFields           = precomputeBasicResponse(http.StatusBadRequest, CodeErrorMissingFields, "Required fields are missing")
	errorInvalidCredentials      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidCredentials, "Invalid credentials provided")
	errorInvalidOrExpiredCode    = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidOrExpiredCode, "Invalid or expired verification code")
	errorInvalidOrExpiredToken   = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidOrExpiredToken, "Invalid or expired token")
	errorInvalidOrExpiredSession = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidOrExpiredSession, "Invalid or expired session")
	errorDeliveryFailed          = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorDeliveryFailed, "Could not deliver the verification code. Please request a new one")
	errorPasswordComplexity      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordComplexity, "Password does not meet the minimum length requirement")
	errorPasswordMismatch        = precomputeBasicResponse(http.StatusBadRequest, CodeErrorPasswordMismatch, "Password and confirmation do not match")
	errorEmailConflict           = precomputeBasicResponse(http.StatusConflict, CodeErrorEmailConflict, "Email address is already registered")
	errorTokenGeneration         = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorTokenGeneration, "Failed to generate authentication token")
	errorTooManyRequests         = precomputeBasicResponse(http.StatusTooManyRequests, CodeErrorTooManyRequests, "Too many requests, please try again later")
	errorServiceUnavailable      = precomputeBasicResponse(http.StatusServiceUnavailable, CodeErrorServiceUnavailable, "Service is temporarily unavailable")
	errorNoAuthHeader            = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorNoAuthHeader, "Authorization header is required")
	errorInvalidTokenFormat      = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorInvalidTokenFormat, "Invalid authorization token format")
	errorJwtInvalidSignMethod    = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidSignMethod, "Invalid JWT signing method")
	errorJwtTokenExpired         = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtTokenExpired, "Authentication token has expired")
	errorJwtInvalidToken         = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidToken, "Invalid authentication token")

	errorJwtInvalidVerificationToken    = precomputeBasicResponse(http.StatusUnauthorized, CodeErrorJwtInvalidVerificationToken, "Invalid verification token")
	errorEmailVerificationFailed        = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorEmailVerificationFailed, "Email verification process failed")
	errorInvalidContentType             = precomputeBasicResponse(http.StatusUnsupportedMediaType, CodeErrorInvalidContentType, "Unsupported media type")
	errorInvalidOAuth2Provider          = precomputeBasicResponse(http.StatusBadRequest, CodeErrorInvalidOAuth2Provider, "Invalid OAuth2 provider specified")
	errorOAuth2TokenExchangeFailed      = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2TokenExchangeFailed, "Failed to exchange OAuth2 token")
	errorOAuth2UserInfoFailed           = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2UserInfoFailed, "Failed to get user info from OAuth2 provider")
	errorOAuth2UserInfoProcessingFailed = precomputeBasicResponse(http.StatusBadRequest, CodeErrorOAuth2UserInfoProcessingFailed, "Failed to process user info from OAuth2 provider")
	errorOAuth2DatabaseError            = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorOAuth2DatabaseError, "Database error during OAuth2 authentication")
	errorAuthDatabaseError              = precomputeBasicResponse(http.StatusInternalServerError, CodeErrorAuthDatabaseError, "Database error during authentication")

	// oks
	okTwoFactorCodeSent = precomputeBasicResponse(http.StatusAccepted, CodeOkTwoFactorCodeSent, "A verification code will be sent if the account exists")
	// Anti-enumeration: identical for existing and unknown addresses.
	okPasswordResetRequested = precomputeBasicResponse(http.StatusAccepted, CodeOkPasswordResetRequested, "Password reset instructions will be sent to your email if it exists in our system")
	okPasswordReset          = precomputeBasicResponse(http.StatusOK, CodeOkPasswordReset, "Password reset successfully")
	okVerificationRequested  = precomputeBasicResponse(http.StatusAccepted, CodeOkVerificationRequested, "Verification email will be sent soon. Check your mailbox")
	okEmailVerified          = precomputeBasicResponse(http.StatusOK, CodeOkEmailVerified, "Email verified successfully")
	okAlreadyVerified        = precomputeBasicResponse(http.StatusAccepted, CodeOkAlreadyVerified, "Email already verified - no further action needed")
)

// WriteJsonOk writes a precomputed JSON success response.
func WriteJsonOk(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}

// WriteJsonError writes a precomputed JSON error response.
func WriteJsonError(w http.ResponseWriter, resp jsonResponse) {
	setHeaders(w, HeadersJson)
	w.WriteHeader(resp.status)
	w.Write(resp.body)
}
