package core

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	oauth2provider "github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/oauth2"
)

// oauth2TokenExchangeTimeout bounds the token exchange so an unresponsive
// provider cannot hang the request.
const oauth2TokenExchangeTimeout = 10 * time.Second

type oauth2Request struct {
	Provider     string `json:"provider"`
	Code         string `json:"code"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURI  string `json:"redirect_uri"`
}

// redirectUrl resolves the provider's redirect target: an absolute URL wins,
// otherwise the path is anchored at the server's base URL.
func redirectUrl(server config.Server, provider config.OAuth2Provider) string {
	if provider.RedirectURL != "" {
		return provider.RedirectURL
	}
	return strings.TrimSuffix(server.BaseURL, "/") + provider.RedirectURLPath
}

// AuthWithOAuth2Handler handles OAuth2 sign-in.
// Endpoint: POST /api/auth/oauth2
// Authenticated: No
// Allowed Mimetype: application/json
//
// Creates the account on first sign-in or links oauth2 onto an existing
// password account. The resulting user may have no password hash; password
// login then fails with the same generic invalid-credentials error as a
// wrong password.
func (a *App) AuthWithOAuth2Handler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req oauth2Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	if req.Provider == "" || req.Code == "" || req.CodeVerifier == "" || req.RedirectURI == "" {
		WriteJsonError(w, errorMissingFields)
		return
	}

	cfg := a.Config()
	provider, ok := cfg.OAuth2Providers[req.Provider]
	if !ok {
		WriteJsonError(w, errorInvalidOAuth2Provider)
		return
	}

	oauth2Config := oauth2.Config{
		ClientID:     provider.ClientID,
		ClientSecret: provider.ClientSecret,
		RedirectURL:  req.RedirectURI,
		Scopes:       provider.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  provider.AuthURL,
			TokenURL: provider.TokenURL,
		},
	}

	ctx, cancel := context.WithTimeout(r.Context(), oauth2TokenExchangeTimeout)
	defer cancel()

	token, err := oauth2Config.Exchange(
		ctx,
		req.Code,
		oauth2.SetAuthURLParam("code_verifier", req.CodeVerifier),
	)
	if err != nil {
		a.Logger().Debug("oauth2 token exchange failed", "provider", req.Provider, "err", err)
		WriteJsonError(w, errorOAuth2TokenExchangeFailed)
		return
	}

	client := oauth2Config.Client(ctx, token)
	resp, err := client.Get(provider.UserInfoURL)
	if err != nil {
		WriteJsonError(w, errorOAuth2UserInfoFailed)
		return
	}
	defer resp.Body.Close()

	oauthUser, err := oauth2provider.UserFromUserInfoURL(resp, provider.Name)
	if err != nil {
		a.Logger().Debug("failed to map provider user info", "provider", req.Provider, "err", err)
		WriteJsonError(w, errorOAuth2UserInfoProcessingFailed)
		return
	}

	if oauthUser.Email == "" {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	if err := ValidateEmail(oauthUser.Email); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}
	oauthUser.Email = normalizeEmail(oauthUser.Email)

	// Read before write to keep writes rare; the email UNIQUE constraint and
	// the upsert in CreateUserWithOauth2 make the race between two
	// simultaneous first sign-ins harmless.
	user, err := a.DbAuth().GetUserByEmail(oauthUser.Email)
	if err != nil {
		WriteJsonError(w, errorOAuth2DatabaseError)
		return
	}
	if user == nil || !user.Oauth2 {
		user, err = a.DbAuth().CreateUserWithOauth2(*oauthUser)
		if err != nil {
			WriteJsonError(w, errorOAuth2DatabaseError)
			return
		}
	}

	if user.Banned {
		a.Logger().Info("oauth2 sign-in on banned account", "user_id", user.ID)
		WriteJsonError(w, errorInvalidCredentials)
		return
	}

	jwtToken, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		WriteJsonError(w, errorTokenGeneration)
		return
	}

	writeAuthResponse(w, jwtToken, int(cfg.Jwt.AuthTokenDuration.Duration.Seconds()), user)
}
