package oauth2

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
)

// UserFromUserInfoURL maps a provider's userinfo response body onto a user
// record. The returned user carries the provider's identity fields only; the
// store assigns its own id on insert.
func UserFromUserInfoURL(resp *http.Response, providerName string) (*db.User, error) {
	switch providerName {
	case config.OAuth2ProviderGoogle:
		return googleUser(resp)
	case config.OAuth2ProviderGitHub:
		return githubUser(resp)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func googleUser(resp *http.Response) (*db.User, error) {
	extracted := struct {
		Id            string `json:"sub"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&extracted); err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}

	// Only accept addresses the provider itself has verified; everything
	// downstream (password reset mails) trusts the verified flag.
	if !extracted.EmailVerified {
		return nil, fmt.Errorf("google email not verified")
	}

	return &db.User{
		ID:       extracted.Id,
		Email:    extracted.Email,
		Name:     extracted.Name,
		Avatar:   extracted.Picture,
		Verified: true,
		Oauth2:   true,
	}, nil
}

func githubUser(resp *http.Response) (*db.User, error) {
	extracted := struct {
		Id        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&extracted); err != nil {
		return nil, fmt.Errorf("failed to decode github user info: %w", err)
	}

	name := extracted.Name
	if name == "" {
		name = extracted.Login
	}

	// GitHub hides the email unless the user made it public; without one the
	// account cannot be keyed in the credential store.
	if extracted.Email == "" {
		return nil, fmt.Errorf("github email not available")
	}

	return &db.User{
		ID:       strconv.FormatInt(extracted.Id, 10),
		Email:    extracted.Email,
		Name:     name,
		Avatar:   extracted.AvatarURL,
		Verified: true,
		Oauth2:   true,
	}, nil
}
