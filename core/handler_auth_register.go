package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue"
)

// RegisterWithPasswordHandler creates a new password account.
// Endpoint: POST /api/auth/register
// Authenticated: No
// Allowed Mimetype: application/json
//
// The account starts unverified (status pending); a verification email job
// is enqueued and the fresh session is returned right away.
func (a *App) RegisterWithPasswordHandler(w http.ResponseWriter, r *http.Request) {
	if resp, err := a.Validator().ContentType(r, MimeTypeJSON); err != nil {
		WriteJsonError(w, resp)
		return
	}

	var req struct {
		Email           string `json:"email"`
		Name            string `json:"name"`
		Phone           string `json:"phone"`
		Password        string `json:"password"`
		PasswordConfirm string `json:"passwordConfirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		WriteJsonError(w, errorMissingFields)
		return
	}
	if err := ValidateEmail(email); err != nil {
		WriteJsonError(w, errorInvalidRequest)
		return
	}

	cfg := a.Config()
	if len(req.Password) < cfg.Auth.MinPasswordLength {
		WriteJsonError(w, errorPasswordComplexity)
		return
	}
	if req.PasswordConfirm != "" && req.Password != req.PasswordConfirm {
		WriteJsonError(w, errorPasswordMismatch)
		return
	}

	hash, err := crypto.GenerateHash(req.Password)
	if err != nil {
		a.Logger().Error("password hashing failed", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	user, err := a.DbAuth().CreateUserWithPassword(db.User{
		Email:    email,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: hash,
	})
	if err != nil {
		if errors.Is(err, db.ErrConstraintUnique) {
			WriteJsonError(w, errorEmailConflict)
			return
		}
		a.Logger().Error("user creation failed", "err", err)
		WriteJsonError(w, errorServiceUnavailable)
		return
	}

	a.enqueueVerificationEmail(email)

	token, _, err := crypto.NewJwtSessionToken(user.ID, user.Email, user.Password, cfg.Jwt.AuthSecret, cfg.Jwt.AuthTokenDuration.Duration)
	if err != nil {
		WriteJsonError(w, errorTokenGeneration)
		return
	}
	writeAuthResponse(w, token, int(cfg.Jwt.AuthTokenDuration.Duration.Seconds()), user)
}

// enqueueVerificationEmail schedules the ownership-confirmation mail.
// Best-effort: registration succeeds even when the queue insert fails, the
// user can re-request from the verification endpoint.
func (a *App) enqueueVerificationEmail(email string) {
	cfg := a.Config()
	payload, _ := json.Marshal(queue.PayloadEmailVerification{
		Email:          email,
		CooldownBucket: queue.CoolDownBucket(cfg.RateLimits.EmailVerificationCooldown.Duration, time.Now()),
	})

	err := a.DbQueue().InsertJob(db.Job{
		JobType: queue.JobTypeEmailVerification,
		Payload: payload,
	})
	if err != nil && !errors.Is(err, db.ErrConstraintUnique) {
		a.Logger().Error("failed to enqueue verification email", "email", email, "err", err)
	}
}
