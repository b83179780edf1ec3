package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
)

// Gateway delivers verification codes through the SMS provider's JSON
// webhook. Delivery failures are returned to the caller so it can fall back
// to email.
type Gateway struct {
	configProvider *config.Provider
	logger         *slog.Logger
	httpClient     *http.Client
}

type payload struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

func New(configProvider *config.Provider, logger *slog.Logger) (*Gateway, error) {
	cfg := configProvider.Get().SmsGateway
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("sms: webhook URL is required")
	}
	return &Gateway{
		configProvider: configProvider,
		logger:         logger,
		httpClient:     &http.Client{},
	}, nil
}

// SendCode posts a verification code to the gateway webhook.
func (g *Gateway) SendCode(ctx context.Context, phone, code string) error {
	cfg := g.configProvider.Get()

	sendCtx, cancel := context.WithTimeout(ctx, cfg.SmsGateway.SendTimeout.Duration)
	defer cancel()

	body, err := json.Marshal(payload{
		To:      phone,
		From:    cfg.SmsGateway.From,
		Message: fmt.Sprintf("Your %s verification code is %s", cfg.Smtp.FromName, code),
	})
	if err != nil {
		return fmt.Errorf("sms: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, cfg.SmsGateway.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sms: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sms: gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms: gateway returned status %d", resp.StatusCode)
	}

	g.logger.Info("sent verification code via sms", "phone", phone)
	return nil
}
