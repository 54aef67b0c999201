package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rpupo63/chantier-backend/config"
	"github.com/rpupo63/chantier-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const resendBaseURL = "https://api.resend.com"

// ResendEmailRequest represents the request payload for Resend API
type ResendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Html    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// ResendEmailResponse represents the response from Resend API
type ResendEmailResponse struct {
	ID string `json:"id"`
}

// ResendErrorResponse represents an error response from Resend API
type ResendErrorResponse struct {
	Message string `json:"message"`
}

type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// ResendMailer delivers mail through the Resend HTTP API.
type ResendMailer struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewResendMailer reads RESEND_API_KEY and RESEND_FROM_EMAIL. Both are required.
func NewResendMailer(c map[string]string) (*ResendMailer, error) {
	apiKey := config.GetString(c, "RESEND_API_KEY", "")
	if apiKey == "" {
		return nil, errs.NewConfigMissingError("RESEND_API_KEY")
	}

	fromEmail := config.GetString(c, "RESEND_FROM_EMAIL", "")
	if fromEmail == "" {
		return nil, errs.NewConfigMissingError("RESEND_FROM_EMAIL")
	}

	return &ResendMailer{
		apiKey:  apiKey,
		from:    fromEmail,
		baseURL: config.GetString(c, "RESEND_BASE_URL", resendBaseURL),
		client:  &http.Client{Timeout: config.GetDuration(c, "MAIL_TIMEOUT", 10*time.Second)},
		logger:  log.With().Str("service", "resendMailer").Logger(),
	}, nil
}

// Send sends one message. Any non-200 answer is a mail delivery error.
func (m *ResendMailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	payload := ResendEmailRequest{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/emails", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return fmt.Errorf("failed to create Resend API request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return errs.NewMailDeliveryError(fmt.Errorf("failed to send request to Resend API: %w", err))
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.NewMailDeliveryError(fmt.Errorf("failed to read Resend API response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ResendErrorResponse
		if err := json.Unmarshal(bodyBytes, &errorResp); err == nil && errorResp.Message != "" {
			return errs.NewMailDeliveryError(fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, errorResp.Message))
		}
		return errs.NewMailDeliveryError(fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, string(bodyBytes)))
	}

	var emailResponse ResendEmailResponse
	if err := json.Unmarshal(bodyBytes, &emailResponse); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to parse Resend email response, but email was sent")
	} else {
		m.logger.Debug().Str("emailId", emailResponse.ID).Msg("Sent email via Resend")
	}

	return nil
}
