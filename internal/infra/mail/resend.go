package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AnndyBrock/real-estate-app/internal/core/port"
)

const defaultAPIBaseURL = "https://api.resend.com"

// ResendSender delivers transactional email through the Resend HTTP API.
type ResendSender struct {
	apiKey  string
	sender  string
	baseURL string
	client  *http.Client
}

// ResendOption configures optional ResendSender behaviour.
type ResendOption func(*ResendSender)

// WithBaseURL overrides the API base URL, primarily for tests.
func WithBaseURL(url string) ResendOption {
	return func(s *ResendSender) {
		if url != "" {
			s.baseURL = url
		}
	}
}

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client *http.Client) ResendOption {
	return func(s *ResendSender) {
		if client != nil {
			s.client = client
		}
	}
}

// NewResendSender constructs a sender using the provided API key and from address.
func NewResendSender(apiKey, sender string, opts ...ResendOption) (*ResendSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("mail api key is required")
	}
	if sender == "" {
		return nil, fmt.Errorf("mail sender address is required")
	}

	s := &ResendSender{
		apiKey:  apiKey,
		sender:  sender,
		baseURL: defaultAPIBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Send posts the message to the API and returns the provider delivery id.
func (s *ResendSender) Send(ctx context.Context, mail port.Mail) (string, error) {
	payload, err := json.Marshal(sendRequest{
		From:    s.sender,
		To:      []string{mail.To},
		Subject: mail.Subject,
		Text:    mail.Text,
		HTML:    mail.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("marshal mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read mail response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Message != "" {
			return "", fmt.Errorf("mail provider rejected message: %s", apiErr.Message)
		}
		return "", fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}

	var result sendResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decode mail response: %w", err)
	}
	if result.ID == "" {
		return "", fmt.Errorf("mail provider returned empty delivery id")
	}

	return result.ID, nil
}

var _ port.MailSender = (*ResendSender)(nil)
