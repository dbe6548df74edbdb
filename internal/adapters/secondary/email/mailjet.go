package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/admin/tg-bots/market-bot/internal/domain"
)

// Mailjet отправка через Mailjet Send API v3.1
type Mailjet struct {
	cfg        *Config
	httpClient *http.Client
	log        *slog.Logger
}

func NewMailjet(cfg *Config, log *slog.Logger) *Mailjet {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailjet{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart,omitempty"`
	HTMLPart string           `json:"HTMLPart,omitempty"`
}

type mailjetResponse struct {
	Messages []struct {
		Status string `json:"Status"`
		Errors []struct {
			ErrorMessage string `json:"ErrorMessage"`
		} `json:"Errors"`
	} `json:"Messages"`
}

func (m *Mailjet) Name() string { return "mailjet" }

func (m *Mailjet) Send(ctx context.Context, msg domain.EmailMessage) error {
	payload := struct {
		Messages []mailjetMessage `json:"Messages"`
	}{
		Messages: []mailjetMessage{{
			From:     mailjetAddress{Email: m.cfg.FromEmail, Name: m.cfg.FromName},
			To:       []mailjetAddress{{Email: msg.To}},
			Subject:  msg.Subject,
			TextPart: msg.Text,
			HTMLPart: msg.HTML,
		}},
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("mailjet marshal: %w", err)
	}

	url := strings.TrimSuffix(m.cfg.MailjetBaseURL, "/") + "/send"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("mailjet create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(m.cfg.MailjetAPIKey, m.cfg.MailjetAPISecret)

	resp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("mailjet request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mailjet read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mailjet status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var result mailjetResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("mailjet unmarshal: %w", err)
	}
	for _, r := range result.Messages {
		if r.Status != "success" {
			reason := r.Status
			if len(r.Errors) > 0 {
				reason = r.Errors[0].ErrorMessage
			}
			return fmt.Errorf("mailjet rejected message: %s", reason)
		}
	}
	m.log.Debug("email sent via mailjet", "subject", msg.Subject)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
