// Package notify implements the notification.Channel port over the Telegram
// Bot API.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yoklama/backend/internal/domain/notification"
)

const defaultTelegramAPIBaseURL = "https://api.telegram.org"

// maxTelegramResponseSize caps how much of an error response gets read.
const maxTelegramResponseSize = 64 * 1024

// TelegramConfig holds the bot settings.
type TelegramConfig struct {
	Token   string
	BaseURL string
	Timeout time.Duration
}

// Validate checks the configuration is usable.
func (c TelegramConfig) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("telegram: bot token is required")
	}
	return nil
}

// TelegramChannel delivers messages through the Telegram Bot API. Messages
// are sent as HTML so formatted notification texts render with markup.
type TelegramChannel struct {
	config     TelegramConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTelegramChannel creates a Telegram channel.
func NewTelegramChannel(config TelegramConfig, logger *zap.Logger) (*TelegramChannel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultTelegramAPIBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &TelegramChannel{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}, nil
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// Send posts one message to the chat identified by recipientID.
func (t *TelegramChannel) Send(ctx context.Context, recipientID int64, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:    recipientID,
		Text:      text,
		ParseMode: "HTML",
	})
	if err != nil {
		return fmt.Errorf("telegram: encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.config.BaseURL, t.config.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", notification.ErrSendFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return notification.ErrRateLimited
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxTelegramResponseSize))
	var apiResp sendMessageResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%w: status %d", notification.ErrSendFailed, resp.StatusCode)
		}
		return fmt.Errorf("telegram: decode response: %w", err)
	}

	if !apiResp.OK {
		t.logger.Warn("telegram api refused message",
			zap.Int64("chat_id", recipientID),
			zap.Int("error_code", apiResp.ErrorCode),
			zap.String("description", apiResp.Description))
		return fmt.Errorf("%w: %s", notification.ErrSendFailed, apiResp.Description)
	}
	return nil
}
