package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/kasetgo/kaset/internal/config"
)

// Client exposes the Telegram Bot API operations used by the application.
type Client interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a Telegram Bot API client using the provided configuration.
func NewClient(cfg config.TelegramConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/bot%s", base, cfg.BotToken)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// SendMessageRequest represents a simplified text message payload.
type SendMessageRequest struct {
	ChatID string
	Text   string
}

// SendMessageResponse mirrors the successful Bot API response.
type SendMessageResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// apiError represents a Telegram Bot API error payload.
type apiError struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func (c *APIClient) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	payload := map[string]any{
		"chat_id": req.ChatID,
		"text":    req.Text,
	}

	result := new(SendMessageResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/sendMessage")
	if err != nil {
		return nil, fmt.Errorf("send telegram message: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Description
			if apiErr.ErrorCode != 0 {
				code = apiErr.ErrorCode
			}
		}
		return nil, fmt.Errorf("telegram api error: code=%d, message=%s", code, message)
	}

	return result, nil
}
