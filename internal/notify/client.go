// Package notify предоставляет клиент сервиса чат-бота: уведомления клиентов и рассылки.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUpstream возвращается, если сервис бота недоступен или ответил ошибкой.
var ErrUpstream = errors.New("bot service request failed")

// ErrNotConfigured возвращается, если адрес сервиса не задан.
var ErrNotConfigured = errors.New("bot service not configured")

// Client инкапсулирует HTTP-взаимодействие с сервисом бота.
type Client struct {
	baseURL      string
	apiKey       string
	broadcastURL string
	secretKey    string
	httpClient   *http.Client
}

// Option настраивает клиент.
type Option func(*Client)

// WithAPIKey задаёт общий секрет, передаваемый в заголовке X-API-Key.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBroadcast задаёт адрес рассылки и секрет, вкладываемый в её тело.
func WithBroadcast(url, secretKey string) Option {
	return func(c *Client) {
		c.broadcastURL = withScheme(strings.TrimSpace(url))
		c.secretKey = secretKey
	}
}

// NewClient создаёт клиент сервиса бота по указанному адресу.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: withScheme(strings.TrimRight(baseURL, "/")),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type notifyRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// Notify отправляет сообщение клиенту. Тело ответа не читается, важен только код.
func (c *Client) Notify(ctx context.Context, chatID, message string) error {
	if c == nil || c.baseURL == "" {
		return ErrNotConfigured
	}

	return c.post(ctx, c.baseURL+"/api/notify", notifyRequest{ChatID: chatID, Message: message}, func(code int) bool {
		return code >= 200 && code < 300
	})
}

// Broadcast описывает рассылку всем подписчикам бота.
type Broadcast struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type broadcastRequest struct {
	Broadcast
	SecretKey string `json:"secretKey"`
}

// SendBroadcast передаёт рассылку бэкенду бота. Успехом считается только 200.
func (c *Client) SendBroadcast(ctx context.Context, b Broadcast) error {
	if c == nil || c.broadcastURL == "" {
		return ErrNotConfigured
	}

	return c.post(ctx, c.broadcastURL, broadcastRequest{Broadcast: b, SecretKey: c.secretKey}, func(code int) bool {
		return code == http.StatusOK
	})
}

func (c *Client) post(ctx context.Context, url string, payload any, ok func(code int) bool) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if !ok(resp.StatusCode) {
		return fmt.Errorf("%w: unexpected status %d", ErrUpstream, resp.StatusCode)
	}
	return nil
}

func withScheme(base string) string {
	if base == "" {
		return ""
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return "http://" + base
	}
	return base
}
