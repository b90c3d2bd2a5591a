// Package rest предоставляет тонкий JSON-клиент удаленного API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"subtrak/pkg/logger"
)

// Константы для логирования.
const (
	LogRequest = "api request"

	ErrorBuildRequest   = "failed to build api request"
	ErrorSendRequest    = "failed to send api request"
	ErrorDecodeResponse = "failed to decode api response"
)

// maxErrorBody ограничивает читаемое тело ошибочного ответа.
const maxErrorBody = 2048

// APIError - ошибочный ответ удаленного API (не-2xx статус).
type APIError struct {
	Status int
	Body   string
}

// Error возвращает строковое представление ошибки.
func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Body)
}

// Client - JSON-клиент поверх переданного HTTP-клиента.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый клиент для указанного базового URL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Get выполняет GET-запрос и декодирует тело ответа в out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post выполняет POST-запрос с телом in и декодирует ответ в out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPost, path, in, out)
}

// Put выполняет PUT-запрос с телом in и декодирует ответ в out.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.call(ctx, http.MethodPut, path, in, out)
}

// Delete выполняет DELETE-запрос.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}

// call выполняет один запрос к удаленному API.
func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	log := logger.Log(ctx).With(zap.String("method", method), zap.String("path", path))
	log.Debug(ctx, LogRequest)

	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: %w", ErrorBuildRequest, err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorBuildRequest, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error(ctx, ErrorSendRequest, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorSendRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error(ctx, ErrorDecodeResponse, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrorDecodeResponse, err)
	}

	return nil
}
