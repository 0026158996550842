package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/tvsync/internal/models"
	"github.com/iudanet/tvsync/pkg/api"
)

// ErrServer wraps every non-2xx response; use errors.As with *StatusError for details
var ErrServer = errors.New("server error")

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap позволяет errors.Is(err, ErrServer)
func (e *StatusError) Unwrap() error {
	return ErrServer
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// Health запрашивает GET /health
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Info запрашивает описание сервиса GET /
func (c *Client) Info(ctx context.Context) (*api.InfoResponse, error) {
	var resp api.InfoResponse
	if err := c.doRequest(ctx, http.MethodGet, "/", nil, &resp); err != nil {
		return nil, fmt.Errorf("info request failed: %w", err)
	}
	return &resp, nil
}

// GetState получает полное общее состояние
func (c *Client) GetState(ctx context.Context) (*models.SyncState, error) {
	var state models.SyncState
	if err := c.doRequest(ctx, http.MethodGet, "/sync-state", nil, &state); err != nil {
		return nil, fmt.Errorf("get state request failed: %w", err)
	}
	return &state, nil
}

// UpdateState отправляет частичное обновление: каждый ключ patch заменяет
// поле состояния целиком
func (c *Client) UpdateState(ctx context.Context, patch map[string]any) error {
	if patch == nil {
		patch = map[string]any{}
	}

	var resp api.SuccessResponse
	if err := c.doRequest(ctx, http.MethodPost, "/sync-state", patch, &resp); err != nil {
		return fmt.Errorf("update state request failed: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("update state request failed: %w", ErrServer)
	}
	return nil
}

// ClaimLeader пытается захватить лидерство.
// Отказ из-за активного лидера не считается ошибкой: resp.Success == false.
func (c *Client) ClaimLeader(ctx context.Context, req api.ClaimRequest) (*api.ClaimResponse, error) {
	var resp api.ClaimResponse
	if err := c.doRequest(ctx, http.MethodPost, "/claim-leader", req, &resp); err != nil {
		return nil, fmt.Errorf("claim leader request failed: %w", err)
	}
	return &resp, nil
}

// LeaderHistory получает последние события журнала лидерства.
// limit <= 0 означает значение сервера по умолчанию.
func (c *Client) LeaderHistory(ctx context.Context, limit int) (*api.HistoryResponse, error) {
	path := "/leader-history"
	if limit > 0 {
		path += "?" + url.Values{"limit": []string{strconv.Itoa(limit)}}.Encode()
	}

	var resp api.HistoryResponse
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("leader history request failed: %w", err)
	}
	return &resp, nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			statusErr.Message = errResp.Error
			if errResp.Message != "" {
				statusErr.Message += ": " + errResp.Message
			}
		}
		return statusErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
