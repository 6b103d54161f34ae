// Package ledgerapi is an HTTP client for the banksampah API.
package ledgerapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/banksampah/internal/domain/errors"
	"github.com/polkiloo/banksampah/internal/server/http/dto"
)

// APIError is a non-success response. It matches the domain sentinel for its status with errors.Is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ledger api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("ledger api: %s", e.Message)
}

// Unwrap maps a 404 to ErrUnknownAccount only when the server answered with an
// error body; a bare 404 means the route itself is missing.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusNotFound:
		if e.Message == "" {
			return nil
		}
		return domainErrors.ErrUnknownAccount
	case http.StatusConflict:
		return domainErrors.ErrDuplicateAccount
	case http.StatusPaymentRequired:
		return domainErrors.ErrInsufficientBalance
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domainErrors.ErrValidation
	case http.StatusServiceUnavailable:
		return domainErrors.ErrPersistenceWrite
	default:
		return nil
	}
}

// Client exposes the ledger operations over HTTP.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client with default timeout.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("server url must be absolute")
	}
	return &Client{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// CreateAccount registers a new account.
// A 503 response returns the unsaved account together with an error matching ErrPersistenceWrite.
func (c *Client) CreateAccount(ctx context.Context, name string) (dto.AccountResponse, error) {
	var out dto.AccountResponse
	err := c.do(ctx, http.MethodPost, []string{"api", "accounts"}, dto.CreateAccountRequest{Name: name}, &out)
	return out, err
}

// Accounts lists accounts in creation order.
func (c *Client) Accounts(ctx context.Context) ([]dto.AccountSummaryResponse, error) {
	var out []dto.AccountSummaryResponse
	err := c.do(ctx, http.MethodGet, []string{"api", "accounts"}, nil, &out)
	return out, err
}

// Balance returns the account's balance.
func (c *Client) Balance(ctx context.Context, name string) (dto.AccountSummaryResponse, error) {
	var out dto.AccountSummaryResponse
	err := c.do(ctx, http.MethodGet, []string{"api", "accounts", name, "balance"}, nil, &out)
	return out, err
}

// History returns the account's transactions, newest first.
func (c *Client) History(ctx context.Context, name string) ([]dto.TransactionResponse, error) {
	var out []dto.TransactionResponse
	err := c.do(ctx, http.MethodGet, []string{"api", "accounts", name, "history"}, nil, &out)
	return out, err
}

// Deposit credits points for weightKg of material.
func (c *Client) Deposit(ctx context.Context, name, material string, weightKg float64) (dto.DepositResponse, error) {
	var out dto.DepositResponse
	req := dto.DepositRequest{Material: material, WeightKg: weightKg}
	err := c.do(ctx, http.MethodPost, []string{"api", "accounts", name, "deposits"}, req, &out)
	return out, err
}

// Redeem exchanges points for a reward.
func (c *Client) Redeem(ctx context.Context, name, reward string) (dto.RedemptionResponse, error) {
	var out dto.RedemptionResponse
	err := c.do(ctx, http.MethodPost, []string{"api", "accounts", name, "redemptions"}, dto.RedeemRequest{Reward: reward}, &out)
	return out, err
}

// Materials returns the conversion table.
func (c *Client) Materials(ctx context.Context) ([]dto.MaterialResponse, error) {
	var out []dto.MaterialResponse
	err := c.do(ctx, http.MethodGet, []string{"api", "materials"}, nil, &out)
	return out, err
}

// Rewards returns the reward catalog.
func (c *Client) Rewards(ctx context.Context) ([]dto.RewardResponse, error) {
	var out []dto.RewardResponse
	err := c.do(ctx, http.MethodGet, []string{"api", "rewards"}, nil, &out)
	return out, err
}

func (c *Client) endpoint(segments []string) string {
	endpoint := *c.baseURL
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(endpoint.EscapedPath(), "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(escapeSegment(s))
	}
	endpoint.RawPath = b.String()
	endpoint.Path, _ = url.PathUnescape(endpoint.RawPath)
	return endpoint.String()
}

// escapeSegment also encodes dot segments so no hop can collapse them.
func escapeSegment(s string) string {
	if s == "." || s == ".." {
		return strings.Repeat("%2E", len(s))
	}
	return url.PathEscape(s)
}

func (c *Client) do(ctx context.Context, method string, segments []string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(segments), body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return json.Unmarshal(data, out)
	case resp.StatusCode == http.StatusServiceUnavailable && method == http.MethodPost:
		// Mutation applied but not saved: the body carries the result.
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Join(&APIError{StatusCode: resp.StatusCode}, err)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: "change applied but not saved"}
	default:
		var apiErr dto.ErrorResponse
		_ = json.Unmarshal(data, &apiErr)
		c.logger.Debug("ledger api request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(data)))
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}
}
