package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/driveads/campaign-management/internal"
)

// Client talks to the external payment provider. Provider failures are
// wrapped as external errors carrying the provider's HTTP status; they fail
// the current request only, never the process.
type Client struct {
	client    *http.Client
	baseURL   string
	secretKey string
	logger    *slog.Logger
}

func NewClient(baseURL, secretKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		client:    &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		secretKey: secretKey,
		logger:    logger,
	}
}

// InitiateTransfer sends the payout to the provider and returns its response
// verbatim. There is no local retry; the reference makes a caller-side retry
// safe.
func (c *Client) InitiateTransfer(ctx context.Context, req *TransferRequest) (*TransferResponse, error) {
	if req.Source == "" {
		req.Source = "balance"
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal transfer request: %w", err)
	}

	c.logger.Info("initiating transfer",
		"recipient", req.Recipient,
		"amount", req.Amount,
		"reference", req.Reference)

	respBody, status, err := c.do(ctx, http.MethodPost, c.baseURL+"/transfer", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		c.logger.Error("transfer provider returned error",
			"status", status,
			"response", string(respBody),
			"reference", req.Reference)
		return nil, internal.NewExternalError(
			fmt.Sprintf("transfer failed: %s", string(respBody)), status, nil)
	}

	var resp TransferResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal transfer response: %w", err)
	}
	resp.Raw = respBody

	c.logger.Info("transfer initiated",
		"transfer_code", resp.Data.TransferCode,
		"reference", resp.Data.Reference,
		"status", resp.Data.Status)

	return &resp, nil
}

// GetTransaction fetches a single provider-side transaction.
func (c *Client) GetTransaction(ctx context.Context, id int64) (*TransactionResponse, error) {
	respBody, status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/transaction/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, internal.NewExternalError(
			fmt.Sprintf("transaction lookup failed: %s", string(respBody)), status, nil)
	}

	var resp TransactionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal transaction response: %w", err)
	}
	return &resp, nil
}

// ListTransactions pages through the provider's transaction history.
func (c *Client) ListTransactions(ctx context.Context, page, perPage int) (*TransactionListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 100 {
		perPage = 50
	}

	url := c.baseURL + "/transaction?page=" + strconv.Itoa(page) + "&perPage=" + strconv.Itoa(perPage)
	respBody, status, err := c.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, internal.NewExternalError(
			fmt.Sprintf("transaction listing failed: %s", string(respBody)), status, nil)
	}

	var resp TransactionListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal transaction list response: %w", err)
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, url string, body io.Reader) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		c.logger.Error("transfer provider unreachable", "error", err, "url", url)
		return nil, 0, internal.NewExternalError("transfer provider unreachable", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response body: %w", err)
	}

	return respBody, resp.StatusCode, nil
}
