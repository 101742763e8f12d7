package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	json "github.com/json-iterator/go"

	"github.com/nicolasmmb/go-cashi-payments/internal/model"
)

const (
	ROUTE_PAYMENTS = "/payments"

	DEFAULT_TIMEOUT = 15 * time.Second
	maxResponseBody = 1 << 20
)

// PaymentAPIClient talks to the payment server. One call, no retries.
type PaymentAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentAPIClient(baseURL string, timeout time.Duration) *PaymentAPIClient {
	if timeout <= 0 {
		timeout = DEFAULT_TIMEOUT
	}
	tr := &http.Transport{
		IdleConnTimeout:     60 * time.Second,
		MaxIdleConns:        8,
		MaxIdleConnsPerHost: 8,
	}
	return &PaymentAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Transport: tr, Timeout: timeout},
	}
}

// SubmitPayment posts the request. Transport errors, timeouts and non-2xx
// replies come back as errors whose message describes the failure; the
// server's error text is used when it sent one.
func (c *PaymentAPIClient) SubmitPayment(ctx context.Context, req model.PaymentRequest) (*model.PaymentResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ROUTE_PAYMENTS, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		slog.Warn("[CL:Payment:Submit:01] - Request failed", "error", err)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("read payment response: %w", err)
	}

	var out model.PaymentResponse
	decodeErr := json.Unmarshal(raw, &out)

	slog.Info("[CL:Payment:Submit:02] - Response received", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil && out.Error != "" {
			return nil, fmt.Errorf("payment failed: %s", out.Error)
		}
		return nil, fmt.Errorf("payment failed: %s", http.StatusText(resp.StatusCode))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode payment response: %w", decodeErr)
	}
	return &out, nil
}
