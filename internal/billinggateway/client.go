// Package billinggateway реализует клиент платёжного шлюза. Шлюз —
// внешний коллаборатор: здесь только проверка статуса платежа, сама
// обработка оплаты происходит на стороне шлюза.
package billinggateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Client — HTTP-клиент платёжного шлюза. Все вызовы несут явный таймаут;
// исходящий поток ограничен, чтобы всплеск подтверждений не уронил шлюз.
type Client struct {
	shopID     string
	secretKey  string
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient создаёт новый клиент платёжного шлюза.
func NewClient(shopID, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		shopID:     shopID,
		secretKey:  secretKey,
		apiURL:     "https://api.yookassa.ru/v3",
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(10, 20),
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, nil)
	if err != nil {
		return nil, err
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.shopID + ":" + c.secretKey))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// GetPayment запрашивает у шлюза состояние платежа по его идентификатору.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	const op = "billinggateway.GetPayment"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/payments/"+paymentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &payment, nil
}
