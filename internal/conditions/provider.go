// Package conditions отвечает за получение условий на пляже от внешнего
// поставщика морских данных. Каждый исходящий вызов проходит через леджер
// квот: бюджет вызовов поставщика ограничен по дням и месяцам.
package conditions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/models"
)

// ProviderClient — HTTP-клиент внешнего поставщика морских данных.
type ProviderClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewProviderClient создаёт клиент поставщика с явным таймаутом запросов.
func NewProviderClient(apiURL, apiKey string, timeout time.Duration) *ProviderClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ProviderClient{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch запрашивает текущие условия для пляжа у поставщика.
func (c *ProviderClient) Fetch(ctx context.Context, spotID string) (*models.Conditions, error) {
	const op = "conditions.ProviderClient.Fetch"

	endpoint := c.apiURL + "/point?spot=" + url.QueryEscape(spotID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", c.apiKey)

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

	var cond models.Conditions
	if err := json.NewDecoder(resp.Body).Decode(&cond); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cond.SpotID = spotID
	cond.FetchedAt = time.Now().UTC()
	return &cond, nil
}
