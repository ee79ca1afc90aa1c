package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jdgomezv/delivery-dispatch/internal/domain"
	"github.com/jdgomezv/delivery-dispatch/internal/logger"
)

// FetchActiveOrders pulls the dealer's PENDIENTE page from the platform API.
// It is only used to seed the local collection before the stream starts; the
// dispatch core itself never fetches.
func FetchActiveOrders(ctx context.Context, baseURL string, dealerID int64, token string) ([]domain.OrderSnapshot, error) {
	url := fmt.Sprintf("%s/orders/dealer/%d/status/%s",
		strings.TrimRight(baseURL, "/"), dealerID, domain.StatusPendiente)

	client := &http.Client{Timeout: 10 * time.Second}

	var orders []domain.OrderSnapshot
	b := retry.WithMaxRetries(3, retry.NewConstant(2*time.Second))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := client.Do(req)
		if err != nil {
			logger.Warn("seed fetch failed, retrying", "err", err)
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			logger.Warn("seed fetch failed, retrying", "status", resp.StatusCode)
			return retry.RetryableError(fmt.Errorf("seed fetch: %s", resp.Status))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("seed fetch: %s", resp.Status)
		}

		orders = orders[:0]
		if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
			return fmt.Errorf("seed fetch: decode: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("seeded from rest", "orders", len(orders))
	return orders, nil
}
