package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DriveEzzy/DriveEzzy/internal/common/middleware"
)

// WebhookSink 把事件 POST 到配置的 webhook 地址。
// 下游不可用时由熔断器快速失败，避免每个事件都等满超时。
type WebhookSink struct {
	endpoint string
	client   *http.Client
	breaker  *middleware.CircuitBreaker
}

func NewWebhookSink(endpoint string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &WebhookSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		breaker:  middleware.NewCircuitBreaker("notify-webhook", 5, 30*time.Second),
	}
}

func (s *WebhookSink) Notify(ctx context.Context, ev Event) error {
	if s == nil || s.endpoint == "" {
		return fmt.Errorf("webhook sink not configured")
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return s.breaker.Call(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
}
