package utils

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
	"threadloom.com/threadloom-backend/pkg/logger"
)

// KeepAlivePeriod is tuned to the free-tier idle shutdown window.
const KeepAlivePeriod = 14 * time.Minute

// StartKeepAlive pings url on every tick until ctx is cancelled, keeping the
// hosting platform from idling the process. Pure ops plumbing: it never
// touches the stores.
func StartKeepAlive(ctx context.Context, url string, period time.Duration) {
	go func() {
		client := &http.Client{Timeout: 30 * time.Second}
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				resp, err := client.Get(url)
				if err != nil {
					logger.Get().Warn("keep-alive ping failed", zap.Error(err))
					continue
				}
				resp.Body.Close()
				logger.Get().Debug("keep-alive ping sent", zap.Int("status", resp.StatusCode))
			}
		}
	}()
}
