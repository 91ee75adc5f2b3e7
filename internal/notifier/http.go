package notifier

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"news_watchdog/internal/domain"
)

type HTTPConfig struct {
	URL      string
	Password string
	Timeout  time.Duration
}

// HTTP posts alerts as a form with "message" and "password" fields.
// Any response counts as delivered; the status is only logged.
type HTTP struct {
	httpClient *http.Client
	url        string
	password   string
	logger     *slog.Logger
}

func NewHTTP(cfg HTTPConfig, logger *slog.Logger) *HTTP {
	return &HTTP{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		url:      cfg.URL,
		password: cfg.Password,
		logger:   logger.With("notifier", "http"),
	}
}

func (n *HTTP) Notify(ctx context.Context, alert domain.StaleAlert) error {
	form := url.Values{}
	form.Set("message", alert.Message)
	form.Set("password", n.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "NewsWatchdog/1.0")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	n.logger.Info("notification sent",
		"db", alert.Target.DB,
		"status", resp.StatusCode,
	)

	return nil
}
