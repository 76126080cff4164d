package notifier

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lysyi3m/nga-monitor/app/config"
)

const (
	barkTimeout      = 5 * time.Second
	defaultBarkGroup = "NGA Reminder"
)

var _ Sink = (*BarkSink)(nil)

// BarkSink pushes events to a Bark server. Delivery is best-effort: any
// failure is logged and reported as an unsuccessful send, never retried.
type BarkSink struct {
	client *http.Client
	cfg    config.BarkConfig
}

func NewBarkSink(cfg config.BarkConfig) *BarkSink {
	return &BarkSink{
		client: &http.Client{Timeout: barkTimeout},
		cfg:    cfg,
	}
}

func (s *BarkSink) Name() string {
	return "bark"
}

func (s *BarkSink) Send(event Event) bool {
	if !s.cfg.Enabled {
		return false
	}

	endpoint, err := url.JoinPath(s.cfg.ServerURL, s.cfg.DeviceKey)
	if err != nil {
		slog.Warn("Invalid Bark server URL, skipping notification", "url", s.cfg.ServerURL, "error", err)
		return false
	}

	group := s.cfg.BarkGroup
	if group == "" {
		group = defaultBarkGroup
	}

	payload := map[string]string{
		"title": event.Title,
		"body":  event.Message,
		"group": group,
	}
	if event.URL != "" {
		payload["url"] = event.URL
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("Failed to serialize Bark payload", "error", err)
		return false
	}

	resp, err := s.client.Post(endpoint, "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Warn("Bark notification failed", "error", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Bark notification rejected", "status", resp.StatusCode)
		return false
	}

	return true
}
