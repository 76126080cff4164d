package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"github.com/lysyi3m/nga-monitor/app/config"
)

const defaultTimeout = 30 * time.Second

// ConfigSource supplies the current crawler configuration. Credentials are
// read on every request so a passport update takes effect without a restart.
type ConfigSource interface {
	CrawlerConfig() config.CrawlerConfig
}

type Crawler struct {
	client *http.Client
	source ConfigSource
}

func New(source ConfigSource) *Crawler {
	timeout := defaultTimeout
	if t := source.CrawlerConfig().Timeout; t > 0 {
		timeout = time.Duration(t) * time.Second
	}

	return &Crawler{
		client: &http.Client{Timeout: timeout},
		source: source,
	}
}

// FetchPage retrieves one page of a thread. A non-success HTTP status yields
// a TransportError; a payload without the success marker yields a ContentError.
func (c *Crawler) FetchPage(ctx context.Context, tid, page uint64) (*Page, error) {
	cfg := c.source.CrawlerConfig()

	form := url.Values{
		"tid":  {strconv.FormatUint(tid, 10)},
		"page": {strconv.FormatUint(page, 10)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.APIURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", fmt.Sprintf("ngaPassportUid=%s; ngaPassportCid=%s",
		cfg.NGAPassportUID, cfg.NGAPassportCID))
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch thread page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Thread page fetch returned non-success status", "tid", tid,
			"page", page, "status", resp.StatusCode)
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	body := io.Reader(resp.Body)
	if strings.EqualFold(cfg.ResponseCharset, "gbk") {
		body = transform.NewReader(body, simplifiedchinese.GBK.NewDecoder())
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var envelope struct {
		Code *int `json:"code"`
		Page
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		slog.Warn("Thread page response did not decode", "tid", tid, "page", page, "error", err)
		return nil, &ContentError{Body: string(data)}
	}
	if envelope.Code == nil || *envelope.Code != 0 {
		slog.Warn("Thread page response missing success marker", "tid", tid, "page", page)
		return nil, &ContentError{Body: string(data)}
	}

	result := envelope.Page
	result.TID = tid
	result.CurrentPage = page
	for i := range result.Posts {
		result.Posts[i].TID = tid
		result.Posts[i].Page = page
		result.Posts[i].ThreadTitle = result.Title
	}

	return &result, nil
}
