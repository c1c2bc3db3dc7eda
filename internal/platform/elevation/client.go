package elevation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/netinv-backend/internal/pkg/httpx"
	"github.com/yungbote/netinv-backend/internal/pkg/logger"
)

const (
	DefaultTimeout = 3 * time.Second

	maxAttempts   = 2
	retryBackoff  = 200 * time.Millisecond
	maxRetryDelay = time.Second
)

var ErrNoResult = errors.New("elevation: empty result")

// Client queries an Open-Elevation compatible endpoint:
// GET {base}?locations=lat,lon -> {"results":[{"elevation":123.4}]}.
type Client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

type httpError struct {
	StatusCode int
	Body       string
	retryAfter time.Duration
}

func (e *httpError) HTTPStatusCode() int { return e.StatusCode }

func (e *httpError) Error() string {
	return fmt.Sprintf("elevation http %d: %s", e.StatusCode, e.Body)
}

// New returns nil when baseURL is empty so callers can skip the lookup.
func New(log *logger.Logger, baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		log:        log.With("client", "ElevationClient"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Results []struct {
		Latitude  float64  `json:"latitude"`
		Longitude float64  `json:"longitude"`
		Elevation *float64 `json:"elevation"`
	} `json:"results"`
}

// Lookup retries once on 408, 429 and 5xx answers. Transport timeouts are
// not retried so one lookup stays close to the client timeout.
func (c *Client) Lookup(ctx context.Context, lat, lon float64) (float64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		v, err := c.lookupOnce(ctx, lat, lon)
		if err == nil {
			return v, nil
		}
		lastErr = err
		var he *httpError
		if !errors.As(err, &he) || !httpx.IsRetryableError(he) || attempt == maxAttempts {
			break
		}
		wait := httpx.Jitter(he.retryAfter)
		c.log.Debug("elevation retry", "status", he.StatusCode, "wait", wait)
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(wait):
		}
	}
	return 0, lastErr
}

func (c *Client) lookupOnce(ctx context.Context, lat, lon float64) (float64, error) {
	q := url.Values{}
	q.Set("locations", strconv.FormatFloat(lat, 'f', 6, 64)+","+strconv.FormatFloat(lon, 'f', 6, 64))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("elevation lookup: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, fmt.Errorf("elevation read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, &httpError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
			retryAfter: httpx.RetryAfter(resp, retryBackoff, maxRetryDelay),
		}
	}

	var out lookupResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return 0, fmt.Errorf("elevation decode: %w", err)
	}
	if len(out.Results) == 0 || out.Results[0].Elevation == nil {
		return 0, ErrNoResult
	}
	return *out.Results[0].Elevation, nil
}
