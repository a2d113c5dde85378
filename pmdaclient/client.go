// Package pmdaclient implements the HTTP boundary against the PMDA search
// site: session handling, form payloads, retry with backoff on transient
// failures, outbound rate limiting, and character-set decoding.
package pmdaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/giygas/pmda-datasets/config"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/giygas/pmda-datasets/metrics"
	"github.com/go-resty/resty/v2"
	"github.com/juju/ratelimit"
)

const BaseURL = "https://www.pmda.go.jp"

type ctxKey int

const endpointKey ctxKey = 0

// Client talks to the PMDA search endpoints. The search client and the
// export client share one cookie jar (the CSV export is only valid within
// the session that ran the search) and one token bucket so the combined
// request rate stays polite.
type Client struct {
	search *resty.Client
	export *resty.Client
	bucket *ratelimit.Bucket
}

// NewClient builds a client from configuration. The export client uses the
// longer timeout because the CSV export streams up to 1000 rows.
func NewClient(cfg *config.Config) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	// One token per request, refilled at the configured rate. Capacity 1
	// keeps bursts out entirely; the site is rate sensitive.
	bucket := ratelimit.NewBucketWithRate(cfg.RequestRate, 1)

	c := &Client{bucket: bucket}
	c.search = c.newResty(cfg, jar, time.Duration(cfg.HTTPTimeout)*time.Second)
	c.export = c.newResty(cfg, jar, time.Duration(cfg.ExportTimeout)*time.Second)
	return c, nil
}

func (c *Client) newResty(cfg *config.Config, jar http.CookieJar, timeout time.Duration) *resty.Client {
	r := resty.New().
		SetCookieJar(jar).
		SetTimeout(timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept-Language", "ja,en;q=0.8").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(time.Duration(cfg.RetryWaitMs) * time.Millisecond).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			// Transient: network error or 5xx. 4xx is permanent.
			return err != nil || resp.StatusCode() >= 500
		}).
		AddRetryHook(func(resp *resty.Response, err error) {
			endpoint := endpointFrom(resp)
			metrics.FetchRetriesTotal.WithLabelValues(endpoint).Inc()
			logging.Warn("Retrying PMDA request", "endpoint", endpoint, "error", err)
		})

	r.OnBeforeRequest(func(_ *resty.Client, _ *resty.Request) error {
		c.bucket.Wait(1)
		return nil
	})

	return r
}

func endpointFrom(resp *resty.Response) string {
	if resp == nil || resp.Request == nil {
		return "unknown"
	}
	if v, ok := resp.Request.Context().Value(endpointKey).(string); ok {
		return v
	}
	return "unknown"
}

// get issues a GET and returns the decoded response body.
func (c *Client) get(endpoint, link string) (string, error) {
	resp, err := c.search.R().
		SetContext(context.WithValue(context.Background(), endpointKey, endpoint)).
		Get(link)
	return c.finish(endpoint, resp, err)
}

// postForm issues a form POST on the given resty client and returns the
// decoded response body.
func (c *Client) postForm(rc *resty.Client, endpoint, link string, form url.Values) (string, error) {
	resp, err := rc.R().
		SetContext(context.WithValue(context.Background(), endpointKey, endpoint)).
		SetFormDataFromValues(form).
		Post(link)
	return c.finish(endpoint, resp, err)
}

func (c *Client) finish(endpoint string, resp *resty.Response, err error) (string, error) {
	if err != nil {
		metrics.FetchTotal.WithLabelValues(endpoint, "error").Inc()
		return "", fmt.Errorf("%s request failed: %w", endpoint, err)
	}

	metrics.FetchTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode())).Inc()

	if resp.IsError() {
		return "", fmt.Errorf("%s request failed: status %d", endpoint, resp.StatusCode())
	}

	return DecodeText(resp.Body()), nil
}
