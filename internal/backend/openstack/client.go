// Package openstack is a thin REST client for the Keystone v3 identity
// API and the Neutron v2.0 network API. Authentication is out of scope;
// a pre-issued token comes from configuration and is sent as
// X-Auth-Token. No retries, no backoff: failures surface to the engine
// unchanged.
package openstack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cloudsync-io/identity-sync/internal/config"
	"github.com/cloudsync-io/identity-sync/internal/metrics"
)

type Httper interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	identityURL string
	networkURL  string
	token       string
	http        Httper
	metrics     *metrics.Metrics
}

func New(cfg config.Backend, metrics *metrics.Metrics) (*Client, error) {
	if cfg.IdentityURL == "" {
		return nil, fmt.Errorf("identity API URL required")
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("auth token required")
	}
	return &Client{
		identityURL: strings.TrimSuffix(cfg.IdentityURL, "/"),
		networkURL:  strings.TrimSuffix(cfg.NetworkURL, "/"),
		token:       cfg.Token,
		http:        &http.Client{Timeout: 30 * time.Second},
		metrics:     metrics,
	}, nil
}

// do issues one request and decodes the JSON response envelope into out
// when out is non-nil. Any non-2xx status is an error.
func (c *Client) do(ctx context.Context, method, url string, body, out any, op, kind string) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("X-Auth-Token", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.IncBackendRequest(op, kind, false)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.IncBackendRequest(op, kind, false)
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: status=%d detail=%s", method, url, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.metrics.IncBackendRequest(op, kind, false)
			return fmt.Errorf("parse %s response: %w", kind, err)
		}
	}
	c.metrics.IncBackendRequest(op, kind, true)
	slog.Debug("Backend request", "method", method, "url", url, "status", resp.StatusCode)
	return nil
}
