package arcgis

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yegor77/pipeline-portwatch/pkg/utils"
	"golang.org/x/time/rate"
)

// Client is a rate-limited HTTP client for an ArcGIS feature-query endpoint.
type Client struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
}

// Opts is the set of options for a new Client.
type Opts struct {
	URL         string
	Timeout     time.Duration
	RPS         float64
	Burst       int
	InsecureTLS bool
	HTTPClient  *http.Client
}

// NewClient creates a new Client with the given options.
func NewClient(o Opts) *Client {
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
	if o.Timeout <= 0 {
		o.Timeout = 60 * time.Second
	}

	client := o.HTTPClient
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if o.InsecureTLS {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via PORTWATCH_INSECURE_TLS
		}
		client = &http.Client{Timeout: o.Timeout, Transport: transport}
	} else if client.Timeout == 0 {
		client.Timeout = o.Timeout
	}

	return &Client{
		url:     o.URL,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(o.RPS), o.Burst),
	}
}

// Query issues one GET for the given page. Transport failures, non-2xx
// statuses, undecodable bodies and in-band service errors are all errors.
func (c *Client) Query(ctx context.Context, params QueryParams) (QueryResponse, error) {
	var out QueryResponse
	if err := c.limiter.Wait(ctx); err != nil {
		return out, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return out, err
	}
	req.URL.RawQuery = params.Values().Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return out, err
	}
	defer func() { _ = utils.DrainAndClose(resp.Body) }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return out, fmt.Errorf("http %d: %s", resp.StatusCode, string(snippet))
	}

	dec := json.NewDecoder(resp.Body)
	// Numeric attributes stay json.Number for lossless coercion.
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return out, fmt.Errorf("decode feature query response: %w", err)
	}
	if out.Error != nil {
		return out, out.Error
	}
	return out, nil
}
