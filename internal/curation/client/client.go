// Package client speaks the curation backend's REST surface. All six
// endpoints live under /api/curation and are scoped to a persona via a query
// parameter. The client is stateless; callers own any caching of responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lunahq/curator/internal/curation"
)

const defaultTimeout = 120 * time.Second

// Client is a curation API client bound to one backend and persona.
type Client struct {
	baseURL    string
	persona    string
	httpClient *http.Client
}

// Option customizes client construction.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Scoring requests run a vision
// model server-side, so the default is deliberately long.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a client for the backend at baseURL, scoped to persona.
func New(baseURL, persona string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		persona: persona,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Persona returns the persona scope this client was built for.
func (c *Client) Persona() string {
	return c.persona
}

// imagesResponse wraps the image list endpoint's envelope.
type imagesResponse struct {
	Images []curation.Image `json:"images"`
}

// ScoreResult is the backend's verdict for one scored image.
type ScoreResult struct {
	Score          float64                 `json:"score"`
	Recommendation curation.Recommendation `json:"recommendation"`
	FaceMatch      *float64                `json:"face_match"`
	HairMatch      *float64                `json:"hair_match"`
	BodyMatch      *float64                `json:"body_match"`
	Issues         []string                `json:"issues"`
}

type resetResponse struct {
	Reset int `json:"reset"`
}

// FetchImages retrieves the image list for the given filter tab. Filtering is
// server-side: the returned slice is exactly what the backend selected.
func (c *Client) FetchImages(ctx context.Context, filter curation.Filter) ([]curation.Image, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("client: unknown filter %q", filter)
	}
	query := c.personaQuery()
	query.Set("filter_status", string(filter))
	var out imagesResponse
	if err := c.getJSON(ctx, "/api/curation/images", query, &out); err != nil {
		return nil, err
	}
	return out.Images, nil
}

// FetchStats retrieves the aggregate counter snapshot.
func (c *Client) FetchStats(ctx context.Context) (curation.Stats, error) {
	var out curation.Stats
	if err := c.getJSON(ctx, "/api/curation/stats", c.personaQuery(), &out); err != nil {
		return curation.Stats{}, err
	}
	return out, nil
}

// Score asks the backend to score one image.
func (c *Client) Score(ctx context.Context, imagePath string) (ScoreResult, error) {
	var out ScoreResult
	body := map[string]any{"image_path": imagePath}
	if err := c.postJSON(ctx, "/api/curation/score", nil, body, &out); err != nil {
		return ScoreResult{}, err
	}
	return out, nil
}

// ResetScores clears every score for the persona and returns how many files
// the backend reset.
func (c *Client) ResetScores(ctx context.Context) (int, error) {
	var out resetResponse
	if err := c.postJSON(ctx, "/api/curation/reset-scores", c.personaQuery(), nil, &out); err != nil {
		return 0, err
	}
	return out.Reset, nil
}

// Approve marks one image approved.
func (c *Client) Approve(ctx context.Context, imagePath string) error {
	body := map[string]any{"image_path": imagePath}
	return c.postJSON(ctx, "/api/curation/approve", nil, body, nil)
}

// Reject marks one image rejected. When del is true the backend also removes
// the underlying file.
func (c *Client) Reject(ctx context.Context, imagePath string, del bool) error {
	body := map[string]any{"image_path": imagePath, "delete": del}
	return c.postJSON(ctx, "/api/curation/reject", nil, body, nil)
}

func (c *Client) personaQuery() url.Values {
	query := url.Values{}
	query.Set("persona", c.persona)
	return query
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) endpoint(path string, query url.Values) string {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("client: %s %s returned status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode %s response: %w", req.URL.Path, err)
	}
	return nil
}
