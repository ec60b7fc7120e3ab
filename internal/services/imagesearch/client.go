package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kartei/internal/fileutil"
)

const (
	defaultBaseURL     = "https://api.openverse.org/v1"
	defaultHTTPTimeout = 30 * time.Second
	resultsPerQuery    = 5
	maxImageBytes      = 10 << 20
)

// Config captures the runtime settings for the image search API.
type Config struct {
	BaseURL        string
	License        string
	TimeoutSeconds int
}

// Client searches Openverse for openly licensed images and downloads the
// first usable result.
type Client struct {
	baseURL    string
	license    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an image search client from the supplied
// configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/"),
		license:    strings.TrimSpace(cfg.License),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.baseURL == "" {
		client.baseURL = defaultBaseURL
	}
	return client
}

type searchResponse struct {
	Results []struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"results"`
}

// Download searches for query and writes the first downloadable result to
// outPath. It returns false without error when the search yields nothing
// usable, so callers can distinguish "no image exists" from a failed call.
func (c *Client) Download(ctx context.Context, query, outPath string) (bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return false, errors.New("imagesearch: query required")
	}
	results, err := c.search(ctx, query)
	if err != nil {
		return false, err
	}
	var lastErr error
	for _, imageURL := range results {
		if err := c.fetchImage(ctx, imageURL, outPath); err != nil {
			lastErr = err
			continue
		}
		return true, nil
	}
	if lastErr != nil {
		return false, fmt.Errorf("imagesearch: no result downloadable: %w", lastErr)
	}
	return false, nil
}

// HealthCheck issues a minimal search to verify the API is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.search(ctx, "test"); err != nil {
		return fmt.Errorf("imagesearch health: %w", err)
	}
	return nil
}

func (c *Client) search(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("page_size", fmt.Sprintf("%d", resultsPerQuery))
	if c.license != "" {
		params.Set("license_type", c.license)
	}
	endpoint := c.baseURL + "/images/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("imagesearch: new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("imagesearch: http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("imagesearch: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("imagesearch: decode response: %w", err)
	}
	urls := make([]string, 0, len(parsed.Results))
	for _, result := range parsed.Results {
		if u := strings.TrimSpace(result.URL); u != "" {
			urls = append(urls, u)
		}
	}
	return urls, nil
}

func (c *Client) fetchImage(ctx context.Context, imageURL, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", imageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: http %d", imageURL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return errors.New("empty image body")
	}
	if err := fileutil.WriteFileAtomic(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	return nil
}
