// Package docs is the boundary to the remote Context7 documentation index.
// The index itself is an external service; this client only speaks its two
// read endpoints and normalizes "nothing there" answers for the handlers.
package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production documentation index.
const DefaultBaseURL = "https://context7.com/api"

// Sentinel bodies the index returns instead of an empty response when a
// library exists but has no usable documentation.
const (
	noContentBody     = "No content available"
	noContextDataBody = "No context data available"
)

// SearchResult is one library candidate returned by the index.
type SearchResult struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	TotalSnippets int    `json:"totalSnippets"`
	Stars         int    `json:"stars"`
}

// SearchResponse wraps the result list. Results stays nil when the index
// answered without a result list at all, which callers treat differently
// from an empty list.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
}

// FetchOptions are the per-request knobs forwarded to the fetch endpoint.
// Zero values are omitted from the query string.
type FetchOptions struct {
	Tokens  int
	Topic   string
	Folders string
	Lang    string
	Version string
}

// Client talks to the documentation index over HTTP. The embedded
// http.Client manages its own connection pooling; no retries and no
// per-call timeouts are applied here, so a hung request stalls only its
// own caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient returns a client against baseURL (DefaultBaseURL in production,
// a test server in tests).
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Search queries the index for libraries matching query.
func (c *Client) Search(ctx context.Context, query string) (*SearchResponse, error) {
	u := c.baseURL + "/v1/search?query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("X-Context7-Source", "mcp-server")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching libraries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("query", query).Msg("search request rejected")
		return nil, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return &result, nil
}

// Fetch retrieves documentation text for a library id. An empty string with
// a nil error means the index has nothing for that id; callers decide how to
// surface that.
func (c *Client) Fetch(ctx context.Context, id string, opts FetchOptions) (string, error) {
	values := url.Values{}
	values.Set("type", "txt")
	if opts.Tokens > 0 {
		values.Set("tokens", strconv.Itoa(opts.Tokens))
	}
	if opts.Topic != "" {
		values.Set("topic", opts.Topic)
	}
	if opts.Folders != "" {
		values.Set("folders", opts.Folders)
	}
	if opts.Lang != "" {
		values.Set("lang", opts.Lang)
	}
	if opts.Version != "" {
		values.Set("pythonVersion", opts.Version)
	}

	u := c.baseURL + "/v1/" + strings.TrimLeft(id, "/") + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building fetch request: %w", err)
	}
	req.Header.Set("X-Context7-Source", "mcp-server")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching documentation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("id", id).Msg("fetch request rejected")
		return "", fmt.Errorf("fetch request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading documentation body: %w", err)
	}

	text := strings.TrimSpace(string(body))
	if text == "" || text == noContentBody || text == noContextDataBody {
		return "", nil
	}
	return string(body), nil
}
