// Package mining crawls a code-hosting search API for short Python source
// files and turns them into dataset samples.
package mining

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Repository is the subset of the search API's repository object we use.
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Stars    int    `json:"stargazers_count"`
}

// ContentEntry is one item of a repository contents listing.
type ContentEntry struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Type    string `json:"type"` // "file" or "dir"
	Size    int    `json:"size"`
	HTMLURL string `json:"html_url"`
}

// Client talks to the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a GitHub API client. An empty baseURL uses the public
// API; an empty token sends unauthenticated requests (low rate limits).
func NewClient(baseURL, token string, poolSize int) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  newPooledHTTPClient(poolSize, 30*time.Second),
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s status %d: %s", path, resp.StatusCode, errBody)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// SearchRepositories runs a repository search and returns up to limit
// results, following pagination as needed.
func (c *Client) SearchRepositories(ctx context.Context, query, sort, order string, limit int) ([]Repository, error) {
	var repos []Repository
	perPage := limit
	if perPage > 100 {
		perPage = 100
	}

	for page := 1; len(repos) < limit; page++ {
		q := url.Values{}
		q.Set("q", query)
		q.Set("sort", sort)
		q.Set("order", order)
		q.Set("per_page", strconv.Itoa(perPage))
		q.Set("page", strconv.Itoa(page))

		var result struct {
			TotalCount int          `json:"total_count"`
			Items      []Repository `json:"items"`
		}
		if err := c.get(ctx, "/search/repositories", q, &result); err != nil {
			return nil, fmt.Errorf("search repositories: %w", err)
		}
		if len(result.Items) == 0 {
			break
		}
		repos = append(repos, result.Items...)
	}

	if len(repos) > limit {
		repos = repos[:limit]
	}
	return repos, nil
}

// ListContents lists directory entries at path within a repository.
// path "" lists the repository root.
func (c *Client) ListContents(ctx context.Context, repoFullName, path string) ([]ContentEntry, error) {
	var entries []ContentEntry
	if err := c.get(ctx, "/repos/"+repoFullName+"/contents/"+path, nil, &entries); err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return entries, nil
}

// FileContent fetches and decodes a file's content.
func (c *Client) FileContent(ctx context.Context, repoFullName, path string) (string, error) {
	var file struct {
		Content  string `json:"content"`
		Encoding string `json:"encoding"`
	}
	if err := c.get(ctx, "/repos/"+repoFullName+"/contents/"+path, nil, &file); err != nil {
		return "", fmt.Errorf("file content: %w", err)
	}
	if file.Encoding != "base64" {
		return "", fmt.Errorf("file content: unexpected encoding %q", file.Encoding)
	}
	// The API wraps base64 payloads with newlines.
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(file.Content, "\n", ""))
	if err != nil {
		return "", fmt.Errorf("file content decode: %w", err)
	}
	return string(decoded), nil
}

// newPooledHTTPClient creates an http.Client with connection pooling and
// tuned transport.
func newPooledHTTPClient(poolSize int, timeout time.Duration) *http.Client {
	if poolSize <= 0 {
		poolSize = 10
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:          poolSize,
			MaxIdleConnsPerHost:   poolSize,
			IdleConnTimeout:       90 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			ForceAttemptHTTP2:     true,
		},
	}
}
