package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const maxResponseBytes = 4 << 20

// Classify posts to class-2.0 with the detailed flag on.
func (c *implClient) Classify(ctx context.Context, key, text string) (*ClassResponse, error) {
	form := url.Values{
		"key":      {key},
		"txt":      {text},
		"model":    {c.classModel},
		"detailed": {"1"},
	}

	var resp ClassResponse
	if err := c.post(ctx, "/class-2.0", form, &resp); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return &resp, nil
}

// Topics posts to topics-2.0 for entities and concepts above the relevance floor.
func (c *implClient) Topics(ctx context.Context, key, text string) (*TopicsResponse, error) {
	form := url.Values{
		"key":           {key},
		"txt":           {text},
		"lang":          {c.language},
		"tt":            {c.topicsMode},
		"min_relevance": {strconv.Itoa(c.minRelevance)},
	}

	var resp TopicsResponse
	if err := c.post(ctx, "/topics-2.0", form, &resp); err != nil {
		return nil, fmt.Errorf("topics: %w", err)
	}
	return &resp, nil
}

func (c *implClient) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	// The service reports most failures in the status block, so decode before
	// looking at the HTTP code.
	if err := json.Unmarshal(body, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if sr, ok := out.(interface{ status() *Status }); !ok || sr.status() == nil {
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(body), 200))
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
