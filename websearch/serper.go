package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultSerperBaseURL = "https://google.serper.dev"

// SerperConfig configures the Serper client.
type SerperConfig struct {
	// APIKey authenticates against the Serper API. Required.
	APIKey string
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
	// HTTPClient overrides the transport. Defaults to a 15s-timeout client.
	HTTPClient *http.Client
	// NumResults caps how many organic results are requested. Default 5.
	NumResults int
}

// SerperClient queries the Serper search API (serper.dev).
type SerperClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	numResults int
}

func NewSerper(cfg SerperConfig) (*SerperClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serper: API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSerperBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	numResults := cfg.NumResults
	if numResults <= 0 {
		numResults = 5
	}
	return &SerperClient{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		numResults: numResults,
	}, nil
}

type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	AnswerBox struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
	} `json:"answerBox"`
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

// Search posts the query and aggregates the answer box plus organic snippets
// into one text block. A response with nothing usable yields NoResultText,
// never an empty string.
func (c *SerperClient) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(serperRequest{Query: query, Num: c.numResults})
	if err != nil {
		return "", fmt.Errorf("serper: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("serper: build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("serper: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("serper: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("serper: decode response: %w", err)
	}

	var parts []string
	if parsed.AnswerBox.Answer != "" {
		parts = append(parts, parsed.AnswerBox.Answer)
	} else if parsed.AnswerBox.Snippet != "" {
		parts = append(parts, parsed.AnswerBox.Snippet)
	}
	for _, r := range parsed.Organic {
		if r.Snippet == "" {
			continue
		}
		if r.Title != "" {
			parts = append(parts, fmt.Sprintf("%s\n%s", r.Title, r.Snippet))
		} else {
			parts = append(parts, r.Snippet)
		}
	}

	if len(parts) == 0 {
		return NoResultText, nil
	}
	return strings.Join(parts, "\n\n"), nil
}
