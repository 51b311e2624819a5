// Package parser calls the internal inference service that turns free-form
// resume text into the structured document shape.
package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"resume-studio/internal/model"
)

// Client calls the inference-service structuring endpoint.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient() *Client {
	base := os.Getenv("PARSER_SERVICE_URL")
	if base == "" {
		base = "http://parser-service:8000"
	}
	return &Client{BaseURL: base, HTTP: &http.Client{Timeout: 60 * time.Second}}
}

// doPostWithRetry performs an HTTP POST to the given path with retry/backoff.
func (c *Client) doPostWithRetry(ctx context.Context, path string, body []byte) (*http.Response, error) {
	attempts := 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

// ParseResume sends the raw text to the inference service and returns the
// structured document. The service is asked for a single JSON object; if it
// wraps the object in prose anyway, the outermost braces are extracted
// before decoding. The result always passes through shape normalization.
func (c *Client) ParseResume(ctx context.Context, userInput string) (model.Document, error) {
	reqBody, err := json.Marshal(map[string]string{"input": userInput})
	if err != nil {
		return model.Document{}, err
	}

	resp, err := c.doPostWithRetry(ctx, "/v1/structure", reqBody)
	if err != nil {
		return model.Document{}, fmt.Errorf("parser service: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Document{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return model.Document{}, fmt.Errorf("parser service returned status %d", resp.StatusCode)
	}

	var out struct {
		Output string `json:"output"`
	}
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return model.Document{}, fmt.Errorf("decode parser response: %w", err)
	}

	raw, err := extractObject(out.Output)
	if err != nil {
		return model.Document{}, err
	}
	return model.Normalize(raw), nil
}

// extractObject returns s when it is already a JSON object, otherwise the
// substring between the first '{' and the last '}'.
func extractObject(s string) ([]byte, error) {
	var probe map[string]interface{}
	if err := json.Unmarshal([]byte(s), &probe); err == nil {
		return []byte(s), nil
	}

	start := -1
	end := -1
	for i, r := range s {
		if r == '{' {
			start = i
			break
		}
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '}' {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return nil, errors.New("parser service returned non-json content")
	}
	sub := s[start : end+1]
	if err := json.Unmarshal([]byte(sub), &probe); err != nil {
		return nil, fmt.Errorf("parser service returned non-json content: %w", err)
	}
	return []byte(sub), nil
}
