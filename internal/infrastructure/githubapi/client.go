// Package githubapi implements the board gateway against the GitHub
// GraphQL API and the issue host against the REST API.
package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// DefaultEndpoint is the hosted GraphQL endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

// requestTimeout bounds every API call. Calls are attempted exactly
// once; a timeout surfaces as a failed call, never a retry.
const requestTimeout = 30 * time.Second

// APIError carries the error payload of a GraphQL response.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("graphql: %s", strings.Join(e.Messages, "; "))
}

// Client is a minimal GraphQL client: one POST per query, bearer auth,
// typed decoding into the caller's response struct.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient builds a client authenticated with the given token.
func NewClient(endpoint, token string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = requestTimeout
	return &Client{endpoint: endpoint, http: httpClient}
}

// Do posts one query and decodes the data payload into out. GraphQL
// errors become an *APIError even when the server answers 200.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	reqBody, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		apiErr := &APIError{}
		for _, e := range envelope.Errors {
			apiErr.Messages = append(apiErr.Messages, e.Message)
		}
		return apiErr
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode data payload: %w", err)
		}
	}
	return nil
}
