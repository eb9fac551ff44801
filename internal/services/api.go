// Raw HTTP transport for the catalog API
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/desertthunder/rentx/internal/shared"
)

const defaultBaseURL = "http://localhost:3000"

// APIService performs raw HTTP requests against the catalog base endpoint.
//
// [CatalogService] builds on it; the CLI's api subcommands use it directly.
type APIService struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIService creates a new API service instance for the catalog at baseURL.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// BaseURL returns the endpoint requests are sent to.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the response has a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns nil for 2xx responses and otherwise an [shared.ErrAPIRequest] error carrying the backend's message.
func (r *APIResponse) Err() error {
	if r.OK() {
		return nil
	}
	if detail := errorDetail(r.Body); detail != "" {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, r.StatusCode, detail)
	}
	return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, r.StatusCode)
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, path, data)
}

// PostJSON marshals v and POSTs it to path.
func (a *APIService) PostJSON(ctx context.Context, path string, v any) (*APIResponse, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return a.Post(ctx, path, data)
}

func (a *APIService) do(ctx context.Context, method, path string, data []byte) (*APIResponse, error) {
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       raw,
	}

	var jsonData any
	if err := json.Unmarshal(raw, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// errorDetail extracts a human-readable message from an error body.
//
// Understands {"errors": ...}, {"error": "..."}, {"message": "..."} and {"detail": "..."}; falls back to the trimmed
// body when it is short plain text.
func errorDetail(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		text := strings.TrimSpace(string(body))
		if len(text) > 0 && len(text) <= 200 && !strings.HasPrefix(text, "<") {
			return text
		}
		return ""
	}

	for _, key := range []string{"errors", "error", "message", "detail"} {
		if v, ok := payload[key]; ok {
			if msg := flatten(v); msg != "" {
				return msg
			}
		}
	}
	return ""
}

// flatten turns nested error payloads (strings, lists, field maps) into a single line.
func flatten(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := flatten(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		parts := make([]string, 0, len(val))
		for field, item := range val {
			if s := flatten(item); s != "" {
				parts = append(parts, field+": "+s)
			}
		}
		sort.Strings(parts)
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}

func wrapTransport(err error) error {
	return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
}
