package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/storyworld/internal/world"
)

// DefaultEndpoint is where the generation service listens by default.
const DefaultEndpoint = "http://localhost:8000/generate-world"

// cap error bodies; success bodies are read in full
const maxErrorBody = 64 << 10

// Client talks to the remote generation endpoint over HTTP.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

// NewClient builds a client. A nil httpClient means http.DefaultClient, so no
// timeout is enforced unless the caller configures one on the transport.
func NewClient(endpoint, token string, httpClient *http.Client) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = DefaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: strings.TrimSpace(endpoint), token: strings.TrimSpace(token), http: httpClient}
}

// NewClientWithTimeout is NewClient with a transport-level timeout; zero means none.
func NewClientWithTimeout(endpoint, token string, timeout time.Duration) *Client {
	return NewClient(endpoint, token, &http.Client{Timeout: timeout})
}

func (c *Client) Endpoint() string { return c.endpoint }

func (c *Client) SetToken(token string) {
	c.token = strings.TrimSpace(token)
}

// Generate makes exactly one request and classifies the outcome as a World,
// *ServiceError, *MalformedResponse or *TransportError.
func (c *Client) Generate(ctx context.Context, req world.Request) (world.World, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return world.World{}, fmt.Errorf("generation: marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return world.World{}, &TransportError{Err: err}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Printf("generation: request id=%s transport error: %v", requestID, err)
		return world.World{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()
	log.Printf("generation: request id=%s status=%d elapsed=%s", requestID, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return world.World{}, &ServiceError{Code: resp.StatusCode, Detail: errorDetail(resp, raw)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return world.World{}, &TransportError{Err: fmt.Errorf("read body: %w", err)}
	}
	w, err := world.Decode(raw)
	if err != nil {
		log.Printf("generation: request id=%s rejected payload: %v", requestID, err)
		return world.World{}, &MalformedResponse{Err: err}
	}
	w.FillFrom(req)
	return w, nil
}

// errorDetail pulls a message out of an error body: a string detail, a list of
// {msg} validation entries, or the status line when neither is present.
func errorDetail(resp *http.Response, raw []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if m := strings.TrimSpace(it.Msg); m != "" {
					msgs = append(msgs, m)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, statusText(resp))
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
