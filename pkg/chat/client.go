package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tooloo/tooloo-go/pkg/httpx"
	"github.com/tooloo/tooloo-go/pkg/stream"
)

// DefaultBaseURL matches the backend's local development address.
const DefaultBaseURL = "http://localhost:4000/api/v1"

// Client talks to one Tooloo backend. It is safe for concurrent use; each
// streaming call owns its own session.
type Client struct {
	baseURL     string
	streamHTTP  *http.Client
	restHTTP    *http.Client
	token       string
	idleTimeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets a bearer token attached to every request.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// WithStreamIdleTimeout bounds the gap between stream records. Zero disables.
func WithStreamIdleTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.idleTimeout = d }
}

// WithHTTPClients overrides the underlying transports, mainly for tests.
func WithHTTPClients(streaming, rest *http.Client) ClientOption {
	return func(c *Client) {
		c.streamHTTP = streaming
		c.restHTTP = rest
	}
}

// NewClient builds a client for baseURL (DefaultBaseURL when empty).
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		streamHTTP:  httpx.NewDefaultClient(),
		restHTTP:    httpx.NewRESTClient(0),
		idleTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewChatSession prepares a streaming session against the chat endpoint.
// Callers that need mid-stream cancellation hold the session and call
// Cancel; everyone else can use Stream directly.
func (c *Client) NewChatSession() *stream.Session {
	opts := []stream.Option{stream.WithIdleTimeout(c.idleTimeout)}
	if c.token != "" {
		opts = append(opts, stream.WithHeader("Authorization", "Bearer "+c.token))
	}
	return stream.NewSession(c.streamHTTP, c.baseURL+"/chat/stream", opts...)
}

// Stream sends req and drives the response stream to completion, invoking cb
// per record. A missing SessionID is filled with a generated id; a missing
// Mode defaults to quick.
func (c *Client) Stream(ctx context.Context, req Request, cb stream.Callbacks) (stream.Result, error) {
	req = c.fill(req)
	if err := req.validate(); err != nil {
		return stream.Result{}, err
	}
	return c.NewChatSession().Start(ctx, req, cb)
}

// StreamWith is Stream against a caller-held session, so the caller can
// cancel it while it runs.
func (c *Client) StreamWith(ctx context.Context, s *stream.Session, req Request, cb stream.Callbacks) (stream.Result, error) {
	req = c.fill(req)
	if err := req.validate(); err != nil {
		return stream.Result{}, err
	}
	return s.Start(ctx, req, cb)
}

func (c *Client) fill(req Request) Request {
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.Mode == "" {
		req.Mode = ModeQuick
	}
	return req
}

// envelope is the backend's wrapper for auxiliary responses. Older endpoints
// use `ok`, newer ones `success`; either means the call worked.
type envelope struct {
	OK      bool            `json:"ok"`
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data"`
}

// Status fetches the system status document.
func (c *Client) Status(ctx context.Context) (SystemStatus, error) {
	var out SystemStatus
	err := c.getJSON(ctx, "/system/status", &out)
	return out, err
}

// Providers fetches the provider list.
func (c *Client) Providers(ctx context.Context) ([]ProviderInfo, error) {
	var out []ProviderInfo
	err := c.getJSON(ctx, "/providers", &out)
	return out, err
}

// Health fetches a point-in-time health snapshot. The health monitor uses it
// as the polling fallback when the realtime socket stays down.
func (c *Client) Health(ctx context.Context) (HealthSnapshot, error) {
	var out HealthSnapshot
	err := c.getJSON(ctx, "/system/health", &out)
	return out, err
}

// ListArtifacts fetches saved creation-space cards.
func (c *Client) ListArtifacts(ctx context.Context) ([]Artifact, error) {
	var out []Artifact
	err := c.getJSON(ctx, "/artifacts", &out)
	return out, err
}

// SaveArtifact persists a card and returns it with its assigned id.
func (c *Client) SaveArtifact(ctx context.Context, a Artifact) (Artifact, error) {
	var out Artifact
	err := c.doJSON(ctx, http.MethodPost, "/artifacts", a, &out)
	return out, err
}

// DeleteArtifact removes a saved card.
func (c *Client) DeleteArtifact(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/artifacts/"+id, nil, nil)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("chat: marshal %s %s body: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("chat: build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.restHTTP.Do(req)
	if err != nil {
		return fmt.Errorf("chat: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("chat: read %s %s response: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("chat: %s %s returned status %d", method, path, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("chat: parse %s %s response: %w", method, path, err)
	}
	if !env.OK && !env.Success {
		if env.Error != "" {
			return fmt.Errorf("chat: %s %s: %s", method, path, env.Error)
		}
		return fmt.Errorf("chat: %s %s: backend reported failure", method, path)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("chat: parse %s %s data: %w", method, path, err)
	}
	return nil
}
