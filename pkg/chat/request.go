// Package chat is the client for the Tooloo assistant backend: the streaming
// chat endpoint plus the small auxiliary REST surface (system status,
// provider list, health, artifacts).
package chat

import "fmt"

// Chat modes understood by the backend router.
const (
	ModeQuick    = "quick"
	ModeCreative = "creative"
	ModeDeep     = "deep"
)

// Request is the body POSTed to the streaming chat endpoint. Message and
// SessionID are required by the wire contract; the client fills SessionID
// with a generated id when the caller leaves it empty.
type Request struct {
	Message   string         `json:"message"`
	Mode      string         `json:"mode"`
	SessionID string         `json:"sessionId"`
	Provider  string         `json:"provider,omitempty"`
	Model     string         `json:"model,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

func (r Request) validate() error {
	if r.Message == "" {
		return fmt.Errorf("chat: request message must not be empty")
	}
	if r.SessionID == "" {
		return fmt.Errorf("chat: request sessionId must not be empty")
	}
	return nil
}

// ProviderInfo describes one backend provider as reported by the provider
// list endpoint.
type ProviderInfo struct {
	Name      string   `json:"name"`
	Models    []string `json:"models"`
	Available bool     `json:"available"`
	Default   bool     `json:"default"`
}

// SystemStatus is the system status endpoint's payload.
type SystemStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	ActiveModel   string  `json:"activeModel"`
	TotalCostUSD  float64 `json:"totalCostUsd"`
}

// HealthSnapshot is the point-in-time health document, also used by the
// health monitor's polling fallback.
type HealthSnapshot struct {
	Status    string             `json:"status"`
	LatencyMS float64            `json:"latencyMs"`
	Providers map[string]string  `json:"providers,omitempty"`
	Scores    map[string]float64 `json:"scores,omitempty"`
}

// Artifact is a saved creation-space card.
type Artifact struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
	Created  string `json:"created,omitempty"`
}
