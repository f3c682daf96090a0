// Package stream implements the client side of the Tooloo streaming chat
// protocol: decoding `data:`-framed event lines from an HTTP response body,
// interpreting them into callbacks, and driving one request's lifecycle.
package stream

// Event is one decoded record from a single `data: `-prefixed line of the
// response body. At most one of Chunk, Done, Error carries the primary
// payload; Meta and Thinking may ride along with any of them.
type Event struct {
	// Chunk is an incremental text fragment to append to the response.
	Chunk string `json:"chunk,omitempty"`

	// Done marks normal completion. Provider, Model, CostUSD and Reasoning
	// are only meaningful on the record that carries it.
	Done bool `json:"done,omitempty"`

	// Error marks terminal failure, mutually exclusive with Done.
	Error string `json:"error,omitempty"`

	Provider  string  `json:"provider,omitempty"`
	Model     string  `json:"model,omitempty"`
	CostUSD   float64 `json:"cost_usd,omitempty"`
	Reasoning string  `json:"reasoning,omitempty"`

	// Meta is side-channel descriptive metadata, not part of content.
	Meta *Meta `json:"meta,omitempty"`

	// Thinking is a progress annotation surfaced for UI display.
	Thinking *Thinking `json:"thinking,omitempty"`
}

// Meta describes how the backend intends to present the response.
type Meta struct {
	Persona       string `json:"persona,omitempty"`
	VisualEnabled bool   `json:"visualEnabled,omitempty"`
	VisualType    string `json:"visualType,omitempty"`
}

// Thinking is a routing/progress annotation (e.g. "routing to provider X").
type Thinking struct {
	Stage   string `json:"stage"`
	Message string `json:"message,omitempty"`
}

// Metadata identifies which backend model produced a completed response.
// It is populated from the terminal done record.
type Metadata struct {
	Provider  string
	Model     string
	CostUSD   float64
	Reasoning string
}

// Result is the final outcome of a completed streaming session.
type Result struct {
	Content  string
	Metadata Metadata
}
