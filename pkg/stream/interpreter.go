package stream

import "strings"

// Callbacks is the set of consumer hooks invoked while a session streams.
// Every field is optional; a nil callback is skipped, not an error.
type Callbacks struct {
	// OnChunk receives each text fragment together with the full content
	// accumulated so far. Consumers should render the accumulated value,
	// never append deltas to display state themselves.
	OnChunk func(chunk, accumulated string)

	// OnThought receives progress annotations.
	OnThought func(t Thinking)

	// OnMetaUpdate receives presentation metadata.
	OnMetaUpdate func(m Meta)

	// OnComplete fires once, on the done record, with the final content.
	OnComplete func(content string, md Metadata)

	// OnError fires once on terminal failure.
	OnError func(err error)
}

// Interpreter classifies decoded events and dispatches callbacks in arrival
// order. A single record may satisfy several branches (e.g. meta plus chunk);
// all applicable callbacks fire, in fixed priority order: error, meta,
// thinking, chunk, done. The interpreter owns content accumulation.
type Interpreter struct {
	cb       Callbacks
	content  strings.Builder
	terminal bool
}

// NewInterpreter returns an interpreter dispatching to cb.
func NewInterpreter(cb Callbacks) *Interpreter {
	return &Interpreter{cb: cb}
}

// Apply processes one event. It reports whether the event was terminal and,
// for an error record, the protocol error it carried. After a terminal event
// further calls are no-ops: no callback fires again for this session.
func (in *Interpreter) Apply(ev Event) (terminal bool, err error) {
	if in.terminal {
		return true, nil
	}

	if ev.Error != "" {
		in.terminal = true
		perr := &ProtocolError{Message: ev.Error}
		if in.cb.OnError != nil {
			in.cb.OnError(perr)
		}
		return true, perr
	}

	if ev.Meta != nil && in.cb.OnMetaUpdate != nil {
		in.cb.OnMetaUpdate(*ev.Meta)
	}
	if ev.Thinking != nil && in.cb.OnThought != nil {
		in.cb.OnThought(*ev.Thinking)
	}
	if ev.Chunk != "" {
		in.content.WriteString(ev.Chunk)
		if in.cb.OnChunk != nil {
			in.cb.OnChunk(ev.Chunk, in.content.String())
		}
	}
	if ev.Done {
		in.terminal = true
		if in.cb.OnComplete != nil {
			in.cb.OnComplete(in.content.String(), Metadata{
				Provider:  ev.Provider,
				Model:     ev.Model,
				CostUSD:   ev.CostUSD,
				Reasoning: ev.Reasoning,
			})
		}
		return true, nil
	}

	return false, nil
}

// Content returns the text accumulated so far, in arrival order.
func (in *Interpreter) Content() string {
	return in.content.String()
}

// Terminal reports whether a done or error record has been applied.
func (in *Interpreter) Terminal() bool {
	return in.terminal
}

// fail marks the interpreter terminal with err without consuming a record.
// The session controller uses it for transport failures and truncation.
func (in *Interpreter) fail(err error) {
	if in.terminal {
		return
	}
	in.terminal = true
	if in.cb.OnError != nil {
		in.cb.OnError(err)
	}
}
