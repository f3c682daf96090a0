package view

import (
	"fmt"
	"sync"

	"github.com/tooloo/tooloo-go/pkg/stream"
)

// Message is the renderable state of the in-progress (or finished) response.
type Message struct {
	Content   string
	Streaming bool
	Failed    bool
	ErrText   string
	Persona   string
	Metadata  stream.Metadata
}

// Projector folds session callbacks into a Message plus thought-log entries.
//
// Two rules it enforces for every consumer:
//   - displayed content is always the controller's accumulated value, never
//     locally appended deltas, so a replayed callback cannot cause drift;
//   - a superseded request never touches the view again (last request wins):
//     Begin hands out callbacks bound to a request generation, and stale
//     generations are dropped on arrival.
type Projector struct {
	mu       sync.Mutex
	gen      int64
	msg      Message
	thoughts *ThoughtLog
}

// NewProjector builds a projector logging thoughts into log (a fresh
// default-bounded log when nil).
func NewProjector(log *ThoughtLog) *Projector {
	if log == nil {
		log = NewThoughtLog(0)
	}
	return &Projector{thoughts: log}
}

// Thoughts exposes the bounded thought log for rendering.
func (p *Projector) Thoughts() *ThoughtLog {
	return p.thoughts
}

// Snapshot returns the current message state.
func (p *Projector) Snapshot() Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.msg
}

// Begin starts a new request generation: the view shows a fresh in-progress
// placeholder and the returned callbacks update it. Callbacks from any
// earlier generation become no-ops from this point on.
func (p *Projector) Begin() stream.Callbacks {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.msg = Message{Streaming: true}
	p.mu.Unlock()

	return stream.Callbacks{
		OnChunk: func(_, accumulated string) {
			p.update(gen, func(m *Message) {
				m.Content = accumulated
			})
		},
		OnThought: func(t stream.Thinking) {
			if !p.current(gen) {
				return
			}
			text := t.Stage
			if t.Message != "" {
				text = fmt.Sprintf("%s: %s", t.Stage, t.Message)
			}
			p.thoughts.Append(text, EntryInfo)
		},
		OnMetaUpdate: func(m stream.Meta) {
			p.update(gen, func(msg *Message) {
				msg.Persona = m.Persona
			})
			if p.current(gen) && m.VisualEnabled {
				p.thoughts.Append("visual mode: "+m.VisualType, EntryInfo)
			}
		},
		OnComplete: func(content string, md stream.Metadata) {
			p.update(gen, func(m *Message) {
				m.Content = content
				m.Metadata = md
				m.Streaming = false
			})
			if p.current(gen) {
				p.thoughts.Append(fmt.Sprintf("response complete via %s/%s", md.Provider, md.Model), EntrySuccess)
			}
		},
		OnError: func(err error) {
			p.update(gen, func(m *Message) {
				m.Content = ""
				m.ErrText = err.Error()
				m.Failed = true
				m.Streaming = false
			})
			if p.current(gen) {
				p.thoughts.Append(err.Error(), EntryError)
			}
		},
	}
}

func (p *Projector) current(gen int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return gen == p.gen
}

func (p *Projector) update(gen int64, fn func(*Message)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return
	}
	fn(&p.msg)
}
