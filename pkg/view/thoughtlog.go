// Package view folds streaming callbacks into renderable UI state: the
// in-progress message and the bounded thought log shown beside it.
package view

import (
	"sync"
	"time"
)

// EntryType classifies a thought-log entry for rendering.
type EntryType string

const (
	EntryInfo    EntryType = "info"
	EntrySuccess EntryType = "success"
	EntryError   EntryType = "error"
)

// ThoughtLogEntry is one progress annotation. Entries are immutable once
// appended.
type ThoughtLogEntry struct {
	ID   int64
	Text string
	Type EntryType
	Time time.Time
}

// DefaultThoughtLogBound keeps the recent window small enough to render as a
// sidebar.
const DefaultThoughtLogBound = 12

// ThoughtLog is an append-only ring of recent entries. Once the bound is
// exceeded the oldest entry is evicted; past entries are never mutated.
// Safe for concurrent use.
type ThoughtLog struct {
	mu      sync.Mutex
	bound   int
	nextID  int64
	entries []ThoughtLogEntry
}

// NewThoughtLog builds a log bounded to n entries (DefaultThoughtLogBound
// when n <= 0).
func NewThoughtLog(n int) *ThoughtLog {
	if n <= 0 {
		n = DefaultThoughtLogBound
	}
	return &ThoughtLog{bound: n}
}

// Append adds an entry and returns it. The oldest entry is dropped when the
// log is full.
func (l *ThoughtLog) Append(text string, typ EntryType) ThoughtLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	e := ThoughtLogEntry{ID: l.nextID, Text: text, Type: typ, Time: time.Now()}
	l.entries = append(l.entries, e)
	if len(l.entries) > l.bound {
		l.entries = l.entries[len(l.entries)-l.bound:]
	}
	return e
}

// Entries returns a copy of the current window, oldest first.
func (l *ThoughtLog) Entries() []ThoughtLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ThoughtLogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len reports how many entries are currently retained.
func (l *ThoughtLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
