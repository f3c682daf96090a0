package stream

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func collectEvents(t *testing.T, d *Decoder) []Event {
	t.Helper()
	var events []Event
	for {
		ev, err := d.Next()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		events = append(events, ev)
	}
}

func TestDecoder_Next(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Event
	}{
		{
			name:  "chunks then done",
			input: "data: {\"chunk\":\"Hel\"}\ndata: {\"chunk\":\"lo\"}\ndata: {\"done\":true,\"provider\":\"openai\",\"model\":\"gpt-4o\"}\n",
			want: []Event{
				{Chunk: "Hel"},
				{Chunk: "lo"},
				{Done: true, Provider: "openai", Model: "gpt-4o"},
			},
		},
		{
			name:  "garbage lines are skipped silently",
			input: "garbage-not-json\n\n: keepalive\ndata: {\"chunk\":\"ok\"}\nevent: ping\ndata: {\"done\":true}\n",
			want: []Event{
				{Chunk: "ok"},
				{Done: true},
			},
		},
		{
			name:  "malformed json line does not abort the stream",
			input: "data: {not json}\ndata: {\"chunk\":\"after\"}\n",
			want: []Event{
				{Chunk: "after"},
			},
		},
		{
			name:  "error record",
			input: "data: {\"error\":\"rate limited\"}\n",
			want: []Event{
				{Error: "rate limited"},
			},
		},
		{
			name:  "meta and thinking ride along with a chunk",
			input: "data: {\"chunk\":\"hi\",\"meta\":{\"persona\":\"sage\",\"visualEnabled\":true,\"visualType\":\"diagram\"},\"thinking\":{\"stage\":\"routing\",\"message\":\"picking provider\"}}\n",
			want: []Event{
				{
					Chunk:    "hi",
					Meta:     &Meta{Persona: "sage", VisualEnabled: true, VisualType: "diagram"},
					Thinking: &Thinking{Stage: "routing", Message: "picking provider"},
				},
			},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "missing trailing newline still yields the last record",
			input: "data: {\"chunk\":\"tail\"}",
			want: []Event{
				{Chunk: "tail"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collectEvents(t, NewDecoder(strings.NewReader(tt.input)))
			if len(got) != len(tt.want) {
				t.Fatalf("decoded %d events, want %d (%+v)", len(got), len(tt.want), got)
			}
			for i := range got {
				assertEventEqual(t, got[i], tt.want[i])
			}
		})
	}
}

func assertEventEqual(t *testing.T, got, want Event) {
	t.Helper()
	if got.Chunk != want.Chunk || got.Done != want.Done || got.Error != want.Error ||
		got.Provider != want.Provider || got.Model != want.Model {
		t.Errorf("event = %+v, want %+v", got, want)
	}
	if (got.Meta == nil) != (want.Meta == nil) {
		t.Fatalf("meta presence = %v, want %v", got.Meta != nil, want.Meta != nil)
	}
	if want.Meta != nil && *got.Meta != *want.Meta {
		t.Errorf("meta = %+v, want %+v", *got.Meta, *want.Meta)
	}
	if (got.Thinking == nil) != (want.Thinking == nil) {
		t.Fatalf("thinking presence = %v, want %v", got.Thinking != nil, want.Thinking != nil)
	}
	if want.Thinking != nil && *got.Thinking != *want.Thinking {
		t.Errorf("thinking = %+v, want %+v", *got.Thinking, *want.Thinking)
	}
}

// A rune whose UTF-8 bytes arrive split across reads must decode intact,
// not as replacement characters.
func TestDecoder_MultiByteRuneSplitAcrossReads(t *testing.T) {
	input := "data: {\"chunk\":\"héllo → 世界\"}\n"
	d := NewDecoder(iotest.OneByteReader(strings.NewReader(input)))

	ev, err := d.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if ev.Chunk != "héllo → 世界" {
		t.Errorf("chunk = %q, want %q", ev.Chunk, "héllo → 世界")
	}
	if _, err := d.Next(); err != io.EOF {
		t.Errorf("second Next() error = %v, want io.EOF", err)
	}
}

func TestDecoder_ReadErrorSurfaces(t *testing.T) {
	boom := iotest.ErrReader(io.ErrUnexpectedEOF)
	d := NewDecoder(boom)
	if _, err := d.Next(); err != io.ErrUnexpectedEOF {
		t.Errorf("Next() error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

// Interleaving garbage between valid data lines must not change the decoded
// sequence at all.
func TestDecoder_GarbageInvariance(t *testing.T) {
	clean := "data: {\"chunk\":\"a\"}\ndata: {\"chunk\":\"b\"}\ndata: {\"done\":true}\n"
	dirty := "noise\ndata: {\"chunk\":\"a\"}\nretry: 100\n{\"chunk\":\"zzz\"}\ndata: {\"chunk\":\"b\"}\nnope\ndata: {\"done\":true}\n"

	got := collectEvents(t, NewDecoder(strings.NewReader(dirty)))
	want := collectEvents(t, NewDecoder(strings.NewReader(clean)))

	if len(got) != len(want) {
		t.Fatalf("decoded %d events, want %d", len(got), len(want))
	}
	for i := range got {
		assertEventEqual(t, got[i], want[i])
	}
}
