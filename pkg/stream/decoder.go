package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

const dataPrefix = "data: "

// Decoder turns a raw response body into a sequence of Events. Lines without
// the `data: ` prefix and lines whose payload fails to parse as JSON are
// skipped; a malformed line never aborts consumption of the lines after it.
//
// The decoder buffers raw bytes until a full line is available, so a UTF-8
// rune whose bytes arrive split across transport chunks decodes intact. It is
// not restartable; a new session needs a new response body.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder wraps r. The line buffer is sized for large SSE chunks.
func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	const maxBuf = 1024 * 1024
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, maxBuf)
	return &Decoder{scanner: scanner}
}

// Next returns the next decoded event. It returns io.EOF once the underlying
// body is exhausted, or the transport read error if one occurred.
func (d *Decoder) Next() (Event, error) {
	for d.scanner.Scan() {
		line := strings.TrimSpace(d.scanner.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, dataPrefix)
		var ev Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			// Malformed record: skip, not fatal.
			continue
		}
		return ev, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}
