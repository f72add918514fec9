package analysis

import (
	"bufio"
	"io"
	"strings"
)

// sseScanner reads server-sent event frames: "data:" lines accumulated
// until a blank line terminates the frame. Comment lines (leading colon)
// and unknown fields are ignored per the SSE wire format.
type sseScanner struct {
	scanner *bufio.Scanner
}

func newSSEScanner(r io.Reader) *sseScanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &sseScanner{scanner: scanner}
}

// Next returns the data payload of the next complete frame. It returns
// io.EOF when the stream ends cleanly and the scanner's error otherwise.
func (s *sseScanner) Next() ([]byte, error) {
	var data []string
	for s.scanner.Scan() {
		line := strings.TrimRight(s.scanner.Text(), "\r")
		if line == "" {
			if len(data) > 0 {
				return []byte(strings.Join(data, "\n")), nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		if value, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(value, " "))
		}
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		return []byte(strings.Join(data, "\n")), nil
	}
	return nil, io.EOF
}
