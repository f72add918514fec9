package subtitles

import (
	"strings"

	"neuralplay/internal/timecode"
)

// ParseSRT parses subtitle file content into ordered segments using the
// standard block grammar: blocks separated by a blank line, an optional
// index line, a timing line of the form H:MM:SS[,.]mmm --> H:MM:SS[,.]mmm,
// and the remaining lines joined as the caption text.
//
// Blocks with a missing or malformed timing line are dropped silently; a
// broken entry never aborts the rest of the file.
func ParseSRT(content string) []Segment {
	normalized := strings.ReplaceAll(strings.TrimSpace(content), "\r\n", "\n")
	if normalized == "" {
		return nil
	}

	var segments []Segment
	for _, block := range strings.Split(normalized, "\n\n") {
		if seg, ok := parseBlock(block); ok {
			segments = append(segments, seg)
		}
	}
	return segments
}

func parseBlock(block string) (Segment, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 2 {
		return Segment{}, false
	}

	// The index line is optional; the timing line is whichever of the
	// first two lines carries the arrow.
	timingIdx := -1
	if strings.Contains(lines[0], "-->") {
		timingIdx = 0
	} else if strings.Contains(lines[1], "-->") {
		timingIdx = 1
	}
	if timingIdx < 0 || timingIdx+1 >= len(lines) {
		return Segment{}, false
	}

	parts := strings.SplitN(lines[timingIdx], "-->", 2)
	if len(parts) != 2 {
		return Segment{}, false
	}
	start, err := timecode.ParseSRTTimestamp(parts[0])
	if err != nil {
		return Segment{}, false
	}
	end, err := timecode.ParseSRTTimestamp(parts[1])
	if err != nil {
		return Segment{}, false
	}
	if end <= start {
		return Segment{}, false
	}

	return Segment{
		Start: start,
		End:   end,
		Text:  strings.Join(lines[timingIdx+1:], "\n"),
	}, true
}
