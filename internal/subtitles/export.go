package subtitles

import (
	"fmt"
	"strings"

	"neuralplay/internal/timecode"
)

// ExportTranscript renders segments as plain text, one "[Ns] text" line
// per segment with whole-second markers.
func ExportTranscript(segments []Segment) string {
	var builder strings.Builder
	for i, seg := range segments {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(timecode.TranscriptPrefix(seg.Start))
		builder.WriteByte(' ')
		builder.WriteString(seg.Text)
	}
	return builder.String()
}

// ExportSRT renders segments in subtitle format: a 1-based index line, a
// millisecond-precision timing line, and the caption text, with blocks
// separated by a blank line.
func ExportSRT(segments []Segment) string {
	var builder strings.Builder
	for i, seg := range segments {
		if i > 0 {
			builder.WriteString("\n\n")
		}
		fmt.Fprintf(&builder, "%d\n%s --> %s\n%s",
			i+1,
			timecode.SRTTimestamp(seg.Start),
			timecode.SRTTimestamp(seg.End),
			seg.Text)
	}
	return builder.String()
}
