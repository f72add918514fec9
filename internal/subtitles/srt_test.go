package subtitles_test

import (
	"math"
	"testing"

	"neuralplay/internal/subtitles"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:04,000
Hello there.

2
00:00:05,500 --> 00:00:07,250
Second line
continues here.

3
00:00:10.000 --> 00:00:12.000
Period millis also parse.
`

func TestParseSRT(t *testing.T) {
	segments := subtitles.ParseSRT(sampleSRT)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	if segments[0].Start != 1 || segments[0].End != 4 {
		t.Fatalf("unexpected first segment timing: %+v", segments[0])
	}
	if segments[1].Text != "Second line\ncontinues here." {
		t.Fatalf("multi-line text not joined: %q", segments[1].Text)
	}
	if segments[2].Start != 10 {
		t.Fatalf("period-millis timing not parsed: %+v", segments[2])
	}
}

func TestParseSRTWithoutIndexLines(t *testing.T) {
	content := "00:00:01,000 --> 00:00:02,000\nno index\n\n00:00:03,000 --> 00:00:04,000\nstill fine"
	segments := subtitles.ParseSRT(content)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "no index" || segments[1].Text != "still fine" {
		t.Fatalf("unexpected texts: %+v", segments)
	}
}

func TestParseSRTDropsMalformedBlockOnly(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:02,000
good one

2
00:00:03,000 00:00:04,000
missing arrow

3
00:00:05,000 --> 00:00:06,000
good two`
	segments := subtitles.ParseSRT(content)
	if len(segments) != 2 {
		t.Fatalf("expected exactly 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "good one" || segments[1].Text != "good two" {
		t.Fatalf("wrong blocks survived: %+v", segments)
	}
}

func TestParseSRTRejectsInvertedTiming(t *testing.T) {
	content := "1\n00:00:05,000 --> 00:00:02,000\nbackwards"
	if segments := subtitles.ParseSRT(content); len(segments) != 0 {
		t.Fatalf("expected inverted timing dropped, got %+v", segments)
	}
}

func TestParseSRTHandlesCRLFAndEmpty(t *testing.T) {
	content := "1\r\n00:00:01,000 --> 00:00:02,000\r\nwindows line endings\r\n"
	segments := subtitles.ParseSRT(content)
	if len(segments) != 1 || segments[0].Text != "windows line endings" {
		t.Fatalf("CRLF content not handled: %+v", segments)
	}
	if segments := subtitles.ParseSRT("   \n\n  "); segments != nil {
		t.Fatalf("expected nil for blank input, got %+v", segments)
	}
}

func TestExportRoundTrip(t *testing.T) {
	original := []subtitles.Segment{
		{Start: 0.25, End: 2.5, Text: "first"},
		{Start: 3.004, End: 5.999, Text: "second\nwrapped"},
		{Start: 61.5, End: 65, Text: "third"},
	}
	reparsed := subtitles.ParseSRT(subtitles.ExportSRT(original))
	if len(reparsed) != len(original) {
		t.Fatalf("round trip lost segments: got %d want %d", len(reparsed), len(original))
	}
	for i := range original {
		if math.Abs(reparsed[i].Start-original[i].Start) > 0.001 {
			t.Errorf("segment %d start drifted: %v vs %v", i, reparsed[i].Start, original[i].Start)
		}
		if math.Abs(reparsed[i].End-original[i].End) > 0.001 {
			t.Errorf("segment %d end drifted: %v vs %v", i, reparsed[i].End, original[i].End)
		}
		if reparsed[i].Text != original[i].Text {
			t.Errorf("segment %d text changed: %q vs %q", i, reparsed[i].Text, original[i].Text)
		}
	}
}

func TestExportTranscript(t *testing.T) {
	segments := []subtitles.Segment{
		{Start: 0, End: 2, Text: "hello"},
		{Start: 12.7, End: 14, Text: "world"},
	}
	want := "[0s] hello\n[12s] world"
	if got := subtitles.ExportTranscript(segments); got != want {
		t.Fatalf("ExportTranscript = %q, want %q", got, want)
	}
}
