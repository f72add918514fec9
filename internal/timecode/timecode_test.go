package timecode_test

import (
	"math"
	"testing"

	"neuralplay/internal/timecode"
)

func TestClock(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "0:00"},
		{5.9, "0:05"},
		{65, "1:05"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3723, "1:02:03"},
		{-4, "0:00"},
	}
	for _, tc := range cases {
		if got := timecode.Clock(tc.seconds); got != tc.want {
			t.Errorf("Clock(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestSRTTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{61.042, "00:01:01,042"},
		{3661.007, "01:01:01,007"},
		{-2, "00:00:00,000"},
	}
	for _, tc := range cases {
		if got := timecode.SRTTimestamp(tc.seconds); got != tc.want {
			t.Errorf("SRTTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseSRTTimestamp(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"00:00:01,500", 1.5},
		{"0:01:01.042", 61.042},
		{"01:01:01,007", 3661.007},
		{"00:02:03", 123},
	}
	for _, tc := range cases {
		got, err := timecode.ParseSRTTimestamp(tc.input)
		if err != nil {
			t.Fatalf("ParseSRTTimestamp(%q) failed: %v", tc.input, err)
		}
		if math.Abs(got-tc.want) > 0.0005 {
			t.Errorf("ParseSRTTimestamp(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseSRTTimestampRejectsMalformed(t *testing.T) {
	for _, input := range []string{"", "12,000", "aa:bb:cc,ddd", "00:01", "1:2:3:4,000"} {
		if _, err := timecode.ParseSRTTimestamp(input); err == nil {
			t.Errorf("ParseSRTTimestamp(%q) should fail", input)
		}
	}
}

func TestRoundTripMillisecondPrecision(t *testing.T) {
	for _, seconds := range []float64{0, 0.001, 12.345, 599.999, 3600.5} {
		parsed, err := timecode.ParseSRTTimestamp(timecode.SRTTimestamp(seconds))
		if err != nil {
			t.Fatalf("round trip of %v failed: %v", seconds, err)
		}
		if math.Abs(parsed-seconds) > 0.001 {
			t.Errorf("round trip of %v drifted to %v", seconds, parsed)
		}
	}
}

func TestTranscriptPrefix(t *testing.T) {
	if got := timecode.TranscriptPrefix(42.9); got != "[42s]" {
		t.Errorf("TranscriptPrefix(42.9) = %q", got)
	}
	if got := timecode.TranscriptPrefix(0); got != "[0s]" {
		t.Errorf("TranscriptPrefix(0) = %q", got)
	}
}
