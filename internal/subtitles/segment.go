package subtitles

// Segment is a single timed caption unit. Start is inclusive, End
// exclusive; Start < End for any segment produced by this package.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// ActiveAt reports whether the segment covers the given effective time.
func (s Segment) ActiveAt(effectiveTime float64) bool {
	return effectiveTime >= s.Start && effectiveTime < s.End
}
