// Package subtitles owns caption timing: the SRT block parser, the
// two-source resolver that decides which caption is visible at a given
// playback instant, and the transcript/SRT export writers.
//
// Two sources compete for the screen: the internal transcript produced by
// the backend transcription call, and an external subtitle file uploaded
// by the user. An external source, when present, always fully shadows the
// internal one; the two are never merged.
package subtitles
