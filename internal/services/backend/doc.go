// Package backend is the HTTP client for the analysis backend process:
// transcription, transcript storage and search, question answering, clip
// export, and the per-item analysis event stream.
package backend
