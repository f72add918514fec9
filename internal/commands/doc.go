// Package commands maps user input to playback actions. Three frontends
// feed one vocabulary: the keyboard mapping table, the voice utterance
// classifier, and menu events arriving over IPC. Dispatch is serialized,
// so concurrent triggers resolve last-writer-wins on controller state.
package commands
