// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships
// the matching client used by the CLI and the desktop shell.
//
// It owns socket lifecycle management and the request/response DTOs.
// The server embeds the daemon; the client is a thin call wrapper so
// shell commands fail fast when the daemon is offline.
package ipc
