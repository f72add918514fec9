// Package notifications delivers player events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured
// in config.toml and gracefully degrades to a no-op when notifications
// are disabled. Daemon code depends only on the Service interface.
package notifications
