// Package notifications delivers pipeline events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when notifications are
// disabled. Event categories honor the per-category toggles in the
// notifications config section so a deployment can, for example, receive
// failure alerts without start/finish chatter.
package notifications
