// Package pipeline turns a window into text: capture, encode, decode, recognize.
//
// A Reader performs one read at a time. Concurrent callers (the MCP server and
// the hotkey watcher share one Reader) are serialized so captures never overlap.
// Every read gets an ID used to correlate its log lines, and outcomes are
// counted in Prometheus metrics.
package pipeline
