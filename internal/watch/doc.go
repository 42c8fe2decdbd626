// Package watch reloads a document when its file changes on disk.
//
// The watcher observes the file's directory rather than the file itself,
// so editors that save by writing a new file and renaming it over the old
// one are seen. Bursts of events are coalesced and the handler receives
// the file contents once the burst settles.
package watch

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.watch'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.watch")
}
