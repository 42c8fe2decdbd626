// Package app ties the wikiedit components into a Session: one document
// with its buffer, selection, markup decoration, link lookup and
// structural editing keymap.
//
// A Session is built from a config.Config. Link existence comes from the
// first configured source of a Lua script, a JSON status file or a titles
// file; without one, links stay pending.
package app

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.app'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.app")
}
