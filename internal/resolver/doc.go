// Package resolver provides link existence resolvers for hosts without a
// knowledge base service.
//
// Each resolver answers lookups on its own goroutine and hands the answers
// to a Sink, usually a decoration.Decorator:
//
//	Static    a fixed set of page titles, e.g. one per line in a file
//	JSONFile  a JSON object of statuses, {"PAGE": true, "OTHER": false}
//	Lua       a script defining exists(key)
//
// Wait blocks until all pending lookups have been delivered.
package resolver

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.resolver'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.resolver")
}
