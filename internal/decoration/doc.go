// Package decoration keeps the tagged span list of a document current.
//
// A Decorator memoizes the last text it scanned. Update rescans only when
// the text changed; link statuses that arrive later are applied to the
// memoized spans by ApplyResolutions without scanning again.
package decoration

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.decoration'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.decoration")
}
