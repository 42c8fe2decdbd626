// Package linkstate keeps the existence status of link keys for one
// editing session.
//
// Every link key is pending until a resolver reports whether the page
// exists. Raw link texts are normalized with package linkkey, so "Ёлка",
// "ёлка" and "ЕЛКА" share one entry and cause a single lookup. A resolver
// that fails or never answers leaves its keys pending; such keys are not
// requested again until the cache is reset.
package linkstate

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.linkstate'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.linkstate")
}
