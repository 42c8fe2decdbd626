// Package markup recognizes the wiki markup constructs of a document and
// reports them as tagged spans.
//
// Recognized constructs:
//
//	[[footnote text]]            footnote
//	((Link key))                 link-pending (span covers "Link key")
//	((Link key=display text))    link-pending (span covers "Link key")
//	((map:Place))                map-reference
//	{{map:52.1,21.0|Label}}      map-point
//	> quoted line                quote-line
//
// Link spans start out as TagLinkPending; the decoration layer retags them
// once link existence is known. Spans are sorted by start offset; spans
// with equal starts keep discovery order (footnotes, link frames, link
// texts, map points, quote lines).
package markup

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.markup'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.markup")
}
