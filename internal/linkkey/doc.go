// Package linkkey maps raw link text to the canonical key used to look up
// and deduplicate link existence.
//
// Two link texts name the same page when their keys are equal. A key is
// the NFC composed text with homoglyph letters folded (Ё to Е), converted
// to upper case, with every run of white space collapsed to a single
// space and the ends trimmed:
//
//	Normalize("ёлка")           == "ЕЛКА"
//	Normalize("Новый\t\tгод ")  == "НОВЫЙ ГОД"
package linkkey

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.linkkey'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.linkkey")
}
