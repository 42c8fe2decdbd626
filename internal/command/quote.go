package command

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

// quotePairs are the outer quote pairs stripped before rewrapping, in the
// order they are tried.
var quotePairs = [][2]string{
	{"'", "'"},
	{`"`, `"`},
	{"«", "»"},
	{"„", "“"},
	{"‟", "”"},
}

// IsQuoteGlyph reports whether r opens or closes one of the known quote
// pairs.
func IsQuoteGlyph(r rune) bool {
	s := string(r)
	for _, p := range quotePairs {
		if p[0] == s || p[1] == s {
			return true
		}
	}
	return false
}

// QuoteOptions configures Quote.
type QuoteOptions struct {
	// OnlyWithSelection leaves key presses with carets only to the host.
	OnlyWithSelection bool
}

// Quote handles a press of the quote key q for every selection at once.
//
// A caret gets a pair of quotes and ends up between them. A selected
// single quote glyph of any style is replaced by q. Any other selection
// has its outer quote pairs stripped, repeatedly, and is then wrapped in
// q; the caret goes after the closing quote.
//
// Quote is not handled when no selection changes.
func Quote(s State, q rune, opts QuoteOptions) Result {
	if opts.OnlyWithSelection && !s.Selection.HasSelection() {
		return NotHandled()
	}
	quote := string(q)

	sels := s.Selection.All()
	edits := make([]buffer.Edit, 0, len(sels))
	carets := make([]cursor.Selection, 0, len(sels))
	changed := false
	var delta buffer.ByteOffset

	for _, sel := range sels {
		from, to := sel.Start(), sel.End()
		text := s.Text[from:to]

		var replacement string
		var caret buffer.ByteOffset
		switch {
		case from == to:
			replacement = quote + quote
			caret = buffer.ByteOffset(len(quote))
		case utf8.RuneCountInString(text) == 1 && IsQuoteGlyph([]rune(text)[0]):
			replacement = quote
			caret = buffer.ByteOffset(len(quote))
		default:
			replacement = quote + stripQuotes(text) + quote
			caret = buffer.ByteOffset(len(replacement))
		}

		if replacement != text {
			changed = true
		}
		edits = append(edits, buffer.NewReplace(from, to, replacement))
		carets = append(carets, cursor.NewCursorSelection(from+delta+caret))
		delta += buffer.ByteOffset(len(replacement)) - (to - from)
	}

	if !changed {
		return NotHandled()
	}
	return handled(edits, cursor.NewSelectionSet(carets...))
}

// stripQuotes removes outer quote pairs until none is left. Each pass
// removes the first pair that matches.
func stripQuotes(text string) string {
	for {
		stripped := false
		for _, p := range quotePairs {
			open, closing := p[0], p[1]
			if len(text) >= len(open)+len(closing) && strings.HasPrefix(text, open) && strings.HasSuffix(text, closing) {
				text = text[len(open) : len(text)-len(closing)]
				stripped = true
				break
			}
		}
		if !stripped {
			return text
		}
	}
}
