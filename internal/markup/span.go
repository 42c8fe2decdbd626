package markup

import (
	"fmt"

	"github.com/dshills/wikiedit/internal/engine/buffer"
)

// Span is a half-open byte range of the document plus its tag.
type Span struct {
	From buffer.ByteOffset
	To   buffer.ByteOffset
	Tag  Tag
}

// Len returns the length of the span in bytes.
func (s Span) Len() buffer.ByteOffset {
	return s.To - s.From
}

// Text returns the part of text the span covers.
func (s Span) Text(text string) string {
	return text[s.From:s.To]
}

// String returns a representation like "link-pending[5:9)".
func (s Span) String() string {
	return fmt.Sprintf("%s[%d:%d)", s.Tag, s.From, s.To)
}

// Link is one link occurrence found by the scanner.
type Link struct {
	// Key is the balanced link target as written.
	Key string
	// Display is the text after '=', empty when absent.
	Display string
	// Span covers Key.
	Span Span
}
