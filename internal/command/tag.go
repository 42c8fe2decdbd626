package command

import (
	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

// TagCommand describes markup inserted around the selection, e.g. a
// footnote: {Open: "[[", Close: "]]", SampleText: "footnote"}.
type TagCommand struct {
	Name       string
	Open       string
	Close      string
	SampleText string // used when nothing is selected
}

// InsertTag wraps the primary selection, or SampleText at the caret, in
// the tag's delimiters and selects the wrapped text.
func InsertTag(s State, tag TagCommand) Result {
	sel := s.Selection.Primary()
	from, to := sel.Start(), sel.End()
	inner := s.Text[from:to]
	if from == to {
		inner = tag.SampleText
	}
	replacement := tag.Open + inner + tag.Close
	if replacement == s.Text[from:to] {
		return NotHandled()
	}

	edits := []buffer.Edit{buffer.NewReplace(from, to, replacement)}
	start := from + buffer.ByteOffset(len(tag.Open))
	end := start + buffer.ByteOffset(len(inner))
	return handled(edits, cursor.NewSelectionSet(cursor.NewSelection(start, end)))
}

// DefaultTags are the toolbar tags of the wiki editor.
func DefaultTags() []TagCommand {
	return []TagCommand{
		{Name: "footnote", Open: "[[", Close: "]]", SampleText: "Footnote"},
		{Name: "link", Open: "((", Close: "))", SampleText: "Page"},
		{Name: "map", Open: "{{map:", Close: "}}", SampleText: "0.0,0.0|Place"},
		{Name: "bold", Open: "*", Close: "*", SampleText: "text"},
	}
}
