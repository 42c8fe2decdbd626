package history

import (
	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

// Entry is one undoable step.
type Entry struct {
	// Name describes the step, usually the key that ran the command.
	Name string

	// Edits turn the text before the step into the text after it.
	Edits []buffer.Edit

	// Inverse turns the text after the step back into the text before it.
	Inverse []buffer.Edit

	// Before and After are the selections around the step.
	Before cursor.SelectionSet
	After  cursor.SelectionSet
}

// NewEntry creates the entry for edits applied to text.
func NewEntry(name, text string, edits []buffer.Edit, before, after cursor.SelectionSet) (Entry, error) {
	inverse, err := Invert(text, edits)
	if err != nil {
		return Entry{}, err
	}
	return Entry{
		Name:    name,
		Edits:   edits,
		Inverse: inverse,
		Before:  before,
		After:   after,
	}, nil
}

// Invert returns the edits undoing edits on text. The inverse edits are
// expressed in coordinates of the edited text.
func Invert(text string, edits []buffer.Edit) ([]buffer.Edit, error) {
	if err := buffer.Validate(buffer.ByteOffset(len(text)), edits); err != nil {
		return nil, err
	}
	inverse := make([]buffer.Edit, 0, len(edits))
	var delta buffer.ByteOffset
	for _, e := range edits {
		start := e.Range.Start + delta
		end := start + buffer.ByteOffset(len(e.NewText))
		inverse = append(inverse, buffer.NewReplace(start, end, text[e.Range.Start:e.Range.End]))
		delta += e.Delta()
	}
	return inverse, nil
}
