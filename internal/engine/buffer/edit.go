package buffer

import (
	"fmt"
	"strings"
)

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewReplace creates an Edit that replaces [start, end) with text.
func NewReplace(start, end ByteOffset, text string) Edit {
	return Edit{
		Range:   Range{Start: start, End: end},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{
		Range:   Range{Start: start, End: end},
		NewText: "",
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in text length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// Validate checks that edits are sorted by start offset, do not overlap and
// lie within a text of the given length.
func Validate(length ByteOffset, edits []Edit) error {
	for i, edit := range edits {
		if !edit.Range.Within(length) {
			return fmt.Errorf("edit %d %s: %w", i, edit.Range, ErrRangeInvalid)
		}
		if i > 0 && edit.Range.Start < edits[i-1].Range.End {
			return fmt.Errorf("edit %d %s: %w", i, edit.Range, ErrEditsOverlap)
		}
	}
	return nil
}

// Apply applies edits, all expressed in coordinates of text, and returns
// the resulting text.
func Apply(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}
	if err := Validate(ByteOffset(len(text)), edits); err != nil {
		return text, err
	}

	var b strings.Builder
	b.Grow(len(text) + int(totalDelta(edits)))
	pos := ByteOffset(0)
	for _, edit := range edits {
		b.WriteString(text[pos:edit.Range.Start])
		b.WriteString(edit.NewText)
		pos = edit.Range.End
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}

// MapOffset maps an offset in the original text to the corresponding
// offset after edits are applied. An offset at an insertion point, or
// inside a replaced range, maps before the new text when assoc < 0 and
// after it otherwise.
func MapOffset(edits []Edit, offset ByteOffset, assoc int) ByteOffset {
	delta := ByteOffset(0)
	for _, edit := range edits {
		r := edit.Range
		switch {
		case offset < r.Start:
			return offset + delta
		case offset > r.End:
			delta += edit.Delta()
		case offset == r.End && !r.IsEmpty():
			return r.Start + delta + ByteOffset(len(edit.NewText))
		default:
			// offset is at the start of the edit or strictly inside it
			if assoc < 0 {
				return r.Start + delta
			}
			return r.Start + delta + ByteOffset(len(edit.NewText))
		}
	}
	return offset + delta
}

func totalDelta(edits []Edit) ByteOffset {
	var d ByteOffset
	for _, e := range edits {
		d += e.Delta()
	}
	if d < 0 {
		return 0
	}
	return d
}
