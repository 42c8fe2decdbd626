package cursor

import (
	"fmt"
	"sort"

	"github.com/dshills/wikiedit/internal/engine/buffer"
)

// ErrSelectionOutOfRange indicates a selection bound lies outside the text.
var ErrSelectionOutOfRange = fmt.Errorf("selection %w", buffer.ErrOffsetOutOfRange)

// SelectionSet holds one or more selections.
// Selections are kept sorted by position and non-overlapping.
// The first selection is considered the "primary" selection.
type SelectionSet struct {
	selections []Selection
}

// NewSelectionSet creates a set from the given selections. The selections
// are sorted and overlapping ones merged. An empty call yields a caret at 0.
func NewSelectionSet(sels ...Selection) SelectionSet {
	if len(sels) == 0 {
		return SelectionSet{selections: []Selection{NewCursorSelection(0)}}
	}
	set := SelectionSet{selections: make([]Selection, len(sels))}
	copy(set.selections, sels)
	set.normalize()
	return set
}

// Caret creates a set with a single caret at offset.
func Caret(offset ByteOffset) SelectionSet {
	return NewSelectionSet(NewCursorSelection(offset))
}

// Primary returns the primary (first) selection.
func (ss SelectionSet) Primary() Selection {
	if len(ss.selections) == 0 {
		return Selection{}
	}
	return ss.selections[0]
}

// All returns a copy of all selections.
func (ss SelectionSet) All() []Selection {
	result := make([]Selection, len(ss.selections))
	copy(result, ss.selections)
	return result
}

// Count returns the number of selections.
func (ss SelectionSet) Count() int {
	return len(ss.selections)
}

// HasSelection returns true if any selection is non-empty (has extent).
func (ss SelectionSet) HasSelection() bool {
	for _, sel := range ss.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}

// Validate reports ErrSelectionOutOfRange if any selection bound lies
// outside a text of the given length.
func (ss SelectionSet) Validate(length ByteOffset) error {
	for _, sel := range ss.selections {
		if sel.Start() < 0 || sel.End() > length {
			return fmt.Errorf("%s in text of length %d: %w", sel, length, ErrSelectionOutOfRange)
		}
	}
	return nil
}

// Map returns the set mapped through edits. See Selection.Map.
func (ss SelectionSet) Map(edits []buffer.Edit, assoc int) SelectionSet {
	mapped := make([]Selection, len(ss.selections))
	for i, sel := range ss.selections {
		mapped[i] = sel.Map(edits, assoc)
	}
	return NewSelectionSet(mapped...)
}

// Equal reports whether two sets hold the same selections.
func (ss SelectionSet) Equal(other SelectionSet) bool {
	if len(ss.selections) != len(other.selections) {
		return false
	}
	for i := range ss.selections {
		if ss.selections[i] != other.selections[i] {
			return false
		}
	}
	return true
}

// String returns a string representation of the set.
func (ss SelectionSet) String() string {
	return fmt.Sprint(ss.selections)
}

// normalize sorts selections and merges overlapping ones. Touching ranges
// and carets at a range boundary stay separate.
func (ss *SelectionSet) normalize() {
	if len(ss.selections) <= 1 {
		return
	}

	sort.SliceStable(ss.selections, func(i, j int) bool {
		si, sj := ss.selections[i].Start(), ss.selections[j].Start()
		if si != sj {
			return si < sj
		}
		// If same start, sort by end (larger ranges first)
		return ss.selections[i].End() > ss.selections[j].End()
	})

	merged := ss.selections[:1]
	for _, sel := range ss.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Start() < last.End() || (sel.Start() == last.Start() && sel.IsEmpty() == last.IsEmpty()) {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	ss.selections = merged
}
