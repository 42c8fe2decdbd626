// Package cursor provides the selection model the editing commands work on.
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection represents just a caret with no
// selected text. The selection can extend forward (head > anchor) or
// backward (head < anchor), preserving the user's selection direction.
//
// Multi-Cursor Support:
//
// SelectionSet holds one or more selections that are:
//   - Kept sorted by position
//   - Merged when overlapping
//   - Mapped together through a batch of edits
//
// Basic usage:
//
//	set := cursor.NewSelectionSet(cursor.NewCursorSelection(6))
//	edits := []buffer.Edit{buffer.NewInsert(6, "\n* ")}
//	set = set.Map(edits, 1) // caret now at 9
//
// Thread Safety:
//
// Selection and SelectionSet are immutable value types and safe for
// concurrent use.
package cursor
