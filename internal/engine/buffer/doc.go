// Package buffer provides the text primitives shared by the markup scanner,
// the decorator and the editing commands: byte offsets, ranges, edits, line
// lookup over plain strings, and a small thread-safe document buffer that a
// host can use to hold the text it feeds to the core.
//
// The core never owns a buffer. Commands receive the current text and
// selections and return edits; Apply turns a text plus edits into the new
// text:
//
//	edits := []buffer.Edit{buffer.NewInsert(6, "\n* ")}
//	text, err := buffer.Apply("* item", edits) // "* item\n* "
//
// Position Types:
//
//   - ByteOffset: Raw byte position in the text
//   - Point: Line and column position (0-indexed, column in bytes)
//   - Line: One line of a text with its bounds, as returned by LineAt
//
// All edits handed to Apply are expressed in coordinates of the original
// text. They must be sorted by start offset and must not overlap.
//
// Thread Safety:
//
// The free functions are pure. All Buffer methods are thread-safe: reads
// take a read lock, writes take the write lock.
package buffer
