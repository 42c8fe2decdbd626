package buffer

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// ByteOffset represents a byte position in the text.
// This is the fundamental position type, directly indexing into the text.
type ByteOffset = int64

// Point represents a line and column position.
// Both Line and Column are 0-indexed.
// Column is measured in bytes from the start of the line.
type Point struct {
	Line   uint32 // 0-indexed line number
	Column uint32 // 0-indexed column (byte offset within line)
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Point) Compare(other Point) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// OffsetToPoint converts a byte offset into a line/column point.
// Offsets outside the text are clamped.
func OffsetToPoint(text string, offset ByteOffset) Point {
	offset = clamp(offset, ByteOffset(len(text)))
	head := text[:offset]
	line := strings.Count(head, "\n")
	col := len(head) - (strings.LastIndexByte(head, '\n') + 1)
	return Point{Line: uint32(line), Column: uint32(col)}
}

// Column returns the number of user-perceived characters (grapheme
// clusters) between the start of the offset's line and the offset.
// Reports use it so that "ё" written as e + combining diaeresis counts once.
func Column(text string, offset ByteOffset) int {
	offset = clamp(offset, ByteOffset(len(text)))
	head := text[:offset]
	start := strings.LastIndexByte(head, '\n') + 1
	return uniseg.GraphemeClusterCount(head[start:])
}

// UTF16Offset converts a byte offset into a UTF-16 code unit offset, the
// unit used by browser-based editor widgets.
func UTF16Offset(text string, offset ByteOffset) int {
	offset = clamp(offset, ByteOffset(len(text)))
	n := 0
	for _, r := range text[:offset] {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// ByteOffsetFromUTF16 converts a UTF-16 code unit offset back into a byte
// offset. Offsets past the end of the text map to len(text).
func ByteOffsetFromUTF16(text string, units int) ByteOffset {
	n := 0
	for i, r := range text {
		if n >= units {
			return ByteOffset(i)
		}
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return ByteOffset(len(text))
}

// IsRuneBoundary reports whether offset falls between two UTF-8 sequences.
func IsRuneBoundary(text string, offset ByteOffset) bool {
	if offset <= 0 || offset >= ByteOffset(len(text)) {
		return offset == 0 || offset == ByteOffset(len(text))
	}
	return utf8.RuneStart(text[offset])
}

func clamp(offset, max ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > max {
		return max
	}
	return offset
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
