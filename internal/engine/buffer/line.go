package buffer

import "strings"

// Line describes one line of a text.
// From and To bound the line content; To excludes the line break.
type Line struct {
	Number int        // 0-indexed line number
	From   ByteOffset // Offset of the first byte of the line
	To     ByteOffset // Offset just past the last content byte
	Text   string     // Line content without the line break
}

// Len returns the length of the line content in bytes.
func (l Line) Len() ByteOffset {
	return l.To - l.From
}

// LineAt returns the line containing offset. An offset equal to the
// position of a line break belongs to the line the break terminates.
// Offsets outside the text are clamped.
func LineAt(text string, offset ByteOffset) Line {
	offset = clamp(offset, ByteOffset(len(text)))
	from := ByteOffset(strings.LastIndexByte(text[:offset], '\n') + 1)
	to := ByteOffset(len(text))
	if i := strings.IndexByte(text[offset:], '\n'); i >= 0 {
		to = offset + ByteOffset(i)
	}
	return Line{
		Number: strings.Count(text[:from], "\n"),
		From:   from,
		To:     to,
		Text:   text[from:to],
	}
}

// LineCount returns the number of lines in text. An empty text has one line.
func LineCount(text string) int {
	return strings.Count(text, "\n") + 1
}

// LinesBetween returns the lines touched by the range [from, to], in order.
func LinesBetween(text string, from, to ByteOffset) []Line {
	if to < from {
		from, to = to, from
	}
	first := LineAt(text, from)
	lines := []Line{first}
	cur := first
	for cur.To < clamp(to, ByteOffset(len(text))) {
		next := LineAt(text, cur.To+1)
		lines = append(lines, next)
		cur = next
	}
	return lines
}
