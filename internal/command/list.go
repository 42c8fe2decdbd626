package command

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

// listPrefix splits a list line into its marker (a run of '*' and '#')
// and the white space following it.
func listPrefix(line string) (marker, gap string, ok bool) {
	n := 0
	for n < len(line) && (line[n] == '*' || line[n] == '#') {
		n++
	}
	if n == 0 {
		return "", "", false
	}
	return line[:n], line[n : n+leadingSpace(line[n:])], true
}

// quotePrefix returns '>' plus the white space following it.
func quotePrefix(line string) (string, bool) {
	if !strings.HasPrefix(line, ">") {
		return "", false
	}
	return line[:1+leadingSpace(line[1:])], true
}

// leadingSpace returns the byte length of the white space s starts with.
func leadingSpace(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if !unicode.IsSpace(r) {
			break
		}
		n += size
	}
	return n
}

// ContinueList handles a line break typed at the caret.
//
// On a quote line the paragraph is split: an empty line, the caret's line
// and another empty line are inserted, followed by the rest of the line as
// a new quote line. At the end of a quote line only an empty line and the
// caret's line are added.
//
// On a list line a new item with the same marker is started and the rest
// of the line moves into it. On an item holding nothing but its marker
// the list ends: the marker is replaced by an empty line. A single '*'
// on a line with an even number of '*' is bold text, not a list.
//
// A range selection or a caret at the start of the line is not handled.
func ContinueList(s State) Result {
	sel := s.Selection.Primary()
	if !sel.IsEmpty() {
		return NotHandled()
	}
	head := sel.Head
	line := buffer.LineAt(s.Text, head)
	if head == line.From {
		return NotHandled()
	}
	rest := strings.TrimSpace(s.Text[head:line.To])

	if prefix, ok := quotePrefix(line.Text); ok {
		insert := "\n\n"
		if head != line.To {
			insert = "\n\n\n\n"
			if rest != "" {
				insert += prefix + rest
			}
		}
		edits := []buffer.Edit{buffer.NewReplace(head, line.To, insert)}
		return handled(edits, cursor.Caret(head+2))
	}

	marker, _, ok := listPrefix(line.Text)
	if !ok {
		return NotHandled()
	}
	if marker == "*" && strings.Count(line.Text, "*")%2 == 0 {
		return NotHandled()
	}
	if strings.TrimSpace(line.Text) == marker {
		edits := []buffer.Edit{buffer.NewReplace(line.From, line.To, "\n")}
		return handled(edits, cursor.Caret(line.From+1))
	}
	insert := "\n" + marker + " "
	edits := []buffer.Edit{buffer.NewReplace(head, line.To, insert+rest)}
	return handled(edits, cursor.Caret(head+buffer.ByteOffset(len(insert))))
}

// IncreaseListIndent nests list items one level deeper by repeating the
// last marker character. A selection spanning several lines changes every
// list line in it; otherwise the caret's line is changed.
func IncreaseListIndent(s State) Result {
	return reindent(s, true)
}

// DecreaseListIndent removes the last marker character of list items
// nested deeper than one level. A selection spanning several lines
// changes every such line in it; otherwise the caret's line is changed.
func DecreaseListIndent(s State) Result {
	return reindent(s, false)
}

func reindent(s State, deeper bool) Result {
	sel := s.Selection.Primary()
	var edits []buffer.Edit
	if lines := buffer.LinesBetween(s.Text, sel.Start(), sel.End()); len(lines) > 1 {
		for _, line := range lines {
			if edit, ok := reindentLine(line, deeper); ok {
				edits = append(edits, edit)
			}
		}
	}
	if len(edits) == 0 {
		edit, ok := reindentLine(buffer.LineAt(s.Text, sel.Head), deeper)
		if !ok {
			return NotHandled()
		}
		edits = []buffer.Edit{edit}
	}
	return handled(edits, s.Selection.Map(edits, 1))
}

// reindentLine returns the edit nesting a list line one level deeper or
// shallower. The gap after the marker is kept.
func reindentLine(line buffer.Line, deeper bool) (buffer.Edit, bool) {
	marker, _, ok := listPrefix(line.Text)
	if !ok {
		return buffer.Edit{}, false
	}
	end := line.From + buffer.ByteOffset(len(marker))
	if deeper {
		return buffer.NewInsert(end, marker[len(marker)-1:]), true
	}
	if len(marker) < 2 {
		return buffer.Edit{}, false
	}
	return buffer.NewDelete(end-1, end), true
}
