package command

import (
	"strings"
	"testing"

	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

// caretState parses a fixture with '|' marking the caret.
func caretState(t *testing.T, fixture string) State {
	t.Helper()
	i := strings.Index(fixture, "|")
	if i < 0 {
		t.Fatalf("no caret in %q", fixture)
	}
	return NewState(fixture[:i]+fixture[i+1:], buffer.ByteOffset(i))
}

// rangeState parses a fixture with '<' and '>' marking the selection.
func rangeState(t *testing.T, fixture string) State {
	t.Helper()
	start := strings.Index(fixture, "<")
	end := strings.Index(fixture, ">")
	if start < 0 || end < start {
		t.Fatalf("no selection in %q", fixture)
	}
	text := fixture[:start] + fixture[start+1:end] + fixture[end+1:]
	sel := cursor.NewSelection(buffer.ByteOffset(start), buffer.ByteOffset(end-1))
	return State{Text: text, Selection: cursor.NewSelectionSet(sel)}
}

// render prints the text of s with the primary selection marked like the
// fixtures: '|' for a caret, '<' and '>' around a range.
func render(s State) string {
	sel := s.Selection.Primary()
	if sel.IsEmpty() {
		return s.Text[:sel.Head] + "|" + s.Text[sel.Head:]
	}
	from, to := sel.Start(), sel.End()
	return s.Text[:from] + "<" + s.Text[from:to] + ">" + s.Text[to:]
}

// run applies cmd to state and renders the outcome.
func run(t *testing.T, cmd Command, state State) (string, bool) {
	t.Helper()
	res := cmd(state)
	if !res.Handled {
		if len(res.Edits) != 0 || res.Selection != nil {
			t.Errorf("unhandled result carries changes: %+v", res)
		}
		return render(state), false
	}
	if err := buffer.Validate(buffer.ByteOffset(len(state.Text)), res.Edits); err != nil {
		t.Fatalf("invalid edits %v: %v", res.Edits, err)
	}
	next, err := res.Apply(state)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := next.Validate(); err != nil {
		t.Fatalf("selection after edits: %v", err)
	}
	return render(next), true
}
