package command

import (
	"strings"
	"testing"

	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

func TestQuoteSelection(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		pattern string // ^ stands for the pressed quote
	}{
		{"wrap selected text", "<text>", "^text^|"},
		{"replace selected single quote", "<'>", "^|"},
		{"replace selected double quote", `<">`, "^|"},
		{"replace selected guillemet", "<«>", "^|"},
		{"strip single outer quotes", "<'text'>", "^text^|"},
		{"strip double outer quotes", `<"text">`, "^text^|"},
		{"strip nested mixed quotes", `<"'nested'">`, "^nested^|"},
		{"strip guillemets", "<«text»>", "^text^|"},
		{"strip low-high quotes", "<„text“>", "^text^|"},
		{"strip double-prime quotes", "<‟text”>", "^text^|"},
		{"keep inner quotes", "<'a' and 'b'>", "^a' and 'b^|"},
		{"surrounding text", "say <hi> now", "say ^hi^| now"},
	}

	for _, q := range []rune{'\'', '"'} {
		for _, tt := range tests {
			t.Run(string(q)+" "+tt.name, func(t *testing.T) {
				want := strings.ReplaceAll(tt.pattern, "^", string(q))
				got, handled := run(t, QuoteCommand(q, QuoteOptions{}), rangeState(t, tt.input))
				if tt.input == "<"+string(q)+">" {
					// replacing a quote with itself changes nothing
					if handled {
						t.Errorf("Quote(%q, %c) should not be handled", tt.input, q)
					}
					return
				}
				if !handled {
					t.Fatalf("Quote(%q, %c) not handled", tt.input, q)
				}
				if got != want {
					t.Errorf("Quote(%q, %c) = %q, want %q", tt.input, q, got, want)
				}
			})
		}
	}
}

func TestQuoteCaret(t *testing.T) {
	got, handled := run(t, QuoteCommand('\'', QuoteOptions{}), caretState(t, "say |now"))
	if !handled || got != "say '|'now" {
		t.Errorf("caret quote = %q handled=%v", got, handled)
	}

	got, handled = run(t, QuoteCommand('\'', QuoteOptions{OnlyWithSelection: true}), caretState(t, "say |now"))
	if handled || got != "say |now" {
		t.Errorf("caret quote with OnlyWithSelection = %q handled=%v", got, handled)
	}

	got, handled = run(t, QuoteCommand('"', QuoteOptions{OnlyWithSelection: true}), rangeState(t, "say <now>"))
	if !handled || got != `say "now"|` {
		t.Errorf("range quote with OnlyWithSelection = %q handled=%v", got, handled)
	}
}

func TestQuoteUnchanged(t *testing.T) {
	got, handled := run(t, QuoteCommand('\'', QuoteOptions{}), rangeState(t, "a <'> b"))
	if handled || got != "a <'> b" {
		t.Errorf("replacing ' with ' = %q handled=%v", got, handled)
	}
}

func TestQuoteMultipleSelections(t *testing.T) {
	state := State{
		Text: "one two x",
		Selection: cursor.NewSelectionSet(
			cursor.NewSelection(0, 3),
			cursor.NewSelection(7, 4),
			cursor.NewCursorSelection(9),
		),
	}
	res := Quote(state, '"', QuoteOptions{})
	if !res.Handled {
		t.Fatal("not handled")
	}
	next, err := res.Apply(state)
	if err != nil {
		t.Fatal(err)
	}
	if want := `"one" "two" x""`; next.Text != want {
		t.Errorf("text = %q, want %q", next.Text, want)
	}
	var heads []buffer.ByteOffset
	for _, sel := range next.Selection.All() {
		if !sel.IsEmpty() {
			t.Errorf("selection %s should be a caret", sel)
		}
		heads = append(heads, sel.Head)
	}
	want := []buffer.ByteOffset{5, 11, 14}
	if len(heads) != len(want) {
		t.Fatalf("carets = %v, want %v", heads, want)
	}
	for i := range want {
		if heads[i] != want[i] {
			t.Errorf("carets = %v, want %v", heads, want)
			break
		}
	}
}

func TestIsQuoteGlyph(t *testing.T) {
	for _, r := range "'\"«»„“‟”" {
		if !IsQuoteGlyph(r) {
			t.Errorf("IsQuoteGlyph(%q) = false", r)
		}
	}
	for _, r := range "a`<>‹" {
		if IsQuoteGlyph(r) {
			t.Errorf("IsQuoteGlyph(%q) = true", r)
		}
	}
}
