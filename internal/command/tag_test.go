package command

import (
	"errors"
	"testing"

	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
)

func TestInsertTag(t *testing.T) {
	footnote := TagCommand{Name: "footnote", Open: "[[", Close: "]]", SampleText: "Footnote"}
	tests := []struct {
		name  string
		state func(t *testing.T) State
		tag   TagCommand
		want  string
	}{
		{"wraps selection", func(t *testing.T) State { return rangeState(t, "say <hi> now") }, footnote, "say [[<hi>]] now"},
		{"inserts sample", func(t *testing.T) State { return caretState(t, "say | now") }, footnote, "say [[<Footnote>]] now"},
		{"map point", func(t *testing.T) State { return caretState(t, "|") }, DefaultTags()[2], "{{map:<0.0,0.0|Place>}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, handled := run(t, TagCommandFunc(tt.tag), tt.state(t))
			if !handled || got != tt.want {
				t.Errorf("InsertTag = %q handled=%v, want %q", got, handled, tt.want)
			}
		})
	}

	if res := InsertTag(NewState("abc", 1), TagCommand{}); res.Handled {
		t.Error("empty tag at a caret should not be handled")
	}
}

func TestKeymap(t *testing.T) {
	k := DefaultKeymap(QuoteOptions{}, DefaultTags())

	res := k.Run(KeyEnter, caretState(t, "* a|"))
	if !res.Handled {
		t.Error("Enter on a list line should be handled")
	}
	if res := k.Run("F1", caretState(t, "* a|")); res.Handled {
		t.Error("unbound key should not be handled")
	}
	if res := k.Run(TagKey("link"), caretState(t, "|")); !res.Handled {
		t.Error("tag:link should be bound")
	}

	keys := k.Keys()
	for i := 1; i < len(keys); i++ {
		if keys[i-1] > keys[i] {
			t.Fatalf("Keys not sorted: %v", keys)
		}
	}
	if len(keys) != 5+len(DefaultTags()) {
		t.Errorf("Keys = %v", keys)
	}

	k.Bind(KeyTab, nil)
	if _, ok := k.Lookup(KeyTab); ok {
		t.Error("binding nil should remove the key")
	}
}

func TestStateValidate(t *testing.T) {
	if err := NewState("abc", 3).Validate(); err != nil {
		t.Errorf("caret at end: %v", err)
	}
	err := NewState("abc", 7).Validate()
	if !errors.Is(err, cursor.ErrSelectionOutOfRange) {
		t.Errorf("Validate = %v, want ErrSelectionOutOfRange", err)
	}
}

func TestResultApply(t *testing.T) {
	state := NewState("abc", 1)
	next, err := NotHandled().Apply(state)
	if err != nil || next.Text != "abc" {
		t.Errorf("NotHandled().Apply = %q, %v", next.Text, err)
	}

	bad := Result{Handled: true, Edits: []buffer.Edit{buffer.NewReplace(2, 9, "x")}}
	if _, err := bad.Apply(state); !errors.Is(err, buffer.ErrRangeInvalid) {
		t.Errorf("Apply out of range = %v, want ErrRangeInvalid", err)
	}

	// without a selection the carets are mapped through the edits
	ins := Result{Handled: true, Edits: []buffer.Edit{buffer.NewInsert(0, "xy")}}
	next, err = ins.Apply(state)
	if err != nil || next.Text != "xyabc" || next.Selection.Primary().Head != 3 {
		t.Errorf("Apply = %q %s, %v", next.Text, next.Selection, err)
	}
}
