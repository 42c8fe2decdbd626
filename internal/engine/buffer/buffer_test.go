package buffer

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		edits []Edit
		want  string
	}{
		{"no edits", "hello", nil, "hello"},
		{"insert", "* item", []Edit{NewInsert(6, "\n* ")}, "* item\n* "},
		{"delete", "hello world", []Edit{NewDelete(5, 11)}, "hello"},
		{"replace", "* a\n* b", []Edit{NewReplace(0, 2, "** "), NewReplace(4, 6, "** ")}, "** a\n** b"},
		{"adjacent", "ab", []Edit{NewInsert(1, "x"), NewReplace(1, 2, "y")}, "axy"},
		{"cyrillic", "ёлка", []Edit{NewReplace(0, 2, "е")}, "елка"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.text, tt.edits)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestApplyErrors(t *testing.T) {
	_, err := Apply("abc", []Edit{NewDelete(2, 5)})
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}

	_, err = Apply("abc", []Edit{NewDelete(2, 1)})
	if !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid for inverted range, got %v", err)
	}

	_, err = Apply("abcdef", []Edit{NewDelete(2, 4), NewDelete(3, 5)})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("expected ErrEditsOverlap, got %v", err)
	}

	_, err = Apply("abcdef", []Edit{NewDelete(4, 5), NewDelete(0, 1)})
	if !errors.Is(err, ErrEditsOverlap) {
		t.Errorf("expected ErrEditsOverlap for unsorted edits, got %v", err)
	}
}

func TestMapOffset(t *testing.T) {
	edits := []Edit{NewReplace(0, 2, "** "), NewInsert(6, "!")}

	tests := []struct {
		offset ByteOffset
		assoc  int
		want   ByteOffset
	}{
		{0, -1, 0},
		{0, 1, 3},
		{1, -1, 0},
		{1, 1, 3},
		{2, -1, 3},
		{4, -1, 5},
		{6, -1, 7},
		{6, 1, 8},
		{7, -1, 9},
	}

	for _, tt := range tests {
		if got := MapOffset(edits, tt.offset, tt.assoc); got != tt.want {
			t.Errorf("MapOffset(%d, %d) = %d, want %d", tt.offset, tt.assoc, got, tt.want)
		}
	}
}

func TestLineAt(t *testing.T) {
	text := "first\nsecond\n\nlast"

	tests := []struct {
		offset ByteOffset
		number int
		line   string
		from   ByteOffset
	}{
		{0, 0, "first", 0},
		{5, 0, "first", 0},
		{6, 1, "second", 6},
		{12, 1, "second", 6},
		{13, 2, "", 13},
		{14, 3, "last", 14},
		{18, 3, "last", 14},
		{100, 3, "last", 14},
	}

	for _, tt := range tests {
		line := LineAt(text, tt.offset)
		if line.Number != tt.number || line.Text != tt.line || line.From != tt.from {
			t.Errorf("LineAt(%d) = %+v, want number %d text %q from %d",
				tt.offset, line, tt.number, tt.line, tt.from)
		}
		if line.To-line.From != ByteOffset(len(line.Text)) {
			t.Errorf("LineAt(%d) bounds %d..%d do not match text %q", tt.offset, line.From, line.To, line.Text)
		}
	}
}

func TestLinesBetween(t *testing.T) {
	text := "* a\n* b\nc"

	lines := LinesBetween(text, 1, 5)
	if len(lines) != 2 || lines[0].Text != "* a" || lines[1].Text != "* b" {
		t.Errorf("LinesBetween(1, 5) = %+v", lines)
	}

	lines = LinesBetween(text, 0, 3)
	if len(lines) != 1 {
		t.Errorf("range ending at line end should stay on one line, got %d lines", len(lines))
	}

	lines = LinesBetween(text, 9, 0)
	if len(lines) != 3 {
		t.Errorf("inverted range should cover all lines, got %d", len(lines))
	}
}

func TestLineCount(t *testing.T) {
	if LineCount("") != 1 {
		t.Error("empty text has one line")
	}
	if LineCount("a\nb\n") != 3 {
		t.Errorf("LineCount = %d, want 3", LineCount("a\nb\n"))
	}
}

func TestOffsetToPoint(t *testing.T) {
	text := "ab\nёлка"
	p := OffsetToPoint(text, 5)
	if p.Line != 1 || p.Column != 2 {
		t.Errorf("OffsetToPoint = %s, want (1:2)", p)
	}
	if OffsetToPoint(text, -3).Compare(Point{}) != 0 {
		t.Error("negative offsets should clamp to origin")
	}
}

func TestColumn(t *testing.T) {
	// "е" followed by a combining diaeresis is a single grapheme.
	text := "x\nе\u0308лка"
	end := ByteOffset(len(text))
	if got := Column(text, end); got != 4 {
		t.Errorf("Column = %d, want 4", got)
	}
}

func TestUTF16Offsets(t *testing.T) {
	text := "a😀ё"
	if got := UTF16Offset(text, ByteOffset(len(text))); got != 4 {
		t.Errorf("UTF16Offset = %d, want 4", got)
	}
	if got := ByteOffsetFromUTF16(text, 3); got != 5 {
		t.Errorf("ByteOffsetFromUTF16 = %d, want 5", got)
	}
	if got := ByteOffsetFromUTF16(text, 99); got != ByteOffset(len(text)) {
		t.Errorf("ByteOffsetFromUTF16 past end = %d", got)
	}
}

func TestIsRuneBoundary(t *testing.T) {
	text := "ёa"
	if !IsRuneBoundary(text, 0) || IsRuneBoundary(text, 1) || !IsRuneBoundary(text, 2) || !IsRuneBoundary(text, 3) {
		t.Error("unexpected rune boundaries")
	}
}

func TestBuffer(t *testing.T) {
	b := NewBufferFromString("one\r\ntwo\rthree")
	if b.Text() != "one\ntwo\nthree" {
		t.Errorf("line endings not normalized: %q", b.Text())
	}
	if b.LineCount() != 3 {
		t.Errorf("LineCount = %d, want 3", b.LineCount())
	}

	rev := b.RevisionID()
	if b.SetText("one\ntwo\nthree") {
		t.Error("SetText with same content should report no change")
	}
	if b.RevisionID() != rev {
		t.Error("revision should not change without content change")
	}

	if err := b.ApplyEdits([]Edit{NewInsert(3, "!")}); err != nil {
		t.Fatalf("ApplyEdits error: %v", err)
	}
	if b.Text() != "one!\ntwo\nthree" {
		t.Errorf("Text = %q", b.Text())
	}
	if b.RevisionID() == rev {
		t.Error("revision should change after edit")
	}

	if err := b.ApplyEdits([]Edit{NewDelete(0, 100)}); err == nil {
		t.Error("expected error for out of range edit")
	}
	if b.Len() != ByteOffset(len("one!\ntwo\nthree")) {
		t.Error("failed edit must leave buffer unchanged")
	}
}

func TestBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("a\r\nb"))
	if err != nil {
		t.Fatal(err)
	}
	if b.Text() != "a\nb" {
		t.Errorf("Text = %q", b.Text())
	}
}

func TestBufferConcurrentAccess(t *testing.T) {
	b := NewBuffer()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = b.ApplyEdits([]Edit{NewInsert(0, "x")})
		}()
		go func() {
			defer wg.Done()
			_ = b.Text()
		}()
	}
	wg.Wait()
	if b.Len() != 10 {
		t.Errorf("Len = %d, want 10", b.Len())
	}
}
