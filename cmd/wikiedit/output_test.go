package main

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/dshills/wikiedit/internal/app"
	"github.com/dshills/wikiedit/internal/engine/cursor"
	"github.com/dshills/wikiedit/internal/markup"
)

func TestParseCursor(t *testing.T) {
	sel, err := parseCursor("7")
	require.NoError(t, err)
	assert.True(t, sel.Equal(cursor.Caret(7)))

	sel, err = parseCursor("9:2")
	require.NoError(t, err)
	p := sel.Primary()
	assert.Equal(t, cursor.ByteOffset(9), p.Anchor)
	assert.Equal(t, cursor.ByteOffset(2), p.Head)

	for _, bad := range []string{"", "x", "1:", "1:y"} {
		_, err := parseCursor(bad)
		assert.Error(t, err, "parseCursor(%q)", bad)
	}
}

func TestPosition(t *testing.T) {
	text := "ab\nе\u0308лка ((x))"
	line, col := position(text, 0)
	assert.Equal(t, [2]int{1, 1}, [2]int{line, col})

	// the decomposed letter counts as one column
	line, col = position(text, cursor.ByteOffset(strings.Index(text, "((x")))
	assert.Equal(t, [2]int{2, 6}, [2]int{line, col})
}

func TestMarkSelection(t *testing.T) {
	assert.Equal(t, "* a\n* |", markSelection("* a\n* ", cursor.Caret(6)))
	set := cursor.NewSelectionSet(cursor.NewSelection(4, 0), cursor.NewCursorSelection(6))
	assert.Equal(t, "<abcd>ef|gh", markSelection("abcdefgh", set))
}

func TestRuns(t *testing.T) {
	text := "> a ((b)) c"
	spans := []markup.Span{
		{From: 0, To: 11, Tag: markup.TagQuoteLine},
		{From: 4, To: 9, Tag: markup.TagLink},
		{From: 6, To: 7, Tag: markup.TagLinkPending},
	}

	got := runs(text, spans)
	want := []textRun{
		{"> a ", markup.TagQuoteLine},
		{"((", markup.TagLink},
		{"b", markup.TagLinkPending},
		{"))", markup.TagLink},
		{" c", markup.TagQuoteLine},
	}
	assert.Equal(t, want, got)
	assert.Empty(t, runs("", nil))
	assert.Equal(t, []textRun{{"plain", markup.TagNone}}, runs("plain", nil))
}

func TestStyledWithoutColors(t *testing.T) {
	assert.Equal(t, "x", styled("x", markup.Style{}))
	assert.Equal(t, "x", styled("x", markup.Style{Foreground: "bad"}))
}

func TestRenderJSON(t *testing.T) {
	sess, err := app.New(nil)
	require.NoError(t, err)
	defer sess.Close()

	_, err = sess.SetText(context.Background(), "[[note]] ((Page))")
	require.NoError(t, err)

	out, err := renderJSON(sess)
	require.NoError(t, err)
	require.True(t, gjson.Valid(out))

	doc := gjson.Parse(out)
	assert.Equal(t, sess.ID(), doc.Get("session").String())
	assert.Equal(t, "[[note]] ((Page))", doc.Get("text").String())
	assert.Equal(t, int64(0), doc.Get("selection.0.head").Int())
	assert.Equal(t, int64(2), doc.Get("spans.#").Int())
	assert.Equal(t, "footnote", doc.Get("spans.0.tag").String())
	assert.Equal(t, "link-pending", doc.Get("spans.1.tag").String())
	assert.Equal(t, "Page", doc.Get("spans.1.text").String())
	assert.Equal(t, int64(12), doc.Get("spans.1.column").Int())
	assert.Equal(t, "cm-link-pending", doc.Get("spans.1.class").String())
	assert.Equal(t, int64(1), doc.Get("links.pending").Int())
}

func TestRenderSpanTable(t *testing.T) {
	out, err := renderSpanTable("x", nil)
	require.NoError(t, err)
	assert.Equal(t, "no markup\n", out)

	out, err = renderSpanTable("((a))", []markup.Span{{From: 2, To: 3, Tag: markup.TagLinkPending}})
	require.NoError(t, err)
	assert.Contains(t, out, "1:3")
	assert.Contains(t, out, "link-pending")
	assert.Contains(t, out, `"a"`)
}
