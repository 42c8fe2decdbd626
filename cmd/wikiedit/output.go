package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pterm/pterm"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/wikiedit/internal/app"
	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
	"github.com/dshills/wikiedit/internal/markup"
)

// parseCursor parses "N" as a caret and "ANCHOR:HEAD" as a selection,
// both in byte offsets.
func parseCursor(s string) (cursor.SelectionSet, error) {
	anchorText, headText, isRange := strings.Cut(s, ":")
	anchor, err := strconv.ParseInt(anchorText, 10, 64)
	if err != nil {
		return cursor.SelectionSet{}, fmt.Errorf("cursor %q: %w", s, err)
	}
	if !isRange {
		return cursor.Caret(anchor), nil
	}
	head, err := strconv.ParseInt(headText, 10, 64)
	if err != nil {
		return cursor.SelectionSet{}, fmt.Errorf("cursor %q: %w", s, err)
	}
	return cursor.NewSelectionSet(cursor.NewSelection(anchor, head)), nil
}

// printSession writes the session in the format chosen by opts.
func printSession(w io.Writer, sess *app.Session, opts options) error {
	switch {
	case opts.asJSON:
		out, err := renderJSON(sess)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, out)
		return err
	case opts.color:
		_, err := fmt.Fprintln(w, paint(sess.Text(), sess.Spans(), sess.Theme()))
		return err
	}

	if len(opts.keys) > 0 {
		fmt.Fprintf(w, "%s\n\n", markSelection(sess.Text(), sess.Selection()))
	}
	table, err := renderSpanTable(sess.Text(), sess.Spans())
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, table)
	return err
}

// markSelection returns text with "|" at every caret and every range
// enclosed in "<" and ">".
func markSelection(text string, sel cursor.SelectionSet) string {
	var b strings.Builder
	var last buffer.ByteOffset
	for _, s := range sel.All() {
		b.WriteString(text[last:s.Start()])
		if s.IsEmpty() {
			b.WriteByte('|')
		} else {
			b.WriteByte('<')
			b.WriteString(text[s.Start():s.End()])
			b.WriteByte('>')
		}
		last = s.End()
	}
	b.WriteString(text[last:])
	return b.String()
}

// position returns the 1-based line and column of offset, the column
// counted in user-perceived characters.
func position(text string, offset buffer.ByteOffset) (line, col int) {
	p := buffer.OffsetToPoint(text, offset)
	return int(p.Line) + 1, buffer.Column(text, offset) + 1
}

func renderSpanTable(text string, spans []markup.Span) (string, error) {
	if len(spans) == 0 {
		return "no markup\n", nil
	}
	data := pterm.TableData{{"Position", "Tag", "Text"}}
	for _, sp := range spans {
		line, col := position(text, sp.From)
		data = append(data, []string{
			fmt.Sprintf("%d:%d", line, col),
			sp.Tag.String(),
			strconv.Quote(sp.Text(text)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// renderJSON builds the JSON report of the session.
func renderJSON(sess *app.Session) (string, error) {
	text := sess.Text()
	out := "{}"
	var err error
	set := func(path string, value any) {
		if err == nil {
			out, err = sjson.Set(out, path, value)
		}
	}

	set("session", sess.ID())
	set("path", sess.Path())
	set("text", text)
	set("selection", []any{})
	for _, sel := range sess.Selection().All() {
		set("selection.-1", map[string]any{"anchor": sel.Anchor, "head": sel.Head})
	}
	set("spans", []any{})
	for _, sp := range sess.Spans() {
		line, col := position(text, sp.From)
		set("spans.-1", map[string]any{
			"from":   sp.From,
			"to":     sp.To,
			"line":   line,
			"column": col,
			"tag":    sp.Tag.String(),
			"class":  sp.Tag.ClassName(),
			"text":   sp.Text(text),
		})
	}
	stats := sess.Cache().Stats()
	set("links.pending", stats.Pending)
	set("links.exists", stats.Exists)
	set("links.missing", stats.Missing)
	set("links.requests", stats.Requests)
	if err != nil {
		return "", err
	}
	return gjson.Get(out, "@pretty").Raw, nil
}

// textRun is a stretch of text painted with one tag.
type textRun struct {
	text string
	tag  markup.Tag
}

// runs cuts text into stretches of equal tag. Where spans nest, the span
// starting later wins.
func runs(text string, spans []markup.Span) []textRun {
	tags := make([]markup.Tag, len(text))
	for _, sp := range spans {
		for i := sp.From; i < sp.To; i++ {
			tags[i] = sp.Tag
		}
	}

	var result []textRun
	start := 0
	for i := 1; i <= len(text); i++ {
		if i == len(text) || tags[i] != tags[start] {
			result = append(result, textRun{text: text[start:i], tag: tags[start]})
			start = i
		}
	}
	return result
}

// paint returns text with every run colored by the theme.
func paint(text string, spans []markup.Span, theme *markup.Theme) string {
	var b strings.Builder
	for _, r := range runs(text, spans) {
		b.WriteString(styled(r.text, theme.StyleFor(r.tag)))
	}
	return b.String()
}

func styled(s string, style markup.Style) string {
	fg, bg, err := style.Colors()
	if err != nil {
		return s
	}
	switch {
	case fg != nil && bg != nil:
		return pterm.NewRGBStyle(toRGB(fg, false), toRGB(bg, true)).Sprint(s)
	case fg != nil:
		return toRGB(fg, false).Sprint(s)
	case bg != nil:
		return toRGB(bg, true).Sprint(s)
	}
	return s
}

func toRGB(c *colorful.Color, background bool) pterm.RGB {
	r, g, b := c.Clamped().RGB255()
	return pterm.RGB{R: r, G: g, B: b, Background: background}
}
