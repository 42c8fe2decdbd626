package decoration

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wikiedit/internal/linkstate"
	"github.com/dshills/wikiedit/internal/markup"
)

type renderRecorder struct {
	mu    sync.Mutex
	lists [][]markup.Span
}

func (r *renderRecorder) RenderSpans(spans []markup.Span) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists = append(r.lists, spans)
}

func (r *renderRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists)
}

func tags(spans []markup.Span) []markup.Tag {
	tags := make([]markup.Tag, len(spans))
	for i, sp := range spans {
		tags[i] = sp.Tag
	}
	return tags
}

func TestUpdateRequestsLinks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wikiedit.decoration")
	defer teardown()

	var requested [][]string
	resolver := linkstate.ResolverFunc(func(_ context.Context, keys []string) error {
		requested = append(requested, keys)
		return nil
	})
	rec := &renderRecorder{}
	d := New(nil, linkstate.NewCache(nil, linkstate.WithResolver(resolver)), WithRenderer(rec))

	text := "[[note]] and ((link)) or ((Link)) at ((map:Here))"
	spans, err := d.Update(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []markup.Tag{
		markup.TagFootnote, markup.TagLinkPending, markup.TagLinkPending, markup.TagMapReference,
	}, tags(spans))
	assert.Equal(t, [][]string{{"LINK"}}, requested)
	assert.Equal(t, 1, rec.count())

	// status arrives without a text change
	assert.True(t, d.ApplyResolutions(map[string]bool{"LINK": true}))
	assert.Equal(t, 2, rec.count())
	assert.Equal(t, []markup.Tag{
		markup.TagFootnote, markup.TagLinkExists, markup.TagLinkExists, markup.TagMapReference,
	}, tags(d.Spans()))

	// same answer again changes nothing
	assert.False(t, d.ApplyResolutions(map[string]bool{"LINK": true}))
	assert.Equal(t, 2, rec.count())
}

func TestUpdateSameTextIsMemoized(t *testing.T) {
	rec := &renderRecorder{}
	cache := linkstate.NewCache(nil)
	d := New(nil, cache, WithRenderer(rec))

	text := "((a)) ((b))"
	first, err := d.Update(context.Background(), text)
	require.NoError(t, err)
	second, err := d.Update(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, rec.count(), "unchanged text must not emit")

	// a late answer recorded straight into the cache is picked up by the
	// next update of the same text
	cache.RecordResolutions(map[string]bool{"b": false})
	third, err := d.Update(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []markup.Tag{markup.TagLinkPending, markup.TagLinkMissing}, tags(third))
	assert.Equal(t, 2, rec.count())
}

func TestUpdateKnownStatusesOnRescan(t *testing.T) {
	cache := linkstate.NewCache(nil)
	cache.RecordResolutions(map[string]bool{"ЁЛКА": true, "ГОД": false})
	d := New(nil, cache)

	text := "((Елка)) ((год)) ((новый))"
	spans, err := d.Update(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, []markup.Tag{markup.TagLinkExists, markup.TagLinkMissing, markup.TagLinkPending}, tags(spans))

	spans, err = d.Update(context.Background(), text+" ((ёлка))")
	require.NoError(t, err)
	assert.Equal(t, markup.TagLinkExists, spans[3].Tag)
}

func TestResolutionForVanishedLink(t *testing.T) {
	rec := &renderRecorder{}
	d := New(nil, nil, WithRenderer(rec))

	_, err := d.Update(context.Background(), "((gone))")
	require.NoError(t, err)
	_, err = d.Update(context.Background(), "plain text")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.count())

	assert.False(t, d.ApplyResolutions(map[string]bool{"GONE": true}))
	assert.Equal(t, 2, rec.count())
	assert.Equal(t, linkstate.Exists, d.Cache().Classify("gone"))
}

func TestSynchronousResolver(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wikiedit.decoration")
	defer teardown()

	var d *Decorator
	resolver := linkstate.ResolverFunc(func(_ context.Context, keys []string) error {
		answers := make(map[string]bool, len(keys))
		for _, k := range keys {
			answers[k] = k == "YES"
		}
		d.ApplyResolutions(answers)
		return nil
	})
	d = New(nil, linkstate.NewCache(nil, linkstate.WithResolver(resolver)))

	_, err := d.Update(context.Background(), "((yes)) ((no))")
	require.NoError(t, err)
	assert.Equal(t, []markup.Tag{markup.TagLinkExists, markup.TagLinkMissing}, tags(d.Spans()))
}

func TestResolverError(t *testing.T) {
	errDown := errors.New("down")
	resolver := linkstate.ResolverFunc(func(context.Context, []string) error { return errDown })
	d := New(nil, linkstate.NewCache(nil, linkstate.WithResolver(resolver)))

	spans, err := d.Update(context.Background(), "((x))")
	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, []markup.Tag{markup.TagLinkPending}, tags(spans))
}

func TestSpansAreCopies(t *testing.T) {
	rec := &renderRecorder{}
	d := New(nil, nil, WithRenderer(rec))
	spans, err := d.Update(context.Background(), "[[a]] ((b))")
	require.NoError(t, err)

	spans[0].Tag = markup.TagQuoteLine
	rec.lists[0][1].Tag = markup.TagQuoteLine
	assert.Equal(t, []markup.Tag{markup.TagFootnote, markup.TagLinkPending}, tags(d.Spans()))
}

func TestReapplyBeforeUpdate(t *testing.T) {
	d := New(nil, nil)
	assert.False(t, d.Reapply())
	assert.Empty(t, d.Spans())

	_, err := d.Update(context.Background(), "((x))")
	require.NoError(t, err)
	d.Invalidate()
	assert.Equal(t, "", d.Text())
	assert.Empty(t, d.Spans())
}

func TestSpansSorted(t *testing.T) {
	opts := markup.DefaultOptions()
	opts.LinkFrames = true
	d := New(markup.NewScanner(opts), nil)
	spans, err := d.Update(context.Background(), "> ((q=w))\n[[n]] {{map:1}} ((a))")
	require.NoError(t, err)
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].From, spans[i].From)
	}
}
