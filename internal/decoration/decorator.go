package decoration

import (
	"context"
	"sync"

	"github.com/dshills/wikiedit/internal/linkstate"
	"github.com/dshills/wikiedit/internal/markup"
)

// Renderer receives the span list whenever it changes. The list is a copy
// owned by the renderer. RenderSpans is called with the decorator locked
// and must not call back into it.
type Renderer interface {
	RenderSpans(spans []markup.Span)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(spans []markup.Span)

// RenderSpans calls f(spans).
func (f RendererFunc) RenderSpans(spans []markup.Span) {
	f(spans)
}

// Option configures a Decorator.
type Option func(*Decorator)

// WithRenderer sets the renderer spans are emitted to.
func WithRenderer(r Renderer) Option {
	return func(d *Decorator) {
		d.renderer = r
	}
}

// Decorator produces the spans of a document, link tags reflecting the
// cache. It is safe for concurrent use.
type Decorator struct {
	mu       sync.Mutex
	scanner  *markup.Scanner
	cache    *linkstate.Cache
	renderer Renderer

	scanned bool
	text    string
	spans   []markup.Span
}

// New creates a decorator. A nil scanner uses the default options and a
// nil cache a fresh one.
func New(scanner *markup.Scanner, cache *linkstate.Cache, opts ...Option) *Decorator {
	if scanner == nil {
		scanner = markup.NewScanner(markup.DefaultOptions())
	}
	if cache == nil {
		cache = linkstate.NewCache(nil)
	}
	d := &Decorator{scanner: scanner, cache: cache}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cache returns the link cache of the decorator.
func (d *Decorator) Cache() *linkstate.Cache {
	return d.cache
}

// Update returns the spans of text. A text different from the last one is
// rescanned, its link keys tracked and the unknown ones requested from the
// cache's resolver; the new spans are emitted before the request is made.
// The same text again returns the memoized spans after applying any
// statuses that arrived in the meantime.
//
// A failing resolver is reported as error; the spans are valid regardless.
func (d *Decorator) Update(ctx context.Context, text string) ([]markup.Span, error) {
	d.mu.Lock()
	if d.scanned && text == d.text {
		if d.reclassify() {
			d.emit()
		}
		spans := d.copySpans()
		d.mu.Unlock()
		return spans, nil
	}

	d.text = text
	d.spans = d.scanner.Scan(text)
	d.scanned = true
	keys := d.linkKeys()
	d.cache.Track(keys)
	d.reclassify()
	d.emit()
	spans := d.copySpans()
	d.mu.Unlock()

	tracer().Debugf("rescanned %d bytes: %d spans, %d links", len(text), len(spans), len(keys))

	// outside the lock: a resolver may answer synchronously
	_, err := d.cache.Request(ctx, keys)
	return spans, err
}

// ApplyResolutions records resolver answers in the cache and retags the
// memoized spans. It reports whether the spans changed.
func (d *Decorator) ApplyResolutions(statuses map[string]bool) bool {
	d.cache.RecordResolutions(statuses)
	return d.Reapply()
}

// Reapply retags the link spans of the memoized text from the cache
// without rescanning. Spans are emitted only if a tag changed.
func (d *Decorator) Reapply() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.scanned {
		return false
	}
	if !d.reclassify() {
		return false
	}
	d.emit()
	return true
}

// Spans returns a copy of the current spans.
func (d *Decorator) Spans() []markup.Span {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.copySpans()
}

// Text returns the memoized text.
func (d *Decorator) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

// Invalidate drops the memo so the next Update rescans.
func (d *Decorator) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scanned = false
	d.text = ""
	d.spans = nil
}

// linkKeys returns the raw key texts of the resolvable link spans.
func (d *Decorator) linkKeys() []string {
	var keys []string
	for _, sp := range d.spans {
		if sp.Tag.IsResolvableLink() {
			keys = append(keys, sp.Text(d.text))
		}
	}
	return keys
}

// reclassify sets the tag of every resolvable link span from the cache and
// reports whether any tag changed.
func (d *Decorator) reclassify() bool {
	idx := make([]int, 0, len(d.spans))
	raw := make([]string, 0, len(d.spans))
	for i, sp := range d.spans {
		if sp.Tag.IsResolvableLink() {
			idx = append(idx, i)
			raw = append(raw, sp.Text(d.text))
		}
	}
	if len(idx) == 0 {
		return false
	}
	changed := false
	for j, status := range d.cache.ClassifyMany(raw) {
		sp := &d.spans[idx[j]]
		if tag := status.Tag(); sp.Tag != tag {
			sp.Tag = tag
			changed = true
		}
	}
	return changed
}

func (d *Decorator) copySpans() []markup.Span {
	spans := make([]markup.Span, len(d.spans))
	copy(spans, d.spans)
	return spans
}

func (d *Decorator) emit() {
	if d.renderer != nil {
		d.renderer.RenderSpans(d.copySpans())
	}
}
