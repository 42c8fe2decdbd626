package linkstate

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/wikiedit/internal/linkkey"
)

// Stats summarizes the cache contents.
type Stats struct {
	Pending  int
	Exists   int
	Missing  int
	Requests int // outbound batches issued
	Tracked  int
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("%d exists, %d missing, %d pending, %d requests", s.Exists, s.Missing, s.Pending, s.Requests)
}

// Option configures a Cache.
type Option func(*Cache)

// WithResolver sets the resolver used by Request.
func WithResolver(r Resolver) Option {
	return func(c *Cache) {
		c.resolver = r
	}
}

// Cache maps normalized link keys to their status.
// It is safe for concurrent use.
type Cache struct {
	mu        sync.RWMutex
	norm      *linkkey.Normalizer
	resolver  Resolver
	statuses  map[string]Status
	requested map[string]struct{}
	tracked   map[string]struct{}
	requests  int
}

// NewCache creates an empty cache. A nil normalizer selects the default
// fold table.
func NewCache(n *linkkey.Normalizer, opts ...Option) *Cache {
	if n == nil {
		n = linkkey.NewNormalizer(nil)
	}
	c := &Cache{norm: n}
	c.clear()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) clear() {
	c.statuses = make(map[string]Status)
	c.requested = make(map[string]struct{})
	c.tracked = make(map[string]struct{})
	c.requests = 0
}

// SetResolver replaces the resolver used by Request.
func (c *Cache) SetResolver(r Resolver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolver = r
}

// Normalizer returns the normalizer keys are computed with.
func (c *Cache) Normalizer() *linkkey.Normalizer {
	return c.norm
}

// Key returns the normalized key of a raw link text.
func (c *Cache) Key(raw string) string {
	return c.norm.Normalize(raw)
}

// Classify returns the status of a raw link text; unknown keys are pending.
func (c *Cache) Classify(raw string) Status {
	key := c.norm.Normalize(raw)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statuses[key]
}

// ClassifyMany classifies every raw text, in order.
func (c *Cache) ClassifyMany(raw []string) []Status {
	keys := make([]string, len(raw))
	for i, r := range raw {
		keys[i] = c.norm.Normalize(r)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	statuses := make([]Status, len(keys))
	for i, key := range keys {
		statuses[i] = c.statuses[key]
	}
	return statuses
}

// Unresolved returns the distinct normalized keys of raw, in order of first
// appearance, that are neither resolved nor requested already. The
// returned keys are marked requested and recorded as pending.
func (c *Cache) Unresolved(raw []string) []string {
	keys := c.distinctKeys(raw)

	c.mu.Lock()
	defer c.mu.Unlock()
	unresolved := keys[:0]
	for _, key := range keys {
		if c.statuses[key].IsResolved() {
			continue
		}
		if _, ok := c.requested[key]; ok {
			continue
		}
		c.requested[key] = struct{}{}
		c.statuses[key] = Pending
		unresolved = append(unresolved, key)
	}
	if len(unresolved) == 0 {
		return nil
	}
	return unresolved
}

// Request sends the unresolved keys of raw to the resolver as one batch
// and returns them. Nothing is sent when every key is known or already
// requested. Without a resolver the keys just stay pending.
func (c *Cache) Request(ctx context.Context, raw []string) ([]string, error) {
	keys := c.Unresolved(raw)
	if len(keys) == 0 {
		return nil, nil
	}

	c.mu.Lock()
	r := c.resolver
	if r != nil {
		c.requests++
	}
	c.mu.Unlock()

	if r == nil {
		tracer().Debugf("no resolver, %d link keys stay pending", len(keys))
		return keys, nil
	}
	tracer().Debugf("requesting %d link keys: %v", len(keys), keys)
	if err := r.Request(ctx, keys); err != nil {
		tracer().Errorf("link lookup failed, %d keys stay pending: %v", len(keys), err)
		return keys, fmt.Errorf("requesting %d link keys: %w", len(keys), err)
	}
	return keys, nil
}

// Track replaces the set of keys referenced by the current document.
// RecordResolutions reports changes for tracked keys only.
func (c *Cache) Track(raw []string) {
	keys := c.distinctKeys(raw)
	tracked := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		tracked[key] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracked = tracked
}

// RecordResolutions merges resolver answers, keyed by raw or normalized
// link text. Keys never requested are stored as well. It reports whether
// the status of any tracked key changed.
func (c *Cache) RecordResolutions(statuses map[string]bool) bool {
	normalized := make(map[string]Status, len(statuses))
	for raw, exists := range statuses {
		normalized[c.norm.Normalize(raw)] = StatusOf(exists)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	changed := false
	for key, status := range normalized {
		if key == "" {
			continue
		}
		if c.statuses[key] == status {
			continue
		}
		c.statuses[key] = status
		if _, ok := c.tracked[key]; ok {
			changed = true
		}
	}
	tracer().Debugf("recorded %d resolutions, tracked changed: %v", len(normalized), changed)
	return changed
}

// Reset forgets all statuses and requests.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

// Stats returns counts of the cache contents.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{Requests: c.requests, Tracked: len(c.tracked)}
	for _, status := range c.statuses {
		switch status {
		case Exists:
			s.Exists++
		case Missing:
			s.Missing++
		default:
			s.Pending++
		}
	}
	return s
}

// distinctKeys normalizes raw and drops empty and repeated keys.
func (c *Cache) distinctKeys(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	keys := make([]string, 0, len(raw))
	for _, r := range raw {
		key := c.norm.Normalize(r)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}
