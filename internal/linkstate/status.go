package linkstate

import (
	"context"

	"github.com/dshills/wikiedit/internal/markup"
)

// Status is the existence state of a link key.
type Status uint8

// Link statuses.
const (
	Pending Status = iota
	Exists
	Missing
)

// StatusOf converts a resolver answer to a Status.
func StatusOf(exists bool) Status {
	if exists {
		return Exists
	}
	return Missing
}

// String returns "pending", "exists" or "missing".
func (s Status) String() string {
	switch s {
	case Exists:
		return "exists"
	case Missing:
		return "missing"
	default:
		return "pending"
	}
}

// IsResolved returns true for Exists and Missing.
func (s Status) IsResolved() bool {
	return s == Exists || s == Missing
}

// Tag returns the span tag for a link with this status.
func (s Status) Tag() markup.Tag {
	switch s {
	case Exists:
		return markup.TagLinkExists
	case Missing:
		return markup.TagLinkMissing
	default:
		return markup.TagLinkPending
	}
}

// Resolver looks up whether pages exist. Request receives normalized keys
// and should return quickly; answers are delivered later, in any order and
// in any number of parts, through Cache.RecordResolutions or
// decoration.Decorator.ApplyResolutions.
type Resolver interface {
	Request(ctx context.Context, keys []string) error
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, keys []string) error

// Request calls f(ctx, keys).
func (f ResolverFunc) Request(ctx context.Context, keys []string) error {
	return f(ctx, keys)
}
