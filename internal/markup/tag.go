package markup

// Tag is the semantic class of a span.
type Tag uint8

// Span tags.
const (
	TagNone Tag = iota
	TagFootnote
	TagLink // outer ((...)) frame, emitted only with Options.LinkFrames
	TagLinkPending
	TagLinkExists
	TagLinkMissing
	TagMapPoint
	TagMapReference
	TagQuoteLine

	tagCount
)

var tagNames = [tagCount]string{
	TagNone:         "none",
	TagFootnote:     "footnote",
	TagLink:         "link",
	TagLinkPending:  "link-pending",
	TagLinkExists:   "link-exists",
	TagLinkMissing:  "link-missing",
	TagMapPoint:     "map-point",
	TagMapReference: "map-reference",
	TagQuoteLine:    "quote-line",
}

// String returns the tag name, e.g. "link-pending".
func (t Tag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return "unknown"
}

// ClassName returns the CSS-style class a browser host attaches to the span.
func (t Tag) ClassName() string {
	return "cm-" + t.String()
}

// IsResolvableLink returns true for the tags a link-existence lookup can
// change: pending, exists and missing.
func (t Tag) IsResolvableLink() bool {
	return t >= TagLinkPending && t <= TagLinkMissing
}

// ParseTag returns the tag with the given name, or TagNone.
func ParseTag(name string) Tag {
	for i, n := range tagNames {
		if n == name {
			return Tag(i)
		}
	}
	return TagNone
}

// Tags returns all real tags in declaration order.
func Tags() []Tag {
	tags := make([]Tag, 0, tagCount-1)
	for t := TagFootnote; t < tagCount; t++ {
		tags = append(tags, t)
	}
	return tags
}
