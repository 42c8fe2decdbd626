package markup

import (
	"sort"
	"strings"

	"github.com/dshills/wikiedit/internal/engine/buffer"
)

// Default markers.
const (
	DefaultMapPointPrefix     = "{{map:"
	DefaultMapReferencePrefix = "map:"
)

// Options configures a Scanner.
type Options struct {
	// MapPointPrefix opens a map point marker, which runs up to the next "}}".
	MapPointPrefix string

	// MapReferencePrefix marks a link key as a map reference. Map references
	// are never looked up. Matching ignores case.
	MapReferencePrefix string

	// LinkFrames additionally emits a TagLink span covering the whole
	// balanced "((...))" construct, delimiters included.
	LinkFrames bool
}

// DefaultOptions returns the default scanner options.
func DefaultOptions() Options {
	return Options{
		MapPointPrefix:     DefaultMapPointPrefix,
		MapReferencePrefix: DefaultMapReferencePrefix,
	}
}

// Scanner finds markup spans in a document. A Scanner holds no per-text
// state and is safe for concurrent use.
type Scanner struct {
	opts Options
}

// NewScanner creates a scanner. Empty prefixes fall back to the defaults.
func NewScanner(opts Options) *Scanner {
	if opts.MapPointPrefix == "" {
		opts.MapPointPrefix = DefaultMapPointPrefix
	}
	if opts.MapReferencePrefix == "" {
		opts.MapReferencePrefix = DefaultMapReferencePrefix
	}
	return &Scanner{opts: opts}
}

// Options returns the scanner configuration.
func (s *Scanner) Options() Options {
	return s.opts
}

// Scan returns all spans of text sorted by start offset. Unterminated
// constructs produce no span.
func (s *Scanner) Scan(text string) []Span {
	spans := make([]Span, 0, 16)

	spans = appendFootnotes(spans, text)
	links := s.findLinks(text)
	if s.opts.LinkFrames {
		for _, l := range links {
			spans = append(spans, l.frame)
		}
	}
	for _, l := range links {
		spans = append(spans, l.Span)
	}
	spans = appendDelimited(spans, text, s.opts.MapPointPrefix, "}}", TagMapPoint)
	spans = appendQuoteLines(spans, text)

	sort.SliceStable(spans, func(i, j int) bool {
		return spans[i].From < spans[j].From
	})

	tracer().Debugf("scanned %d bytes: %d spans, %d links", len(text), len(spans), len(links))
	return spans
}

// Links returns the link occurrences of text in document order, map
// references included.
func (s *Scanner) Links(text string) []Link {
	found := s.findLinks(text)
	links := make([]Link, len(found))
	for i, l := range found {
		links[i] = l.Link
	}
	return links
}

// foundLink is a Link plus the span of its whole construct.
type foundLink struct {
	Link
	frame Span
}

// findLinks locates "((key))" and "((key=display))" constructs. The opening
// pair must not be followed by a third "(" and the closing pair must not be
// followed by a third ")"; neither key nor display text may span lines.
// Content is matched lazily, the key is then cut to its balanced prefix.
func (s *Scanner) findLinks(text string) []foundLink {
	n := len(text)
	if !strings.Contains(text, "((") {
		return nil
	}
	next := closeTable(text)

	var links []foundLink
	for i := 0; i+2 < n; {
		j := strings.Index(text[i:], "((")
		if j < 0 {
			break
		}
		i += j
		if i+2 >= n || text[i+2] == '(' {
			i++
			continue
		}
		keyEnd, end, ok := matchLink(text, i, next)
		if !ok {
			i++
			continue
		}

		raw := text[i+2 : keyEnd]
		key := TrimBalanced(raw)
		if key != "" {
			display := ""
			if keyEnd < end-2 {
				display = TrimBalanced(text[keyEnd+1 : end-2])
			}
			from := buffer.ByteOffset(i + 2)
			tag := TagLinkPending
			if hasPrefixFold(key, s.opts.MapReferencePrefix) {
				tag = TagMapReference
			}
			frameLen := len(TrimBalanced(text[i:end]))
			links = append(links, foundLink{
				Link: Link{
					Key:     key,
					Display: display,
					Span:    Span{From: from, To: from + buffer.ByteOffset(len(key)), Tag: tag},
				},
				frame: Span{From: buffer.ByteOffset(i), To: buffer.ByteOffset(i + frameLen), Tag: TagLink},
			})
		}
		i = end
	}
	return links
}

// matchLink tries to match a link whose "((" starts at i. It returns the
// end of the key content and the end of the whole construct.
func matchLink(text string, i int, next []int) (keyEnd, end int, ok bool) {
	n := len(text)
	for e := i + 3; e <= n; e++ {
		if isBreak(text, e-1) {
			return 0, 0, false
		}
		if e+1 < n && text[e] == '=' && !isBreak(text, e+1) {
			if f := next[e+2]; f >= 0 {
				return e, f + 2, true
			}
		}
		if isClose(text, e) {
			return e, e + 2, true
		}
	}
	return 0, 0, false
}

// closeTable returns, for every offset p, the first q >= p at which a
// closing "))" not followed by ")" starts with no line break in between,
// or -1.
func closeTable(text string) []int {
	n := len(text)
	next := make([]int, n+1)
	next[n] = -1
	for p := n - 1; p >= 0; p-- {
		switch {
		case isClose(text, p):
			next[p] = p
		case isBreak(text, p):
			next[p] = -1
		default:
			next[p] = next[p+1]
		}
	}
	return next
}

func isClose(text string, p int) bool {
	n := len(text)
	return p+1 < n && text[p] == ')' && text[p+1] == ')' && (p+2 >= n || text[p+2] != ')')
}

// isBreak reports whether the byte at p belongs to a line terminator:
// LF, CR, or any byte of U+2028/U+2029.
func isBreak(text string, p int) bool {
	switch text[p] {
	case '\n', '\r':
		return true
	case 0xE2:
		return p+2 < len(text) && text[p+1] == 0x80 && (text[p+2] == 0xA8 || text[p+2] == 0xA9)
	case 0x80:
		return p >= 1 && p+1 < len(text) && text[p-1] == 0xE2 && (text[p+1] == 0xA8 || text[p+1] == 0xA9)
	case 0xA8, 0xA9:
		return p >= 2 && text[p-2] == 0xE2 && text[p-1] == 0x80
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// appendFootnotes adds a span for every "[[ ... ]]" region. The region ends
// at the first "]]" and may span lines.
func appendFootnotes(spans []Span, text string) []Span {
	return appendDelimited(spans, text, "[[", "]]", TagFootnote)
}

// appendDelimited adds a span for every open ... close region, ending at
// the first close after the opener, delimiters included.
func appendDelimited(spans []Span, text, open, close string, tag Tag) []Span {
	if open == "" {
		return spans
	}
	for i := 0; i < len(text); {
		j := strings.Index(text[i:], open)
		if j < 0 {
			break
		}
		start := i + j
		k := strings.Index(text[start+len(open):], close)
		if k < 0 {
			// no later opener can be closed either
			break
		}
		end := start + len(open) + k + len(close)
		spans = append(spans, Span{From: buffer.ByteOffset(start), To: buffer.ByteOffset(end), Tag: tag})
		i = end
	}
	return spans
}

// appendQuoteLines adds a span for every line starting with '>'.
func appendQuoteLines(spans []Span, text string) []Span {
	for from := 0; from <= len(text); {
		to := strings.IndexByte(text[from:], '\n')
		if to < 0 {
			to = len(text)
		} else {
			to += from
		}
		if from < len(text) && text[from] == '>' {
			spans = append(spans, Span{From: buffer.ByteOffset(from), To: buffer.ByteOffset(to), Tag: TagQuoteLine})
		}
		from = to + 1
	}
	return spans
}
