package linkkey

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultFolds are the homoglyph pairs every Normalizer folds.
var DefaultFolds = map[rune]rune{
	'ё': 'е',
}

// Normalizer computes link keys. It is immutable after construction and
// safe for concurrent use.
type Normalizer struct {
	folds map[rune]rune
}

// NewNormalizer creates a normalizer folding DefaultFolds plus the given
// extra pairs. Pairs are case-insensitive: folding 'ё' to 'е' also folds
// 'Ё' to 'Е'.
func NewNormalizer(folds map[rune]rune) *Normalizer {
	n := &Normalizer{folds: make(map[rune]rune, len(DefaultFolds)+len(folds))}
	for from, to := range DefaultFolds {
		n.addFold(from, to)
	}
	for from, to := range folds {
		n.addFold(from, to)
	}
	return n
}

// keys are upper case by the time folding runs
func (n *Normalizer) addFold(from, to rune) {
	n.folds[unicode.ToUpper(from)] = unicode.ToUpper(to)
}

func (n *Normalizer) fold(r rune) rune {
	if to, ok := n.folds[r]; ok {
		return to
	}
	return r
}

// Folds returns a copy of the upper-case fold table.
func (n *Normalizer) Folds() map[rune]rune {
	folds := make(map[rune]rune, len(n.folds))
	for k, v := range n.folds {
		folds[k] = v
	}
	return folds
}

// Normalize returns the key of raw. It never fails; empty input yields an
// empty key.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	// casers keep state between calls, so every call gets its own chain
	t := transform.Chain(norm.NFC, cases.Upper(language.Und), runes.Map(n.fold))
	key, _, err := transform.String(t, raw)
	if err != nil {
		tracer().Errorf("normalizing %q: %v", raw, err)
		key = strings.Map(n.fold, strings.ToUpper(norm.NFC.String(raw)))
	}
	return strings.Join(strings.Fields(key), " ")
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize returns the key of raw using the default fold table.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Equal reports whether a and b normalize to the same key.
func (n *Normalizer) Equal(a, b string) bool {
	return n.Normalize(a) == n.Normalize(b)
}
