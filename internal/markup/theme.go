package markup

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Style holds the colors a host paints a span with, as hex strings.
// An empty string means "keep the editor default".
type Style struct {
	Foreground string
	Background string
}

// Colors parses the style's colors. A nil color is unset.
func (s Style) Colors() (fg, bg *colorful.Color, err error) {
	if s.Foreground != "" {
		c, err := colorful.Hex(s.Foreground)
		if err != nil {
			return nil, nil, fmt.Errorf("foreground %q: %w", s.Foreground, err)
		}
		fg = &c
	}
	if s.Background != "" {
		c, err := colorful.Hex(s.Background)
		if err != nil {
			return nil, nil, fmt.Errorf("background %q: %w", s.Background, err)
		}
		bg = &c
	}
	return fg, bg, nil
}

// Theme maps tags to styles.
type Theme struct {
	// Name is the display name of the theme.
	Name string

	// Styles maps tags to their styles.
	Styles map[Tag]Style
}

// DefaultTheme returns the stock wiki theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "Wiki",
		Styles: map[Tag]Style{
			TagFootnote:     {Foreground: "#888888", Background: "#f0f0f0"},
			TagLink:         {Foreground: "#007acc", Background: "#e0f7fa"},
			TagLinkPending:  {Background: "#ffff00"},
			TagLinkExists:   {Foreground: "#ffffff", Background: "#008000"},
			TagLinkMissing:  {Foreground: "#ffffff", Background: "#ff0000"},
			TagMapPoint:     {Foreground: "#6a1b9a", Background: "#f3e5f5"},
			TagMapReference: {Foreground: "#6a1b9a"},
			TagQuoteLine:    {Foreground: "#555555"},
		},
	}
}

// StyleFor returns the style for a tag, or the zero Style.
func (t *Theme) StyleFor(tag Tag) Style {
	if t == nil {
		return Style{}
	}
	return t.Styles[tag]
}

// Override replaces the styles of the tags named in overrides, keyed by tag
// name. Unknown names are reported as an error and nothing is changed.
func (t *Theme) Override(overrides map[string]Style) error {
	parsed := make(map[Tag]Style, len(overrides))
	for name, style := range overrides {
		tag := ParseTag(name)
		if tag == TagNone {
			return fmt.Errorf("unknown tag %q in theme", name)
		}
		if _, _, err := style.Colors(); err != nil {
			return fmt.Errorf("tag %s: %w", name, err)
		}
		parsed[tag] = style
	}
	if t.Styles == nil {
		t.Styles = make(map[Tag]Style, len(parsed))
	}
	for tag, style := range parsed {
		t.Styles[tag] = style
	}
	return nil
}

// Validate checks that every color of the theme parses.
func (t *Theme) Validate() error {
	for tag, style := range t.Styles {
		if _, _, err := style.Colors(); err != nil {
			return fmt.Errorf("tag %s: %w", tag, err)
		}
	}
	return nil
}
