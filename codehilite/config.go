package codehilite

import "fmt"

// Config controls how code blocks are highlighted. It is shared read-only by
// the fenced block preprocessor and the tree pass; the tab width comes from
// the pipeline, not from this bag.
type Config struct {
	LineNumbers bool   // render line numbers in highlighted output
	GuessLang   bool   // detect the language of unlabeled code blocks
	CSSClass    string // class of the div wrapping each highlighted block
	Style       string // chroma style name
	NoClasses   bool   // emit inline styles instead of CSS classes
	UsePygments bool   // highlight with chroma; false emits escaped <pre><code>
}

// DefaultConfig returns the configuration used when the host supplies no
// overrides.
func DefaultConfig() Config {
	return Config{
		GuessLang:   true,
		CSSClass:    "codehilite",
		Style:       "default",
		UsePygments: true,
	}
}

func (c Config) applyDefaults() Config {
	if c.CSSClass == "" {
		c.CSSClass = "codehilite"
	}
	if c.Style == "" {
		c.Style = "default"
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.CSSClass == "" {
		return fmt.Errorf("cssClass must not be empty")
	}
	if c.Style == "" {
		return fmt.Errorf("style must not be empty")
	}
	return nil
}
