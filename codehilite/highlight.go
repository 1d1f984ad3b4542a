package codehilite

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	wrapperOpen  = `<div class="codehilite-wrap">`
	wrapperClose = `</div>`
)

// highlight renders code to an HTML fragment via chroma and wraps it in the
// fixed codehilite-wrap container. An empty lang falls back to language
// detection when the config asks for it, and to plain text otherwise.
func highlight(code, lang string, cfg Config, tabLength int, hlLines [][2]int) (string, error) {
	if !cfg.UsePygments {
		return plainCodeBlock(code, lang, cfg), nil
	}

	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil && cfg.GuessLang {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	options := []chromahtml.Option{
		chromahtml.WithClasses(!cfg.NoClasses),
		chromahtml.TabWidth(tabLength),
	}
	if cfg.LineNumbers {
		options = append(options, chromahtml.WithLineNumbers(true))
	}
	if len(hlLines) > 0 {
		options = append(options, chromahtml.HighlightLines(hlLines))
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", fmt.Errorf("tokenising code block: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(wrapperOpen)
	sb.WriteString(`<div class="` + cfg.CSSClass + `">`)
	if err := chromahtml.New(options...).Format(&sb, styles.Get(cfg.Style), iterator); err != nil {
		return "", fmt.Errorf("formatting code block: %w", err)
	}
	sb.WriteString(wrapperClose)
	sb.WriteString(wrapperClose)
	return sb.String(), nil
}

func plainCodeBlock(code, lang string, cfg Config) string {
	var sb strings.Builder
	sb.WriteString(wrapperOpen)
	sb.WriteString(`<pre class="` + cfg.CSSClass + `"><code`)
	if lang != "" {
		sb.WriteString(` class="language-` + lang + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(html.EscapeString(code))
	sb.WriteString("</code></pre>")
	sb.WriteString(wrapperClose)
	return sb.String()
}
