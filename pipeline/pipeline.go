// Package pipeline renders wiki markdown to HTML through an extensible
// sequence of passes: line preprocessors run before the markdown parse and
// tree passes run over the parsed HTML tree before serialization. Passes are
// registered by name at numeric priorities and may stash pre-rendered HTML
// fragments behind placeholder tokens that the pipeline resolves at the end
// of a run.
package pipeline

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Preprocessor rewrites the raw document lines before the markdown parse.
type Preprocessor interface {
	Process(doc *Document, lines []string) ([]string, error)
}

// TreeProcessor mutates the parsed HTML tree before serialization.
type TreeProcessor interface {
	Process(doc *Document, root *html.Node) error
}

// Extension wires additional passes into a pipeline.
type Extension interface {
	Name() string
	Extend(p *Pipeline) error
}

// Document carries the per-run state shared by all passes. It is created for
// each Convert call and discarded afterwards; nothing in it outlives a run.
type Document struct {
	Stash     *HTMLStash
	TabLength int
}

// Config configures a Pipeline.
type Config struct {
	TabLength  int // tab stop width, default 4
	Extensions []Extension
}

func (c Config) applyDefaults() Config {
	if c.TabLength == 0 {
		c.TabLength = 4
	}
	return c
}

// Validate checks that config values are valid.
func (c Config) Validate() error {
	if c.TabLength < 1 {
		return fmt.Errorf("tabLength must be positive, got %d", c.TabLength)
	}
	return nil
}

// Pipeline converts wiki markdown documents to HTML.
type Pipeline struct {
	config   Config
	markdown goldmark.Markdown

	Preprocessors  *Registry[Preprocessor]
	TreeProcessors *Registry[TreeProcessor]

	extensions map[string]bool
	warnings   []Warning
}

// New creates a Pipeline with the default passes installed and the configured
// extensions applied.
func New(config Config) (*Pipeline, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		config: cfg,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(htmlrenderer.WithUnsafe()),
		),
		Preprocessors:  &Registry[Preprocessor]{},
		TreeProcessors: &Registry[TreeProcessor]{},
		extensions:     make(map[string]bool),
	}

	p.Preprocessors.Register("normalize_whitespace", normalizeWhitespace{}, 30)
	p.TreeProcessors.Register("inline", inlineWikiLinks{}, 20)
	p.TreeProcessors.Register("prettify", prettify{}, 10)

	for _, ext := range cfg.Extensions {
		if err := p.Use(ext); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// Use applies an extension to the pipeline. An extension name that has
// already been applied is skipped, so the same extension never registers its
// passes twice.
func (p *Pipeline) Use(ext Extension) error {
	if p.extensions[ext.Name()] {
		return nil
	}
	if err := ext.Extend(p); err != nil {
		return err
	}
	p.extensions[ext.Name()] = true
	return nil
}

// AddWarning records a non-fatal configuration issue.
func (p *Pipeline) AddWarning(warnType WarningType, pass, message string) {
	p.warnings = append(p.warnings, Warning{
		Type:    warnType,
		Pass:    pass,
		Message: message,
	})
}

// Warnings returns the warnings recorded while configuring the pipeline.
func (p *Pipeline) Warnings() []Warning {
	return append([]Warning(nil), p.warnings...)
}

// Convert renders a markdown document to HTML. Preprocessors run over the
// raw lines, goldmark performs the main parse, tree passes run over the
// parsed HTML tree, and stashed fragments replace their placeholders in the
// serialized output.
func (p *Pipeline) Convert(source string) (Result, error) {
	doc := &Document{
		Stash:     &HTMLStash{},
		TabLength: p.config.TabLength,
	}

	lines := strings.Split(source, "\n")
	var err error
	for _, pre := range p.Preprocessors.Items() {
		lines, err = pre.Process(doc, lines)
		if err != nil {
			return Result{}, err
		}
	}

	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(strings.Join(lines, "\n")), &buf); err != nil {
		return Result{}, fmt.Errorf("markdown conversion failed: %w", err)
	}

	root, err := parseFragment(buf.String())
	if err != nil {
		return Result{}, fmt.Errorf("parsing rendered HTML failed: %w", err)
	}

	for _, tree := range p.TreeProcessors.Items() {
		if err := tree.Process(doc, root); err != nil {
			return Result{}, err
		}
	}

	out, err := renderFragment(root)
	if err != nil {
		return Result{}, fmt.Errorf("serializing HTML failed: %w", err)
	}

	return Result{
		HTML:     doc.Stash.Resolve(out),
		Warnings: append([]Warning(nil), p.warnings...),
	}, nil
}

// parseFragment parses rendered HTML into a synthetic body element whose
// children are the top-level fragment nodes.
func parseFragment(fragment string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, node := range nodes {
		root.AppendChild(node)
	}
	return root, nil
}

func renderFragment(root *html.Node) (string, error) {
	var sb strings.Builder
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&sb, child); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
