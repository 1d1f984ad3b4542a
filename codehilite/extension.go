// Package codehilite adds syntax-highlighted code block rendering to a
// pipeline. A preprocessing pass extracts fenced code blocks from the raw
// document and a tree pass highlights code blocks the main parse produced
// directly; both delegate the highlighting itself to chroma and defer their
// HTML through the pipeline's placeholder stash.
package codehilite

import (
	"fmt"

	"github.com/rgonek/wiki-markdown/pipeline"
)

const (
	extensionName = "codehilite"

	treePassName = "hilite"
	prePassName  = "fenced_code_block"

	inlinePassName    = "inline"
	normalizePassName = "normalize_whitespace"
)

// Extension wires the fenced block extractor and the tree highlighter into a
// pipeline. The tree pass runs just before the "inline" pass and the
// preprocessor just after "normalize_whitespace"; a default pass already
// registered under either name is removed with a warning.
type Extension struct {
	config Config
}

// New creates the extension with the given config.
func New(config Config) (*Extension, error) {
	cfg := config.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extension{config: cfg}, nil
}

// Name returns the extension name the pipeline deduplicates on.
func (e *Extension) Name() string {
	return extensionName
}

// Extend registers both passes at priorities interpolated between the
// pipeline's existing named passes.
func (e *Extension) Extend(p *pipeline.Pipeline) error {
	if p.TreeProcessors.Contains(treePassName) {
		p.TreeProcessors.Deregister(treePassName)
		p.AddWarning(pipeline.WarningReplacedPass, treePassName,
			fmt.Sprintf("replacing existing %q tree pass; remove the conflicting pass from the pipeline configuration", treePassName))
	}
	priority, err := treePassPriority(p)
	if err != nil {
		return err
	}
	p.TreeProcessors.Register(treePassName, &hiliteTreeProcessor{config: e.config}, priority)

	if p.Preprocessors.Contains(prePassName) {
		p.Preprocessors.Deregister(prePassName)
		p.AddWarning(pipeline.WarningReplacedPass, prePassName,
			fmt.Sprintf("replacing existing %q preprocessor; remove the conflicting pass from the pipeline configuration", prePassName))
	}
	priority, err = preprocessorPriority(p)
	if err != nil {
		return err
	}
	p.Preprocessors.Register(prePassName, &fencedBlockPreprocessor{config: e.config}, priority)

	return nil
}

// treePassPriority computes a slot strictly between the "inline" pass and
// whichever pass runs immediately before it. When "inline" runs first, the
// slot is interpolated against a virtual pass 10 above it.
func treePassPriority(p *pipeline.Pipeline) (float64, error) {
	i := p.TreeProcessors.IndexOf(inlinePassName)
	if i < 0 {
		return 0, fmt.Errorf("pipeline has no %q tree pass to anchor on", inlinePassName)
	}
	after := p.TreeProcessors.PriorityAt(i)
	before := after + 10
	if i > 0 {
		before = p.TreeProcessors.PriorityAt(i - 1)
	}
	return midpoint(before, after)
}

// preprocessorPriority computes a slot strictly between the
// "normalize_whitespace" pass and whichever pass runs immediately after it,
// or 10 below it when it runs last.
func preprocessorPriority(p *pipeline.Pipeline) (float64, error) {
	i := p.Preprocessors.IndexOf(normalizePassName)
	if i < 0 {
		return 0, fmt.Errorf("pipeline has no %q preprocessor to anchor on", normalizePassName)
	}
	before := p.Preprocessors.PriorityAt(i)
	after := before - 10
	if i < p.Preprocessors.Len()-1 {
		after = p.Preprocessors.PriorityAt(i + 1)
	}
	return midpoint(before, after)
}

func midpoint(before, after float64) (float64, error) {
	if before == after {
		return 0, fmt.Errorf("no room for a pass between two passes at priority %v", before)
	}
	return before - (before-after)/2, nil
}
