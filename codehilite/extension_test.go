package codehilite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/rgonek/wiki-markdown/pipeline"
)

type nopTreePass struct{}

func (nopTreePass) Process(*pipeline.Document, *html.Node) error { return nil }

type nopPrePass struct{}

func (nopPrePass) Process(_ *pipeline.Document, lines []string) ([]string, error) {
	return lines, nil
}

func newExtension(t *testing.T) *Extension {
	t.Helper()

	cfg := DefaultConfig()
	cfg.UsePygments = false
	ext, err := New(cfg)
	require.NoError(t, err)
	return ext
}

func TestNewAppliesConfigDefaults(t *testing.T) {
	ext, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, "codehilite", ext.config.CSSClass)
	assert.Equal(t, "default", ext.config.Style)
}

func TestExtendRegistersBothPasses(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)

	require.NoError(t, p.Use(newExtension(t)))
	assert.True(t, p.TreeProcessors.Contains("hilite"))
	assert.True(t, p.Preprocessors.Contains("fenced_code_block"))
	assert.Empty(t, p.Warnings())
}

func TestTreePassPriorityMidpoint(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)

	// "inline" sits at 20 with a pass at 30 before it: midpoint is 25.
	p.TreeProcessors.Register("toc", nopTreePass{}, 30)
	require.NoError(t, p.Use(newExtension(t)))

	i := p.TreeProcessors.IndexOf("hilite")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, float64(25), p.TreeProcessors.PriorityAt(i))
}

func TestTreePassPriorityInlineFirst(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)

	// "inline" at 20 is first: interpolate against a virtual 30.
	require.NoError(t, p.Use(newExtension(t)))

	i := p.TreeProcessors.IndexOf("hilite")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, float64(25), p.TreeProcessors.PriorityAt(i))
	assert.Less(t, i, p.TreeProcessors.IndexOf("inline"))
}

func TestPreprocessorPriorityNormalizeLast(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)

	// "normalize_whitespace" at 30 is last: interpolate against a virtual 20.
	require.NoError(t, p.Use(newExtension(t)))

	i := p.Preprocessors.IndexOf("fenced_code_block")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, float64(25), p.Preprocessors.PriorityAt(i))
	assert.Greater(t, i, p.Preprocessors.IndexOf("normalize_whitespace"))
}

func TestPreprocessorPriorityMidpoint(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)

	p.Preprocessors.Register("reference", nopPrePass{}, 16)
	require.NoError(t, p.Use(newExtension(t)))

	i := p.Preprocessors.IndexOf("fenced_code_block")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, float64(23), p.Preprocessors.PriorityAt(i))
}

func TestExtendReplacesConflictingPassWithWarning(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)
	p.TreeProcessors.Register("hilite", nopTreePass{}, 22)

	require.NoError(t, p.Use(newExtension(t)))

	warnings := p.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, pipeline.WarningReplacedPass, warnings[0].Type)
	assert.Equal(t, "hilite", warnings[0].Pass)

	// The replacement is registered at the interpolated slot, not the old one.
	i := p.TreeProcessors.IndexOf("hilite")
	assert.Equal(t, float64(25), p.TreeProcessors.PriorityAt(i))
}

func TestExtendTwiceDoesNotDuplicatePasses(t *testing.T) {
	ext := newExtension(t)
	p, err := pipeline.New(pipeline.Config{Extensions: []pipeline.Extension{ext}})
	require.NoError(t, err)

	require.NoError(t, p.Use(ext))
	assert.Equal(t, 3, p.TreeProcessors.Len())
	assert.Equal(t, 2, p.Preprocessors.Len())
	assert.Empty(t, p.Warnings())
}

func TestExtendMissingAnchorPass(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)
	p.TreeProcessors.Deregister("inline")

	err = p.Use(newExtension(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inline")
}

func TestExtendAdjacentPrioritiesError(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{})
	require.NoError(t, err)

	// Rebuild the tree pass list so a pass at the same priority runs
	// immediately before "inline": no strict midpoint exists.
	p.TreeProcessors.Deregister("inline")
	p.TreeProcessors.Register("shadow", nopTreePass{}, 20)
	p.TreeProcessors.Register("inline", nopTreePass{}, 20)

	err = p.Use(newExtension(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no room")
}

func TestEndToEndFencedAndIndented(t *testing.T) {
	p, err := pipeline.New(pipeline.Config{Extensions: []pipeline.Extension{newExtension(t)}})
	require.NoError(t, err)

	source := "# Title\n\n```go\nx := 1\n```\n\n\tindented\n"
	result, err := p.Convert(source)
	require.NoError(t, err)

	assert.Contains(t, result.HTML, "<h1>Title</h1>")
	assert.Contains(t, result.HTML, `<div class="codehilite-wrap"><pre class="codehilite"><code class="language-go">x := 1`)
	assert.Contains(t, result.HTML, `<pre class="codehilite"><code>indented`)
	assert.NotContains(t, result.HTML, "\x02")
	assert.NotContains(t, result.HTML, "<p><div")
}

func TestEndToEndChroma(t *testing.T) {
	ext, err := New(DefaultConfig())
	require.NoError(t, err)
	p, err := pipeline.New(pipeline.Config{Extensions: []pipeline.Extension{ext}})
	require.NoError(t, err)

	result, err := p.Convert("```go\nx := 1\n```\n")
	require.NoError(t, err)
	assert.Contains(t, result.HTML, `<div class="codehilite-wrap">`)
	assert.Contains(t, result.HTML, `<div class="codehilite">`)
	assert.NotContains(t, result.HTML, "\x02")
}
