package codehilite

import (
	"strings"

	"github.com/rgonek/wiki-markdown/pipeline"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// hiliteTreeProcessor highlights code blocks the main parse produced
// directly, i.e. blocks the fenced extractor never saw (indentation-style
// code). Each matching block is replaced by an inert paragraph holding a
// stash placeholder.
type hiliteTreeProcessor struct {
	config Config
}

func (h *hiliteTreeProcessor) Process(doc *pipeline.Document, root *html.Node) error {
	var blocks []*html.Node
	collectCodeBlocks(root, &blocks)

	for _, pre := range blocks {
		code := pre.FirstChild

		rendered, err := highlight(textContent(code), codeLanguage(code), h.config, doc.TabLength, nil)
		if err != nil {
			return err
		}
		token := doc.Stash.Store(rendered)

		for pre.FirstChild != nil {
			pre.RemoveChild(pre.FirstChild)
		}
		pre.Data = "p"
		pre.DataAtom = atom.P
		pre.Attr = nil
		pre.AppendChild(&html.Node{Type: html.TextNode, Data: token})
	}

	return nil
}

// collectCodeBlocks gathers every pre element whose sole child is a single
// code element. Blocks with no children or more than one are not plain code
// blocks and stay untouched.
func collectCodeBlocks(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Pre {
		only := n.FirstChild
		if only != nil && only.NextSibling == nil &&
			only.Type == html.ElementNode && only.DataAtom == atom.Code {
			*out = append(*out, n)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectCodeBlocks(c, out)
	}
}

// codeLanguage reads the language hint the main parse leaves as a
// language-* class. Indented blocks carry none and return "".
func codeLanguage(code *html.Node) string {
	for _, attr := range code.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, class := range strings.Fields(attr.Val) {
			if lang, ok := strings.CutPrefix(class, "language-"); ok {
				return lang
			}
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
