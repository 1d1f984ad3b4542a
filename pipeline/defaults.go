package pipeline

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var wikiLinkRe = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|([^\[\]]+))?\]\]`)

// normalizeWhitespace is the first preprocessor of every pipeline. It strips
// a leading BOM, normalizes line endings to LF, expands tabs to the
// document's tab stops and ensures a trailing newline.
type normalizeWhitespace struct{}

func (normalizeWhitespace) Process(doc *Document, lines []string) ([]string, error) {
	text := strings.Join(lines, "\n")
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = expandTabs(text, doc.TabLength)
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return strings.Split(text, "\n"), nil
}

func expandTabs(text string, tabLength int) string {
	var sb strings.Builder
	column := 0
	for _, r := range text {
		switch r {
		case '\t':
			pad := tabLength - column%tabLength
			sb.WriteString(strings.Repeat(" ", pad))
			column += pad
		case '\n':
			sb.WriteRune(r)
			column = 0
		default:
			sb.WriteRune(r)
			column++
		}
	}
	return sb.String()
}

// inlineWikiLinks resolves wiki-style [[Page]] and [[Page|label]] references
// in text nodes into links. Text inside code, pre and existing links is left
// alone.
type inlineWikiLinks struct{}

func (inlineWikiLinks) Process(doc *Document, root *html.Node) error {
	var textNodes []*html.Node
	collectLinkableText(root, &textNodes)
	for _, node := range textNodes {
		expandWikiLinks(node)
	}
	return nil
}

func collectLinkableText(n *html.Node, out *[]*html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Code, atom.Pre, atom.A:
			return
		}
	}
	if n.Type == html.TextNode {
		if wikiLinkRe.MatchString(n.Data) {
			*out = append(*out, n)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectLinkableText(c, out)
	}
}

func expandWikiLinks(node *html.Node) {
	parent := node.Parent
	rest := node.Data
	for {
		m := wikiLinkRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		if m[0] > 0 {
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: rest[:m[0]]}, node)
		}

		page := strings.TrimSpace(rest[m[2]:m[3]])
		label := page
		if m[4] >= 0 {
			label = rest[m[4]:m[5]]
		}

		link := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "href", Val: "/" + strings.ReplaceAll(page, " ", "_")},
			},
		}
		link.AppendChild(&html.Node{Type: html.TextNode, Data: label})
		parent.InsertBefore(link, node)

		rest = rest[m[1]:]
	}
	if rest != "" {
		parent.InsertBefore(&html.Node{Type: html.TextNode, Data: rest}, node)
	}
	parent.RemoveChild(node)
}

// prettify stabilizes the serialized output: every top-level block element is
// followed by a newline and preformatted blocks end their text with one.
type prettify struct{}

func (prettify) Process(doc *Document, root *html.Node) error {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		next := c.NextSibling
		if next != nil && next.Type == html.TextNode && strings.HasPrefix(next.Data, "\n") {
			continue
		}
		newline := &html.Node{Type: html.TextNode, Data: "\n"}
		if next != nil {
			root.InsertBefore(newline, next)
		} else {
			root.AppendChild(newline)
		}
	}
	terminatePreBlocks(root)
	return nil
}

func terminatePreBlocks(n *html.Node) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Pre {
		if last := lastTextNode(n); last != nil && !strings.HasSuffix(last.Data, "\n") {
			last.Data += "\n"
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		terminatePreBlocks(c)
	}
}

func lastTextNode(n *html.Node) *html.Node {
	var last *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			last = n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return last
}
