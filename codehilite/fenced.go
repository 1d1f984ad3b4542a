package codehilite

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rgonek/wiki-markdown/pipeline"
)

// Open fence: line start, 3 or more backticks or tildes (never mixed), an
// optional {.lang}-style attribute block with an optional hl_lines list, and
// nothing else on the line. RE2 has no backreferences, so the closing fence
// is located with a second scan keyed on the captured marker instead of a
// (?P=fence) group.
var fenceOpenRe = regexp.MustCompile(
	"(?m)^(`{3,}|~{3,})[ ]*" + // opening ``` or ~~~
		`(?:\{?\.?([A-Za-z0-9_+-]*))?[ ]*` + // optional {, . and lang
		`(?:hl_lines=(?:"(.*?)"|'(.*?)'))?[ ]*` + // optional hl_lines, either quote style
		`\}?[ ]*$`) // optional closing }

// fencedBlockPreprocessor extracts fenced code blocks from the raw document
// before the markdown parse, stashing their highlighted HTML behind
// placeholder tokens.
type fencedBlockPreprocessor struct {
	config Config
}

func (f *fencedBlockPreprocessor) Process(doc *pipeline.Document, lines []string) ([]string, error) {
	text := strings.Join(lines, "\n")

	// Substitution shifts every later offset, so the text is re-scanned from
	// the start after each match rather than matched in one pass.
	for {
		match, ok := findFencedBlock(text)
		if !ok {
			break
		}

		rendered, err := highlight(match.code, match.lang, f.config, doc.TabLength, parseHlLines(match.hlLines))
		if err != nil {
			return nil, err
		}

		token := doc.Stash.Store(rendered)
		text = text[:match.start] + "\n" + token + "\n" + text[match.end:]
	}

	return strings.Split(text, "\n"), nil
}

type fencedBlock struct {
	start   int // offset of the opening fence
	end     int // offset just past the closing fence
	lang    string
	hlLines string
	code    string
}

// findFencedBlock returns the leftmost complete fenced block in text. An
// opening fence with no matching close is skipped and left as literal text;
// the scan continues past it.
func findFencedBlock(text string) (fencedBlock, bool) {
	offset := 0
	for {
		loc := fenceOpenRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			return fencedBlock{}, false
		}

		start := offset + loc[0]
		headerEnd := offset + loc[1]
		if headerEnd >= len(text) {
			// Opening fence on the last line, nothing left to close it.
			return fencedBlock{}, false
		}

		fence := text[offset+loc[2] : offset+loc[3]]
		bodyStart := headerEnd + 1

		closeLoc := closeFenceRe(fence).FindStringIndex(text[bodyStart:])
		if closeLoc == nil {
			offset = bodyStart
			continue
		}

		match := fencedBlock{
			start: start,
			end:   bodyStart + closeLoc[1],
			code:  text[bodyStart : bodyStart+closeLoc[0]],
		}
		if loc[4] >= 0 {
			match.lang = text[offset+loc[4] : offset+loc[5]]
		}
		if loc[6] >= 0 {
			match.hlLines = text[offset+loc[6] : offset+loc[7]]
		} else if loc[8] >= 0 {
			match.hlLines = text[offset+loc[8] : offset+loc[9]]
		}
		return match, true
	}
}

// closeFenceRe matches a full line of the same marker character at equal or
// greater count than the opening fence, trailing blanks allowed.
func closeFenceRe(fence string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?m)^%s{%d,}[ ]*$`, regexp.QuoteMeta(fence[:1]), len(fence)))
}

func parseHlLines(value string) [][2]int {
	var ranges [][2]int
	for _, field := range strings.Fields(value) {
		n, err := strconv.Atoi(field)
		if err != nil || n < 1 {
			continue
		}
		ranges = append(ranges, [2]int{n, n})
	}
	return ranges
}
