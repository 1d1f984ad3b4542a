package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rgonek/wiki-markdown/codehilite"
	"github.com/rgonek/wiki-markdown/pipeline"
)

func main() {
	style := flag.String("style", "default", "Chroma style name")
	cssClass := flag.String("css-class", "codehilite", "CSS class for highlighted code blocks")
	lineNums := flag.Bool("linenums", false, "Render line numbers")
	noClasses := flag.Bool("noclasses", false, "Emit inline styles instead of CSS classes")
	guessLang := flag.Bool("guess-lang", true, "Guess the language of unlabeled code blocks")
	plain := flag.Bool("plain", false, "Disable highlighting, emit escaped code blocks")
	tabLength := flag.Int("tab-length", 4, "Tab stop width")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: wikimd [options] <input-file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputFile := args[0]

	data, err := os.ReadFile(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		os.Exit(1)
	}

	ext, err := codehilite.New(codehilite.Config{
		LineNumbers: *lineNums,
		GuessLang:   *guessLang,
		CSSClass:    *cssClass,
		Style:       *style,
		NoClasses:   *noClasses,
		UsePygments: !*plain,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	p, err := pipeline.New(pipeline.Config{
		TabLength:  *tabLength,
		Extensions: []pipeline.Extension{ext},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid pipeline config: %v\n", err)
		os.Exit(1)
	}

	result, err := p.Convert(string(data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering file: %v\n", err)
		os.Exit(1)
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning [%s] %s: %s\n", warning.Type, warning.Pass, warning.Message)
	}
	fmt.Print(result.HTML)
}
