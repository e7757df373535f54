package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"polysum/internal/domain/entity"
	hsummarize "polysum/internal/handler/http/summarize"
)

const usage = `Usage: polysum-summarize [--file PATH | --url URL] [--mode short|medium|long] [--target LANG] [--output text|json]

Reads text from --file, from the article at --url, or from stdin.

Examples:
  polysum-summarize --file article.txt
  cat article.txt | polysum-summarize --mode short --target ja
  polysum-summarize --url https://example.com/post --output json
`

// engine is the subset of the built application the CLI needs.
type engine struct {
	svc     hsummarize.Service
	fetcher hsummarize.Extractor
}

type buildFunc func(ctx context.Context) (*engine, func(), error)

type options struct {
	file    string
	url     string
	mode    string
	target  string
	output  string
	timeout time.Duration
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("polysum-summarize", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	fs.StringVar(&opts.file, "file", "", "Read input text from this file")
	fs.StringVar(&opts.url, "url", "", "Extract and summarize the article at this URL")
	fs.StringVar(&opts.mode, "mode", string(entity.DefaultMode), "Summary length: short, medium or long")
	fs.StringVar(&opts.target, "target", "", "Translate the summary to this language")
	fs.StringVar(&opts.output, "output", "text", "Output format: text or json")
	fs.DurationVar(&opts.timeout, "timeout", 3*time.Minute, "Overall timeout")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.file != "" && opts.url != "" {
		return nil, errors.New("--file and --url are mutually exclusive")
	}
	if opts.output != "text" && opts.output != "json" {
		return nil, fmt.Errorf("invalid output %q (must be 'text' or 'json')", opts.output)
	}
	return opts, nil
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, build buildFunc) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n\n%s", err, usage)
		return 2
	}

	req := hsummarize.SummarizeRequest{Mode: opts.mode, TargetLang: opts.target}
	target, mode, err := req.Params()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	eng, closeEngine, err := build(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer closeEngine()

	text, err := readInput(ctx, opts, stdin, eng)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := eng.svc.RouteAndSummarize(ctx, text, target, mode)
	if err != nil {
		status, msg := hsummarize.Describe(err)
		fmt.Fprintf(stderr, "Error: summarize failed (%d %s): %v\n", status, msg, err)
		return 1
	}

	if opts.output == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(stderr, "Error: failed to encode JSON: %v\n", err)
			return 1
		}
		return 0
	}

	outputText(stdout, result)
	return 0
}

func readInput(ctx context.Context, opts *options, stdin io.Reader, eng *engine) (string, error) {
	switch {
	case opts.url != "":
		if eng.fetcher == nil {
			return "", errors.New("article extraction is not available")
		}
		article, err := eng.fetcher.Extract(ctx, opts.url)
		if err != nil {
			return "", fmt.Errorf("extract article: %w", err)
		}
		if article.Title == "" {
			return article.Text, nil
		}
		return article.Title + "\n\n" + article.Text, nil
	case opts.file != "":
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

func outputText(w io.Writer, res *entity.SummaryResult) {
	route := string(res.DetectedLang)
	if res.Pivoted {
		route += " -> " + string(res.PivotLang)
	}
	if res.Translated {
		route += " -> " + string(res.TargetLang)
	}
	fmt.Fprintf(w, "Route: %s\n\n", route)
	fmt.Fprintln(w, strings.TrimSpace(res.Summary))
}
