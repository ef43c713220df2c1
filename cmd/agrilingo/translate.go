package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/ZaguanLabs/agrilingo/processor"
	"github.com/spf13/cobra"
)

type translateOptions struct {
	lang    string
	html    bool
	json    bool
	timeout time.Duration
	output  string
}

func newTranslateCmd(a *app) *cobra.Command {
	var opts translateOptions

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text, or an HTML file with --html",
		Long: `Translate text into a dashboard language.

Without arguments the text (or HTML document) is read from stdin. With --html
the single argument is a file path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			return a.translate(ctx, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.lang, "lang", "l", "", "Target language code (default: persisted selection)")
	f.BoolVar(&opts.html, "html", false, "Treat input as HTML")
	f.BoolVar(&opts.json, "json", false, "Output result as JSON")
	f.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "Give up waiting after this long")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func (a *app) translate(ctx context.Context, args []string, opts translateOptions) error {
	if opts.lang != "" && !agrilingo.IsSupported(opts.lang) {
		return fmt.Errorf("unsupported language %q", opts.lang)
	}

	input, err := a.readInput(args, opts.html)
	if err != nil {
		return err
	}

	rt, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	lang := opts.lang
	if lang == "" {
		lang = rt.svc.Language()
	}

	var out io.Writer = a.stdout
	if opts.output != "" {
		f, err := os.Create(opts.output) // #nosec G304 - CLI tool writes user-specified files
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if opts.html {
		result, err := processor.NewHTMLProcessor().Translate(ctx, rt.svc, input, lang)
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}
		if opts.json {
			return writeJSON(out, result)
		}
		_, err = fmt.Fprint(out, result.Content)
		return err
	}

	text, err := rt.svc.Await(ctx, input, lang)
	if err != nil {
		return fmt.Errorf("translation did not finish: %w", err)
	}
	if opts.json {
		return writeJSON(out, map[string]any{
			"text":        input,
			"lang":        lang,
			"translation": text,
			"translated":  text != input,
		})
	}
	_, err = fmt.Fprintln(out, text)
	return err
}

func (a *app) readInput(args []string, html bool) (string, error) {
	switch {
	case html && len(args) > 1:
		return "", fmt.Errorf("--html takes a single file")
	case html && len(args) == 1:
		data, err := os.ReadFile(args[0]) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(a.stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	input := string(data)
	if !html {
		input = strings.TrimRight(input, "\r\n")
	}
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("nothing to translate")
	}
	return input, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
