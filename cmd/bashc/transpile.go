package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	maybeio "github.com/google/renameio/v2/maybe"
	"golang.org/x/sync/errgroup"

	"github.com/bashc-dev/bashc/codegen"
	"github.com/bashc-dev/bashc/codegen/diagjson"
	"github.com/bashc-dev/bashc/emit"
	"github.com/bashc-dev/bashc/syntax"
)

type transpileOpts struct {
	paths  []string
	out    string
	target string
	posix  bool
	asJSON bool
	indent int
	color  bool
}

type fileResult struct {
	path   string
	output string
	diags  []syntax.Diagnostic
	err    error
}

// runTranspile compiles every resolved input file concurrently, each on
// its own goroutine with its own Parser/Context so compilation stays
// reentrant, joined with golang.org/x/sync/errgroup.
func runTranspile(ctx context.Context, o transpileOpts) int {
	files, err := expandPaths(o.paths)
	if err != nil {
		slog.Error("resolving input paths", "error", err)
		return 1
	}
	if len(files) == 0 {
		slog.Warn("no Bash sources found in the given paths")
		return 1
	}
	if o.out != "" && len(files) > 1 {
		fmt.Fprintln(os.Stderr, "bashc: --output can only be used with a single input file")
		return 1
	}

	results := make([]fileResult, len(files))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			results[i] = compileFile(path, o)
			return nil
		})
	}
	_ = g.Wait()

	status := 0
	for _, r := range results {
		if r.err != nil {
			slog.Error("compiling", "file", r.path, "error", r.err)
			status = 1
			continue
		}
		if hasError(r.diags) {
			status = 1
		}
		if o.asJSON {
			doc := diagjson.Document{Diagnostics: diagjson.FromSyntaxList(r.diags), Output: r.output}
			if err := diagjson.Encode(os.Stdout, doc); err != nil {
				slog.Error("encoding JSON diagnostics", "file", r.path, "error", err)
				status = 1
			}
			continue
		}
		renderDiagnostics(os.Stderr, r.diags, o.color)
		if err := writeOutput(r.path, o, r.output); err != nil {
			slog.Error("writing output", "file", r.path, "error", err)
			status = 1
		}
	}
	return status
}

func compileFile(file string, o transpileOpts) fileResult {
	src, err := os.ReadFile(file)
	if err != nil {
		return fileResult{path: file, err: err}
	}

	var diags []syntax.Diagnostic
	prog := syntax.ParseWithRecovery(src, &diags)

	opts := emit.Options{
		IndentUnit:  strings.Repeat(" ", maxInt(o.indent, 0)),
		Strict:      o.posix,
		EmitImports: true,
		Target:      o.target,
	}
	if opts.IndentUnit == "" {
		opts.IndentUnit = "  "
	}
	out, genDiags := codegen.Generate(prog, opts)
	diags = append(diags, genDiags...)
	return fileResult{path: file, output: out, diags: diags}
}

func writeOutput(file string, o transpileOpts, out string) error {
	if o.asJSON {
		return nil // already written by the JSON branch above
	}
	dest := o.out
	if dest == "" {
		dest = defaultOutputPath(file)
	}
	info, statErr := os.Stat(dest)
	perm := os.FileMode(0o644)
	if statErr == nil {
		perm = info.Mode().Perm()
	}
	return maybeio.WriteFile(dest, []byte(out), perm)
}

// defaultOutputPath swaps a .sh/.bash extension for .mjs; files with no
// recognized shell extension get .mjs appended.
func defaultOutputPath(file string) string {
	ext := filepath.Ext(file)
	switch ext {
	case ".sh", ".bash":
		return strings.TrimSuffix(file, ext) + ".mjs"
	default:
		return file + ".mjs"
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
