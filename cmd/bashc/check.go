package main

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/bashc-dev/bashc/codegen/diagjson"
	"github.com/bashc-dev/bashc/syntax"
)

// runCheck parses every resolved file with recovery and reports
// diagnostics without compiling or writing anything, exiting non-zero
// if any file carries an error-severity diagnostic or failed to read.
func runCheck(ctx context.Context, paths []string, asJSON, useColor bool) int {
	files, err := expandPaths(paths)
	if err != nil {
		slog.Error("resolving input paths", "error", err)
		return 1
	}

	type outcome struct {
		path  string
		diags []syntax.Diagnostic
		err   error
	}
	results := make([]outcome, len(files))
	g, _ := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			src, err := os.ReadFile(file)
			if err != nil {
				results[i] = outcome{path: file, err: err}
				return nil
			}
			var diags []syntax.Diagnostic
			syntax.ParseWithRecovery(src, &diags)
			results[i] = outcome{path: file, diags: diags}
			return nil
		})
	}
	_ = g.Wait()

	status := 0
	for _, r := range results {
		if r.err != nil {
			slog.Error("reading", "file", r.path, "error", r.err)
			status = 1
			continue
		}
		if hasError(r.diags) {
			status = 1
		}
		if asJSON {
			diagjson.Encode(os.Stdout, diagjson.Document{Diagnostics: diagjson.FromSyntaxList(r.diags)})
			continue
		}
		renderDiagnostics(os.Stderr, r.diags, useColor)
	}
	return status
}
