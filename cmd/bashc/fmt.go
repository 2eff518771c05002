package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	diffpkg "github.com/rogpeppe/go-internal/diff"

	"github.com/bashc-dev/bashc/syntax"
)

// runFmt round-trips each file's AST back through the syntax package's
// printer without involving codegen, a diagnostic-only convenience for
// validating that nothing was silently dropped between the Lexer/Parser
// and the AST. showDiff prints a unified diff against the original
// source instead of the round-tripped text.
func runFmt(ctx context.Context, paths []string, indent int, showDiff bool) int {
	files, err := expandPaths(paths)
	if err != nil {
		slog.Error("resolving input paths", "error", err)
		return 1
	}

	status := 0
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			slog.Error("reading", "file", file, "error", err)
			status = 1
			continue
		}
		prog, err := syntax.Parse(src)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			status = 1
			continue
		}
		var buf bytes.Buffer
		if err := (syntax.PrintConfig{Indent: indent}).Fprint(&buf, prog); err != nil {
			slog.Error("printing", "file", file, "error", err)
			status = 1
			continue
		}
		if showDiff {
			diffBytes := diffpkg.Diff(file+".orig", src, file, buf.Bytes())
			if len(diffBytes) > 0 {
				os.Stdout.Write(diffBytes)
				status = 1
			}
			continue
		}
		os.Stdout.Write(buf.Bytes())
	}
	return status
}
