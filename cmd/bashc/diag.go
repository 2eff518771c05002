package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/bashc-dev/bashc/syntax"
)

// renderDiagnostics prints each Diagnostic as
// "severity[:code] at L:C in <context>: message", coloring
// the severity token when useColor is set: red for error, yellow for
// warning, cyan for info.
func renderDiagnostics(w io.Writer, diags []syntax.Diagnostic, useColor bool) {
	for _, d := range diags {
		fmt.Fprintln(w, formatDiagnostic(d, useColor))
	}
}

func formatDiagnostic(d syntax.Diagnostic, useColor bool) string {
	sev := d.Severity.String()
	if d.Code != "" {
		sev += ":" + d.Code
	}
	if useColor {
		sev = severityColor(d.Severity).Sprint(sev)
	}
	loc := "at -"
	if d.Pos.IsValid() {
		loc = "at " + d.Pos.String()
	}
	if d.Context != "" {
		loc += " in " + d.Context
	}
	return fmt.Sprintf("%s %s: %s", sev, loc, d.Message)
}

func severityColor(s syntax.Severity) *color.Color {
	switch s {
	case syntax.SeverityError:
		return color.New(color.FgRed)
	case syntax.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgCyan)
	}
}

// hasError reports whether diags contains at least one error-severity
// entry, the signal "bashc check" uses for its exit status.
func hasError(diags []syntax.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == syntax.SeverityError {
			return true
		}
	}
	return false
}

// textHandler is a minimal slog.Handler for bashc's own operational
// logs (driver start/stop, file I/O errors) -- never for compiler
// diagnostics, which use renderDiagnostics instead. It writes a single
// colored level token followed by the message and its attrs.
type textHandler struct {
	w     io.Writer
	level slog.Level
	color bool
	attrs []slog.Attr
}

func newTextHandler(w io.Writer, level slog.Level, useColor bool) *textHandler {
	return &textHandler{w: w, level: level, color: useColor}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, rec slog.Record) error {
	color.NoColor = !h.color
	var buf bytes.Buffer

	c := color.New()
	switch rec.Level {
	case slog.LevelDebug:
		c = color.New(color.FgCyan)
	case slog.LevelInfo:
		c = color.New(color.FgBlue)
	case slog.LevelWarn:
		c = color.New(color.FgYellow)
	case slog.LevelError:
		c = color.New(color.FgRed)
	}
	fmt.Fprintf(&buf, "%s ", rec.Time.Format(time.RFC3339))
	buf.WriteString(c.Sprint(rec.Level.String()))
	fmt.Fprintf(&buf, " %s", rec.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value)
	}
	rec.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&buf, " %s=%v", a.Key, a.Value)
		return true
	})
	buf.WriteByte('\n')

	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

func (h *textHandler) WithGroup(string) slog.Handler { return h }
