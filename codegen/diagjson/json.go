// Package diagjson encodes the flat []syntax.Diagnostic list the CLI
// collects from parsing and code generation. It follows the same
// "Type key goes first" convention as syntax/typedjson's AST encoding,
// applied here to a plain struct instead of a reflective node walk,
// since a Diagnostic has no child nodes to recurse into.
package diagjson

import (
	"encoding/json"
	"io"

	"github.com/bashc-dev/bashc/syntax"
)

// Diagnostic is the wire shape of one syntax.Diagnostic. Type is the
// severity name ("error", "warning", "info") and is encoded first so a
// streaming reader can dispatch on it without buffering the rest of the
// object, mirroring typedjson's rationale for leading Type keys.
type Diagnostic struct {
	Type    string `json:"Type"`
	Code    string `json:"Code,omitempty"`
	Message string `json:"Message"`
	Line    int    `json:"Line,omitempty"`
	Col     int    `json:"Col,omitempty"`
	Context string `json:"Context,omitempty"`
}

// Document is the top-level value written to stdout for "bashc transpile
// --json" and "bashc check --json": the diagnostics either command
// produces, plus the compiled output when transpiling (Output is empty
// for "check").
type Document struct {
	Diagnostics []Diagnostic `json:"Diagnostics"`
	Output      string       `json:"Output,omitempty"`
}

func fromSyntax(d syntax.Diagnostic) Diagnostic {
	out := Diagnostic{
		Type:    d.Severity.String(),
		Code:    d.Code,
		Message: d.Message,
		Context: d.Context,
	}
	if d.Pos.IsValid() {
		out.Line = d.Pos.Line
		out.Col = d.Pos.Col
	}
	return out
}

// FromSyntaxList converts a []syntax.Diagnostic into wire form.
func FromSyntaxList(diags []syntax.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, len(diags))
	for i, d := range diags {
		out[i] = fromSyntax(d)
	}
	return out
}

// Encode writes doc to w as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
