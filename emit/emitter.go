package emit

import (
	"sort"
	"strings"
)

// Emitter is an output line buffer with indentation applied on Emit, plus
// import collection and block helpers. It is deliberately
// line-oriented rather than token-oriented: the code generator composes
// whole statements as strings (command.go, control.go, ...) and Emitter's
// job is only to place them at the right indent and collect the preamble.
type Emitter struct {
	ctx *Context

	lines []string
	cur   strings.Builder

	// imports maps a module specifier to the set of names imported from
	// it, preserving first-seen order for determinism.
	imports     map[string][]string
	importSeen  map[string]map[string]bool
	importOrder []string

	defaultImport string
}

// NewEmitter creates an Emitter bound to ctx for indentation.
func NewEmitter(ctx *Context) *Emitter {
	return &Emitter{
		ctx:        ctx,
		imports:    make(map[string][]string),
		importSeen: make(map[string]map[string]bool),
	}
}

// Emit appends text to the current line, applying indentation only if the
// line is currently empty (so multiple Emit calls build up one logical
// line before Newline flushes it).
func (e *Emitter) Emit(text string) {
	if e.cur.Len() == 0 {
		e.cur.WriteString(strings.Repeat(e.ctx.Opts.IndentUnit, e.ctx.Level()))
	}
	e.cur.WriteString(text)
}

// EmitRaw appends text with no indentation applied, for continuing a line
// started by a previous Emit/EmitRaw call.
func (e *Emitter) EmitRaw(text string) {
	e.cur.WriteString(text)
}

// Newline flushes the current line into the buffer and starts a new one.
func (e *Emitter) Newline() {
	e.lines = append(e.lines, e.cur.String())
	e.cur.Reset()
}

// Line is a convenience for Emit(text) followed by Newline.
func (e *Emitter) Line(text string) {
	e.Emit(text)
	e.Newline()
}

// EmitBlock writes header, then "{\n", indents, runs body, dedents, and
// writes the closing "}". header must not
// itself include the trailing " {".
func (e *Emitter) EmitBlock(header string, body func()) {
	e.Emit(header)
	e.EmitRaw(" {")
	e.Newline()
	e.ctx.Indent()
	body()
	e.ctx.Dedent()
	e.Emit("}")
}

// AddImport records that name (empty for a bare side-effecting import) is
// imported from module. Calls for the same module merge into one grouped
// import at Stringify time.
func (e *Emitter) AddImport(module, name string) {
	if _, ok := e.importSeen[module]; !ok {
		e.importSeen[module] = make(map[string]bool)
		e.importOrder = append(e.importOrder, module)
	}
	if name == "" {
		return
	}
	if e.importSeen[module][name] {
		return
	}
	e.importSeen[module][name] = true
	e.imports[module] = append(e.imports[module], name)
}

// SetDefaultImport records the single default-imported binding used for
// the runtime module (e.g. `import $ from "./runtime"`).
func (e *Emitter) SetDefaultImport(name string) {
	e.defaultImport = name
	e.AddImport(e.ctx.Opts.Target, "")
}

// Stringify renders the accumulated body, prefixed by the merged import
// preamble unless EmitImports is false.
func (e *Emitter) Stringify() string {
	var out strings.Builder
	if e.ctx.Opts.EmitImports {
		e.writePreamble(&out)
	}
	for _, l := range e.lines {
		out.WriteString(l)
		out.WriteByte('\n')
	}
	if e.cur.Len() > 0 {
		out.WriteString(e.cur.String())
		out.WriteByte('\n')
	}
	return out.String()
}

func (e *Emitter) writePreamble(out *strings.Builder) {
	modules := append([]string(nil), e.importOrder...)
	sort.SliceStable(modules, func(i, j int) bool {
		// the runtime module always sorts first, matching how a
		// generated program's preamble reads: "$" before any helper.
		if modules[i] == e.ctx.Opts.Target {
			return true
		}
		if modules[j] == e.ctx.Opts.Target {
			return false
		}
		return false
	})
	for _, m := range modules {
		names := e.imports[m]
		switch {
		case m == e.ctx.Opts.Target && e.defaultImport != "":
			if len(names) == 0 {
				out.WriteString("import " + e.defaultImport + " from \"" + m + "\";\n")
			} else {
				out.WriteString("import " + e.defaultImport + ", { " + strings.Join(names, ", ") + " } from \"" + m + "\";\n")
			}
		case len(names) == 0:
			out.WriteString("import \"" + m + "\";\n")
		default:
			out.WriteString("import { " + strings.Join(names, ", ") + " } from \"" + m + "\";\n")
		}
	}
	if len(modules) > 0 {
		out.WriteByte('\n')
	}
}
