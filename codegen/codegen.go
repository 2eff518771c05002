// Package codegen implements the Transpiler/Code generator (CG): it walks
// a parsed *syntax.Program and lowers it to host-language source text,
// selecting a command-emission strategy for each command and threading
// an emit.Context/emit.Emitter through the traversal.
package codegen

import (
	"github.com/bashc-dev/bashc/emit"
	"github.com/bashc-dev/bashc/syntax"
)

// Generator holds the per-compilation state the traversal shares: the
// emit.Context (scoping, temp vars, diagnostics) and the current
// emit.Emitter (swapped temporarily by nested capture/relay rendering).
type Generator struct {
	ctx *emit.Context
	e   *emit.Emitter

	// liveTasks names every background-task handle spawned since the last
	// bare "wait".
	liveTasks []string

	// inFunction is set while emitting a function body, where positional
	// parameters resolve against the function's own $args rest parameter
	// rather than the script-level argument list.
	inFunction bool
}

// Generate lowers prog to host-language source text. opts.EmitImports
// controls whether the returned string carries the runtime import
// preamble; opts.Target names the runtime module specifier.
func Generate(prog *syntax.Program, opts emit.Options) (string, []syntax.Diagnostic) {
	var diags []syntax.Diagnostic
	ctx := emit.NewContext(opts, &diags)
	e := emit.NewEmitter(ctx)
	e.SetDefaultImport("$")

	g := &Generator{ctx: ctx, e: e}
	g.collectFunctionNames(prog)

	fnStmts, mainStmts := partitionFunctionDecls(prog.Stmts)
	for _, s := range fnStmts {
		g.emitStatement(s)
	}

	if len(mainStmts) > 0 {
		g.e.Emit("await (async () => {")
		g.e.Newline()
		g.ctx.Indent()
		for _, s := range mainStmts {
			g.emitStatementOrWait(s)
		}
		g.ctx.Dedent()
		g.e.Line("})();")
	}

	return g.e.Stringify(), g.ctx.Diagnostics()
}

// partitionFunctionDecls separates top-level function declarations (which
// become real host function declarations, hoisted ahead of the entry
// point) from the statements the entry point's IIFE runs in order.
func partitionFunctionDecls(stmts []*syntax.Statement) (fnStmts, mainStmts []*syntax.Statement) {
	for _, s := range stmts {
		if p, ok := s.Pipeline.(*syntax.Pipeline); ok && len(p.Parts) == 1 {
			if _, isFn := p.Parts[0].(*syntax.FunctionDeclaration); isFn {
				fnStmts = append(fnStmts, s)
				continue
			}
		}
		mainStmts = append(mainStmts, s)
	}
	return fnStmts, mainStmts
}

// collectFunctionNames pre-registers every function declaration so that a
// forward call (a function invoking one declared later in the script, or
// a recursive call) is still recognized as the user-function-call
// strategy rather than falling through to a generic exec.
func (g *Generator) collectFunctionNames(prog *syntax.Program) {
	syntax.Walk(fnCollector{g}, prog)
}

type fnCollector struct{ g *Generator }

func (f fnCollector) Visit(node syntax.Node) syntax.Visitor {
	if fd, ok := node.(*syntax.FunctionDeclaration); ok {
		f.g.ctx.RegisterFunction(identifier(fd.Name))
	}
	return f
}

// generateCapturedProgram renders prog's statements as a snippet of
// statement text, for embedding inside a command-substitution or
// process-substitution capture closure. It keeps using the Generator's
// own Context, so declared-variable tracking, temp-variable numbering,
// and diagnostics all stay continuous with the enclosing program -- only
// the Emitter swaps to a fresh scratch one, since the snippet's own
// indentation starts over at zero once it's embedded inside the
// surrounding "async () => { ... }" closure rather than continuing the
// outer line buffer.
func (g *Generator) generateCapturedProgram(prog *syntax.Program) string {
	save := g.e
	g.e = newScratchEmitter(g.ctx)
	for _, s := range prog.Stmts {
		g.emitStatementOrWait(s)
	}
	out := g.e.Stringify()
	g.e = save
	return out
}

// newScratchEmitter builds an Emitter for rendering a snippet that will be
// embedded inside a larger expression: it shares ctx's indent unit but
// never emits an import preamble of its own.
func newScratchEmitter(ctx *emit.Context) *emit.Emitter {
	scratch := emit.NewContext(emit.Options{IndentUnit: ctx.Opts.IndentUnit}, nil)
	return emit.NewEmitter(scratch)
}
