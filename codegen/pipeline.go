package codegen

import (
	"strings"

	"github.com/bashc-dev/bashc/syntax"
)

// emitCommandNode dispatches any CommandNode reachable as a Statement's
// Pipeline field, a loop/if body element, or a pipeline stage to its
// statement-level lowering.
func (g *Generator) emitCommandNode(cn syntax.CommandNode) {
	switch x := cn.(type) {
	case *syntax.Command:
		g.emitCommand(x)
	case *syntax.Pipeline:
		g.emitPipeline(x)
	case *syntax.AndOr:
		g.emitAndOr(x)
	case *syntax.IfStatement:
		g.emitIf(x)
	case *syntax.ForStatement:
		g.emitFor(x)
	case *syntax.CStyleForStatement:
		g.emitCStyleFor(x)
	case *syntax.WhileStatement:
		g.emitWhileUntil(x.Cond, x.Body, false)
	case *syntax.UntilStatement:
		g.emitWhileUntil(x.Cond, x.Body, true)
	case *syntax.CaseStatement:
		g.emitCase(x)
	case *syntax.FunctionDeclaration:
		g.emitFunctionDecl(x)
	case *syntax.Subshell:
		g.emitSubshell(x)
	case *syntax.BraceGroup:
		g.emitBraceGroup(x)
	case *syntax.TestCommand:
		g.e.Line(g.renderTest(x.Condition) + ";")
	case *syntax.ArithmeticCommand:
		g.e.Line(g.renderArithStatement(x.Expr))
	}
}

// emitStatement lowers one Statement, including its background ("&")
// marker.
func (g *Generator) emitStatement(s *syntax.Statement) {
	if s.Terminator == syntax.AMP || isBackground(s.Pipeline) {
		g.emitBackground(s.Pipeline)
		return
	}
	g.emitCommandNode(s.Pipeline)
}

func isBackground(cn syntax.CommandNode) bool {
	p, ok := cn.(*syntax.Pipeline)
	return ok && p.Background
}

// emitBackground lowers "cmd &" to a spawned, un-awaited async task bound
// to a temp-variable handle. A later bare "wait" awaits every
// live handle via Promise.all; "wait $!"/"wait %N" fall back with a
// diagnostic since the generated code has no numeric job table.
func (g *Generator) emitBackground(cn syntax.CommandNode) {
	handle := g.ctx.TempVar("task")
	g.e.Emit("const " + handle + " = $.spawn(async () => ")
	g.e.EmitRaw("{")
	g.e.Newline()
	g.ctx.Indent()
	g.emitCommandNode(stripBackground(cn))
	g.ctx.Dedent()
	g.e.Line("});")
	g.liveTasks = append(g.liveTasks, handle)
}

func stripBackground(cn syntax.CommandNode) syntax.CommandNode {
	if p, ok := cn.(*syntax.Pipeline); ok {
		clone := *p
		clone.Background = false
		return &clone
	}
	return cn
}

// emitWait lowers a bare "wait" to a Promise.all over every live
// background-task handle.
func (g *Generator) emitWait(args []*syntax.Word) {
	if len(args) > 0 {
		g.ctx.Warnf(args[0].At, "unsupported-wait-target", "wait on a specific pid/job is not lowered; awaiting all live tasks instead")
	}
	if len(g.liveTasks) == 0 {
		return
	}
	g.e.Line("await Promise.all([" + strings.Join(g.liveTasks, ", ") + "]);")
	g.liveTasks = nil
}

// emitAndOr lowers a &&/|| chain to real if-guarded statements,
// preserving short-circuit evaluation: each later part only runs when
// the running result so far would let Bash continue.
func (g *Generator) emitAndOr(a *syntax.AndOr) {
	ok := g.ctx.TempVar("ok")
	g.e.Line("let " + ok + " = " + g.conditionExpr(a.Parts[0]) + ";")
	for _, part := range a.Parts[1:] {
		guard := ok
		if a.Op == syntax.OR_OR {
			guard = "!" + ok
		}
		part := part
		g.e.EmitBlock("if ("+guard+")", func() {
			g.e.Line(ok + " = " + g.conditionExpr(part) + ";")
		})
		g.e.Newline()
	}
}

// emitPipeline lowers a Pipeline used as a standalone statement. A
// single-stage pipeline is just its command; a multi-stage one picks
// the fluent chain when every non-head stage is a fluent transform,
// falling back to a sequential stdout-to-stdin relay otherwise.
func (g *Generator) emitPipeline(p *syntax.Pipeline) {
	// parseStatement wraps every statement in a Pipeline; a single-stage
	// one is just its command (or compound command), emitted directly
	// rather than through the stage-expression machinery.
	if len(p.Parts) == 1 && !p.Negated {
		if c, ok := p.Parts[0].(*syntax.Command); ok {
			g.emitCommand(c)
		} else {
			g.emitCommandNode(p.Parts[0])
		}
		return
	}
	snap := g.ctx.Snapshot()
	expr := g.pipelineChainOrNil(p)
	if expr != "" {
		if p.Negated {
			g.e.Line("void !(await " + expr + ").ok;")
		} else {
			g.e.Line("await " + expr + ";")
		}
		return
	}
	g.ctx.Restore(snap)
	g.emitSequentialRelay(p)
}

// pipelineChainOrNil attempts the fluent ".pipe(...)" chain form, returning
// "" when any non-head stage can't participate.
func (g *Generator) pipelineChainOrNil(p *syntax.Pipeline) string {
	if len(p.Parts) == 1 {
		return g.stageExpr(p.Parts[0], false)
	}
	head, headKind, ok := g.stageExprKind(p.Parts[0])
	if !ok {
		return ""
	}
	chain := head
	if headKind != "fluent" || !fluentProducers[stageLiteralName(p.Parts[0])] {
		chain += ".stdout().lines()"
	}
	for _, part := range p.Parts[1:] {
		expr, kind, ok := g.stageExprKind(part)
		if !ok || kind != "fluent" {
			return ""
		}
		chain += ".pipe(" + expr + ")"
	}
	return chain
}

// stageExprKind renders one pipeline stage and reports its strategy kind,
// for a *Command stage; compound-command stages (e.g. "while ...; done |
// sort") are captured through the same subshell-style capture used for
// command substitution and always report kind "exec".
func (g *Generator) stageExprKind(cn syntax.CommandNode) (expr string, kind string, ok bool) {
	c, isCmd := cn.(*syntax.Command)
	if !isCmd {
		return g.captureStageExpr(cn), "exec", true
	}
	expr, _, kind = g.commandExecExpr(c, true)
	return expr, kind, true
}

func (g *Generator) stageExpr(cn syntax.CommandNode, inPipeline bool) string {
	if c, ok := cn.(*syntax.Command); ok {
		expr, printing, _ := g.commandExecExpr(c, inPipeline)
		if printing {
			return "(async () => { console.log(await " + expr + "); })()"
		}
		return expr
	}
	return g.captureStageExpr(cn)
}

func (g *Generator) captureStageExpr(cn syntax.CommandNode) string {
	prog := &syntax.Program{Stmts: []*syntax.Statement{{Pipeline: cn}}}
	return "await $.capture(async () => { " + g.generateCapturedProgram(prog) + " })"
}

func stageLiteralName(cn syntax.CommandNode) string {
	if c, ok := cn.(*syntax.Command); ok {
		lit, _ := c.Name.Lit()
		return lit
	}
	return ""
}

// emitSequentialRelay lowers a pipeline whose stages can't compose as a
// fluent chain. Each stage
// runs in turn, feeding the previous stage's captured stdout into the
// next stage's stdin.
func (g *Generator) emitSequentialRelay(p *syntax.Pipeline) string {
	var prevHandle string
	for i, part := range p.Parts {
		handle := g.ctx.TempVar("stage")
		expr := g.stageExpr(part, i > 0)
		if i > 0 {
			expr = withStdin(expr, prevHandle+".stdout")
		}
		g.e.Line("const " + handle + " = await " + expr + ";")
		prevHandle = handle
	}
	if p.Negated {
		g.e.Line("void (!" + prevHandle + ".ok);")
	}
	return prevHandle
}

// withStdin appends a ".stdin(source)" call to an already-built exec
// expression, used to wire a relay stage's input.
func withStdin(expr, source string) string {
	return expr + ".stdin(" + source + ")"
}

// conditionExpr lowers any CommandNode used where Bash wants a truth
// value: an if/while/until condition, or one side of an AndOr. TestCommand and ArithmeticCommand read directly as
// booleans; anything else is evaluated as a command and its exit status
// read via ".ok".
func (g *Generator) conditionExpr(cn syntax.CommandNode) string {
	switch x := cn.(type) {
	case *syntax.TestCommand:
		return g.renderTest(x.Condition)
	case *syntax.ArithmeticCommand:
		return g.renderArith(x.Expr) + " !== 0"
	case *syntax.Pipeline:
		if x.Negated {
			inner := *x
			inner.Negated = false
			return "!(" + g.conditionExpr(&inner) + ")"
		}
		if len(x.Parts) == 1 {
			return g.conditionExpr(x.Parts[0])
		}
		snap := g.ctx.Snapshot()
		if expr := g.pipelineChainOrNil(x); expr != "" {
			return "(await " + expr + ").ok"
		}
		g.ctx.Restore(snap)
		return "(await (async () => { " + g.relayReturningOk(x) + " })())"
	case *syntax.AndOr:
		op := " && "
		if x.Op == syntax.OR_OR {
			op = " || "
		}
		var sides []string
		for _, part := range x.Parts {
			sides = append(sides, g.conditionExpr(part))
		}
		return "(" + strings.Join(sides, op) + ")"
	case *syntax.Command:
		expr, _, _ := g.commandExecExpr(x, false)
		return "(await " + expr + ").ok"
	default:
		return "(await $.capture(async () => { " + g.generateCapturedProgram(&syntax.Program{Stmts: []*syntax.Statement{{Pipeline: cn}}}) + " })).ok"
	}
}

// relayReturningOk builds the body of the IIFE conditionExpr uses for a
// multi-stage pipeline it could not express as a fluent chain, returning
// the final stage's success.
func (g *Generator) relayReturningOk(p *syntax.Pipeline) string {
	var b strings.Builder
	save := g.e
	g.e = newScratchEmitter(g.ctx)
	last := g.emitSequentialRelay(p)
	b.WriteString(g.e.Stringify())
	g.e = save
	b.WriteString("return " + last + ".ok;")
	return b.String()
}
