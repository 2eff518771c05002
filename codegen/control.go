package codegen

import (
	"github.com/bashc-dev/bashc/syntax"
)

// emitIf lowers an if/elif/elif.../else chain. Alternate is either
// another *IfStatement (an "elif"), a plain []*Statement (an "else"),
// or nil.
func (g *Generator) emitIf(s *syntax.IfStatement) {
	g.e.EmitBlock("if ("+g.conditionExpr(s.Cond)+")", func() {
		g.emitBody(s.Body)
	})
	g.emitElse(s.Alternate)
	g.e.Newline()
}

func (g *Generator) emitElse(alt any) {
	switch x := alt.(type) {
	case nil:
	case *syntax.IfStatement:
		g.e.Emit(" else if (" + g.conditionExpr(x.Cond) + ") {")
		g.e.Newline()
		g.ctx.Indent()
		g.emitBody(x.Body)
		g.ctx.Dedent()
		g.e.Emit("}")
		g.emitElse(x.Alternate)
	case []*syntax.Statement:
		g.e.Emit(" else {")
		g.e.Newline()
		g.ctx.Indent()
		g.emitBody(x)
		g.ctx.Dedent()
		g.e.Emit("}")
	}
}

// emitBody lowers a compound command's statement list, declaring a fresh
// block scope only for constructs that actually isolate one in Bash
// (function bodies and subshells; see emitFunctionDecl/emitSubshell). If,
// loop, and case bodies share the enclosing scope.
func (g *Generator) emitBody(stmts []*syntax.Statement) {
	for _, s := range stmts {
		g.emitStatementOrWait(s)
	}
}

// emitStatementOrWait special-cases a bare "wait" command, which has no
// exec lowering of its own.
func (g *Generator) emitStatementOrWait(s *syntax.Statement) {
	if p, ok := s.Pipeline.(*syntax.Pipeline); ok && len(p.Parts) == 1 {
		if c, ok := p.Parts[0].(*syntax.Command); ok {
			if lit, isLit := c.Name.Lit(); isLit && lit == "wait" {
				g.emitWait(c.Args)
				return
			}
		}
	}
	g.emitStatement(s)
}

// emitFor lowers the word-list "for NAME in WORDS; do ... done" form.
// A bare "for NAME; do" iterates "$@".
func (g *Generator) emitFor(s *syntax.ForStatement) {
	name := identifier(s.Name)
	g.ctx.DeclareVariable(name, declMutable)
	src := "$.args"
	if g.inFunction {
		src = "$args"
	}
	if s.HasIn {
		src = "[" + joinArgWords(g.commandArgsForWords(s.Words)) + "]"
	}
	g.e.EmitBlock("for (const "+name+" of "+src+")", func() {
		g.emitBody(s.Body)
	})
	g.e.Newline()
}

func (g *Generator) commandArgsForWords(words []*syntax.Word) []string {
	var out []string
	for _, w := range words {
		out = append(out, g.renderWordArgs(w)...)
	}
	return out
}

func joinArgWords(args []string) string {
	out := ""
	for i, a := range args {
		if i > 0 {
			out += ", "
		}
		out += a
	}
	return out
}

// emitCStyleFor lowers "for ((init; test; update)); do ... done" directly
// to a host "for" statement.
func (g *Generator) emitCStyleFor(s *syntax.CStyleForStatement) {
	init, test, update := "", "", ""
	if s.Init != nil {
		init = g.renderArith(s.Init)
	}
	if s.Test != nil {
		test = g.renderArith(s.Test) + " !== 0"
	}
	if s.Update != nil {
		update = g.renderArith(s.Update)
	}
	g.e.EmitBlock("for ("+init+"; "+test+"; "+update+")", func() {
		g.emitBody(s.Body)
	})
	g.e.Newline()
}

// emitWhileUntil lowers both "while" and "until" to a host "while" loop,
// negating the condition for "until".
func (g *Generator) emitWhileUntil(cond syntax.CommandNode, body []*syntax.Statement, negate bool) {
	expr := g.conditionExpr(cond)
	if negate {
		expr = "!(" + expr + ")"
	}
	g.e.EmitBlock("while ("+expr+")", func() {
		g.emitBody(body)
	})
	g.e.Newline()
}

// emitCase lowers "case WORD in PATTERN) BODY ;; ... esac" to a sequence
// of pattern-match checks: Bash case patterns are globs,
// so each is translated through the same glob machinery word.go uses for
// parameter-expansion modifiers, tried in order as one if/else-if chain.
// A clause ended by ";&" also runs the next clause's body (one clause
// only; a chain of ";&" does not carry on further). A clause ended by
// ";;&" ends like ";;": later patterns are not tested again.
func (g *Generator) emitCase(s *syntax.CaseStatement) {
	subject := g.ctx.TempVar("case")
	g.e.Line("const " + subject + " = " + g.renderWord(s.Word) + ";")
	for i, clause := range s.Clauses {
		var header string
		if isCaseCatchAll(clause) && i > 0 && i == len(s.Clauses)-1 {
			// the trailing "*)" arm matches anything; it is the else.
			header = "else"
		} else {
			header = "if (" + g.casePatternCond(subject, clause.Patterns) + ")"
			if i > 0 {
				header = "else " + header
			}
		}
		g.e.Emit(header)
		g.e.EmitRaw(" {")
		g.e.Newline()
		g.ctx.Indent()
		g.emitBody(clause.Body)
		if clause.Terminator == syntax.DSEMIAND && i+1 < len(s.Clauses) {
			g.emitBody(s.Clauses[i+1].Body)
		}
		g.ctx.Dedent()
		g.e.Emit("}")
		if i == len(s.Clauses)-1 {
			g.e.Newline()
		}
	}
	g.e.Newline()
}

// isCaseCatchAll reports whether a clause is the bare "*)" wildcard arm.
func isCaseCatchAll(clause *syntax.CaseClause) bool {
	if len(clause.Patterns) != 1 {
		return false
	}
	lit, ok := clause.Patterns[0].Lit()
	return ok && lit == "*"
}

func (g *Generator) casePatternCond(subject string, patterns []*syntax.Word) string {
	cond := ""
	for i, p := range patterns {
		if i > 0 {
			cond += " || "
		}
		cond += "$.globMatch(" + subject + ", " + g.globPatternForWord(p) + ")"
	}
	return cond
}

func (g *Generator) globPatternForWord(w *syntax.Word) string {
	if lit, ok := w.Lit(); ok {
		return g.globPattern(w.At, lit)
	}
	return g.renderWord(w)
}

// emitFunctionDecl lowers a function declaration to an async host
// function, opening a fresh scope for "local" variables. The rest
// parameter stands in for the shell's positional parameters, so "$1"
// and "$@" inside the body read from $args instead of the script-level
// argument list (see paramRef).
func (g *Generator) emitFunctionDecl(s *syntax.FunctionDeclaration) {
	name := identifier(s.Name)
	g.ctx.RegisterFunction(name)
	g.ctx.PushScope("function")
	wasInFunction := g.inFunction
	g.inFunction = true
	g.e.EmitBlock("async function "+name+"(...$args)", func() {
		switch body := s.Body.(type) {
		case *syntax.BraceGroup:
			g.emitBody(body.Body)
		case *syntax.Subshell:
			g.emitBody(body.Body)
		}
	})
	g.inFunction = wasInFunction
	g.ctx.PopScope()
	g.e.Newline()
}

// emitSubshell lowers "( ... )" to an IIFE running in its own scope, since
// a Bash subshell's variable assignments never escape it.
func (g *Generator) emitSubshell(s *syntax.Subshell) {
	g.ctx.PushScope("subshell")
	g.e.Emit("await (async () => {")
	g.e.Newline()
	g.ctx.Indent()
	g.emitBody(s.Body)
	g.ctx.Dedent()
	g.e.Emit("})();")
	g.ctx.PopScope()
	g.e.Newline()
}

// emitBraceGroup lowers "{ ...; }" inline: it shares the enclosing scope,
// so no new Scope is pushed.
func (g *Generator) emitBraceGroup(s *syntax.BraceGroup) {
	g.emitBody(s.Body)
}
