package codegen

import (
	"github.com/bashc-dev/bashc/syntax"
)

// renderArith lowers an ArithExpr to a host-language expression. Bash arithmetic is integer-only but its operators map
// directly onto the host language's infix operators, "**" included.
func (g *Generator) renderArith(e syntax.ArithExpr) string {
	switch x := e.(type) {
	case *syntax.NumberLiteral:
		return x.Value
	case *syntax.VariableReference:
		g.ensureArithDeclared(x.Name)
		return "Number(" + identifier(x.Name) + " ?? 0)"
	case *syntax.BinaryArithmetic:
		if x.Operator == "**" {
			return "(" + g.renderArith(x.X) + " ** " + g.renderArith(x.Y) + ")"
		}
		return "(" + g.renderArith(x.X) + " " + x.Operator + " " + g.renderArith(x.Y) + ")"
	case *syntax.UnaryArithmetic:
		if x.Postfix {
			return "(" + g.renderArithLValue(x.X) + x.Operator + ")"
		}
		if x.Operator == "++" || x.Operator == "--" {
			return "(" + x.Operator + g.renderArithLValue(x.X) + ")"
		}
		return "(" + x.Operator + g.renderArith(x.X) + ")"
	case *syntax.ConditionalArithmetic:
		return "(" + g.renderArith(x.Cond) + " ? " + g.renderArith(x.Then) + " : " + g.renderArith(x.Else) + ")"
	case *syntax.AssignmentExpression:
		g.ensureArithDeclared(x.Name)
		return "(" + identifier(x.Name) + " " + x.Operator + " " + g.renderArith(x.Value) + ")"
	case *syntax.GroupedArithmetic:
		return "(" + g.renderArith(x.Expr) + ")"
	}
	return "0"
}

// renderArithLValue renders an expression known to be assignable (the
// operand of "++"/"--"), skipping the Number(...) coercion a read-only
// reference gets.
func (g *Generator) renderArithLValue(e syntax.ArithExpr) string {
	if v, ok := e.(*syntax.VariableReference); ok {
		g.ensureArithDeclared(v.Name)
		return identifier(v.Name)
	}
	return g.renderArith(e)
}

// renderArithStatement lowers a standalone "(( expr ))" to a statement,
// used by ArithmeticCommand.
func (g *Generator) renderArithStatement(e syntax.ArithExpr) string {
	return g.renderArith(e) + ";"
}

// ensureArithDeclared emits a "let NAME = 0;" declaration the first time
// name is read or written in an arithmetic context within the current
// scope, mirroring Bash's own rule that an arithmetic variable which was
// never assigned reads as zero. Emitting the zero initializer here (rather
// than leaving it undefined) keeps compound-assignment forms like
// "((x+=1))" correct for a variable that starts out unset; the emitter's
// "build the full expression string, then Emit/Line it once" discipline
// means e's line buffer is always flushed at this point, so emitting a
// declaration line as this side effect never corrupts a partially-built
// line.
func (g *Generator) ensureArithDeclared(name string) {
	if g.ctx.IsDeclared(identifier(name)) {
		return
	}
	g.ctx.DeclareVariable(identifier(name), declMutable)
	g.e.Line("let " + identifier(name) + " = 0;")
}
