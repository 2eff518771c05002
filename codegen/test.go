package codegen

import (
	"github.com/bashc-dev/bashc/syntax"
)

// renderTest lowers a TestCondition (the body of "[[ ... ]]", and the
// parsed form of a legacy "test"/"[" invocation) to a boolean expression
// against the bashc runtime's filesystem and string-comparison helpers.
func (g *Generator) renderTest(t syntax.TestCondition) string {
	switch x := t.(type) {
	case *syntax.UnaryTest:
		return g.renderUnaryTest(x)
	case *syntax.BinaryTest:
		return g.renderBinaryTest(x)
	case *syntax.LogicalTest:
		return g.renderLogicalTest(x)
	case *syntax.StringTest:
		return g.renderWord(x.Word) + " !== \"\""
	}
	return "false"
}

func (g *Generator) renderUnaryTest(t *syntax.UnaryTest) string {
	arg := g.renderWord(t.Arg)
	switch t.Operator {
	case "-z":
		return arg + " === \"\""
	case "-n":
		return arg + " !== \"\""
	case "-o", "-v":
		return "$.isSet(" + arg + ")"
	case "-R":
		return "$.isNameRef(" + arg + ")"
	}
	if fn, ok := fileTestOps[t.Operator]; ok {
		return "await $.fs." + fn + "(" + arg + ")"
	}
	g.ctx.Warnf(t.At, "unsupported-test-operator", "unary test operator %q has no lowering; emitting false", t.Operator)
	return "false"
}

func (g *Generator) renderBinaryTest(t *syntax.BinaryTest) string {
	x, y := g.renderWord(t.X), g.renderWord(t.Y)
	switch t.Operator {
	case "=", "==":
		return x + " === " + y
	case "!=":
		return x + " !== " + y
	case "<":
		return x + " < " + y
	case ">":
		return x + " > " + y
	case "=~":
		return "$.matches(" + x + ", " + g.regexpArg(t.Y) + ")"
	}
	if op, ok := numericTestOps[t.Operator]; ok {
		return "Number(" + x + ") " + op + " Number(" + y + ")"
	}
	if fn, ok := fileFileTestOps[t.Operator]; ok {
		return "await $.fs." + fn + "(" + x + ", " + y + ")"
	}
	g.ctx.Warnf(t.At, "unsupported-test-operator", "binary test operator %q has no lowering; emitting false", t.Operator)
	return "false"
}

// regexpArg renders the right-hand operand of "=~". Bash's "=~" already
// takes a native extended-regular-expression pattern rather than a
// glob, so an unquoted literal passes through untranslated.
func (g *Generator) regexpArg(w *syntax.Word) string {
	if lit, ok := w.Lit(); ok {
		return quoteString(lit)
	}
	return g.renderWord(w)
}

func (g *Generator) renderLogicalTest(t *syntax.LogicalTest) string {
	if t.Op == syntax.BANG {
		return "!(" + g.renderTest(t.X) + ")"
	}
	op := "&&"
	if t.Op == syntax.OR_OR {
		op = "||"
	}
	return "(" + g.renderTest(t.X) + " " + op + " " + g.renderTest(t.Y) + ")"
}
