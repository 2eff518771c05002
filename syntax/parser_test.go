// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	qt "github.com/frankban/quicktest"
)

func mustParse(c *qt.C, src string) *Program {
	prog, err := Parse([]byte(src))
	c.Assert(err, qt.IsNil, qt.Commentf("src=%q", src))
	return prog
}

func TestParseEmptyInput(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "")
	c.Assert(prog.Stmts, qt.HasLen, 0)

	prog = mustParse(c, "   \n\n  # just a comment\n\n")
	c.Assert(prog.Stmts, qt.HasLen, 0)
}

// Pipeline flattening: "a | b | c" becomes one Pipeline with three parts.
func TestParsePipelineFlattening(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "a | b | c\n")
	c.Assert(prog.Stmts, qt.HasLen, 1)
	pipe, ok := prog.Stmts[0].Pipeline.(*Pipeline)
	c.Assert(ok, qt.IsTrue)
	c.Assert(pipe.Parts, qt.HasLen, 3)
	c.Assert(pipe.Ops, qt.HasLen, 2)
	for _, op := range pipe.Ops {
		c.Assert(op, qt.Equals, PIPE)
	}
}

// "a && b || c" must form a left-leaning AndOr tree, since the operators
// differ.
func TestParseAndOrLeftAssociative(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "a && b || c\n")
	c.Assert(prog.Stmts, qt.HasLen, 1)
	outer, ok := prog.Stmts[0].Pipeline.(*AndOr)
	c.Assert(ok, qt.IsTrue)
	c.Assert(outer.Op, qt.Equals, OR_OR)
	c.Assert(outer.Parts, qt.HasLen, 2)
	inner, ok := outer.Parts[0].(*AndOr)
	c.Assert(ok, qt.IsTrue)
	c.Assert(inner.Op, qt.Equals, AND_AND)
	c.Assert(inner.Parts, qt.HasLen, 2)
}

// A run of the same operator flattens, like "a | b | c" does: "a && b
// && c" is one AndOr with three parts, not a nested pair.
func TestParseAndOrSameOperatorFlattening(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "a && b && c\n")
	ao, ok := prog.Stmts[0].Pipeline.(*AndOr)
	c.Assert(ok, qt.IsTrue)
	c.Assert(ao.Op, qt.Equals, AND_AND)
	c.Assert(ao.Parts, qt.HasLen, 3)
}

func TestParsePureAssignment(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "FOO=bar\n")
	pipe := prog.Stmts[0].Pipeline.(*Pipeline)
	cmd := pipe.Parts[0].(*Command)
	c.Assert(cmd.PureAssignment(), qt.IsTrue)
	c.Assert(cmd.Assigns, qt.HasLen, 1)
	c.Assert(cmd.Assigns[0].Name, qt.Equals, "FOO")
}

func TestParsePureAssignmentWithQuotedValue(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, `FOO="$BAR:baz"` + "\n")
	pipe := prog.Stmts[0].Pipeline.(*Pipeline)
	cmd := pipe.Parts[0].(*Command)
	c.Assert(cmd.PureAssignment(), qt.IsTrue)
	c.Assert(cmd.Assigns, qt.HasLen, 1)
	c.Assert(cmd.Assigns[0].Name, qt.Equals, "FOO")
	c.Assert(len(cmd.Assigns[0].Value.Parts) >= 2, qt.IsTrue)
}

func TestParseBackgroundPipeline(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "sleep 1 &\n")
	pipe := prog.Stmts[0].Pipeline.(*Pipeline)
	c.Assert(pipe.Background, qt.IsTrue)
}

func TestParseIfElif(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "if a; then b; elif c; then d; else e; fi\n")
	c.Assert(prog.Stmts, qt.HasLen, 1)
	ifs, ok := prog.Stmts[0].Pipeline.(*IfStatement)
	c.Assert(ok, qt.IsTrue)
	elifNode, ok := ifs.Alternate.(*IfStatement)
	c.Assert(ok, qt.IsTrue)
	elseBody, ok := elifNode.Alternate.([]*Statement)
	c.Assert(ok, qt.IsTrue)
	c.Assert(elseBody, qt.HasLen, 1)
}

func TestParseForWordList(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "for i in a b c; do echo $i; done\n")
	f, ok := prog.Stmts[0].Pipeline.(*ForStatement)
	c.Assert(ok, qt.IsTrue)
	c.Assert(f.Name, qt.Equals, "i")
	c.Assert(f.Words, qt.HasLen, 3)
}

func TestParseCStyleFor(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "for ((i=0; i<3; i++)); do echo $i; done\n")
	f, ok := prog.Stmts[0].Pipeline.(*CStyleForStatement)
	c.Assert(ok, qt.IsTrue)
	c.Assert(f.Init, qt.Not(qt.IsNil))
	c.Assert(f.Test, qt.Not(qt.IsNil))
	c.Assert(f.Update, qt.Not(qt.IsNil))
}

func TestParseCaseStatement(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "case $x in a|b) echo ab ;; *) echo other ;; esac\n")
	cs, ok := prog.Stmts[0].Pipeline.(*CaseStatement)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cs.Clauses, qt.HasLen, 2)
	c.Assert(cs.Clauses[0].Patterns, qt.HasLen, 2)
}

func TestParseFunctionDeclarationBothForms(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "function f { echo a; }\ng() { echo b; }\n")
	c.Assert(prog.Stmts, qt.HasLen, 2)
	f1 := prog.Stmts[0].Pipeline.(*Pipeline).Parts[0].(*FunctionDeclaration)
	c.Assert(f1.Name, qt.Equals, "f")
	f2 := prog.Stmts[1].Pipeline.(*Pipeline).Parts[0].(*FunctionDeclaration)
	c.Assert(f2.Name, qt.Equals, "g")
}

func TestParseBangAsArgument(t *testing.T) {
	c := qt.New(t)
	// "!" inside [ ... ] (legacy test) is an argument, not a pipeline negation.
	prog := mustParse(c, "[ ! -e foo ]\n")
	c.Assert(prog.Stmts, qt.HasLen, 1)
}

func TestParseRedirections(t *testing.T) {
	c := qt.New(t)
	prog := mustParse(c, "echo hi > out.txt 2>&1\n")
	cmd := prog.Stmts[0].Pipeline.(*Pipeline).Parts[0].(*Command)
	c.Assert(cmd.Redirects, qt.HasLen, 2)
	c.Assert(cmd.Redirects[0].Op, qt.Equals, GREAT)
	c.Assert(cmd.Redirects[1].Op, qt.Equals, GREATAND)
	c.Assert(cmd.Redirects[1].FD, qt.Equals, 2)
}

// Recovery mode must always return a usable AST, and the diagnostic count
// is zero exactly when strict parsing would not have thrown.
func TestParseWithRecoveryInvariant(t *testing.T) {
	c := qt.New(t)

	var diags []Diagnostic
	prog := ParseWithRecovery([]byte("echo ok\n"), &diags)
	c.Assert(prog, qt.Not(qt.IsNil))
	c.Assert(diags, qt.HasLen, 0)

	// A malformed statement in the middle: recovery keeps the statements
	// parsed both before and after the error point.
	diags = nil
	prog = ParseWithRecovery([]byte("echo before\n)\necho after\n"), &diags)
	c.Assert(prog, qt.Not(qt.IsNil))
	c.Assert(len(diags) > 0, qt.IsTrue)
	c.Assert(prog.Stmts, qt.HasLen, 2)

	// An error at end of input still keeps everything parsed before it.
	diags = nil
	prog = ParseWithRecovery([]byte("echo before\nif true; then echo a\n"), &diags)
	c.Assert(prog, qt.Not(qt.IsNil))
	c.Assert(len(diags) > 0, qt.IsTrue)
	c.Assert(len(prog.Stmts) > 0, qt.IsTrue)
}

func TestParseStrictModeThrowsOnError(t *testing.T) {
	c := qt.New(t)
	_, err := Parse([]byte("if true; then echo a\n"))
	c.Assert(err, qt.Not(qt.IsNil))
	var pe *ParseError
	c.Assert(err, qt.ErrorAs, &pe)
}

func TestParseDeeplyNestedNoStackOverflow(t *testing.T) {
	c := qt.New(t)
	src := ""
	for i := 0; i < 25; i++ {
		src += "if true; then "
	}
	src += "echo deep"
	for i := 0; i < 25; i++ {
		src += "; fi"
	}
	src += "\n"
	prog := mustParse(c, src)
	c.Assert(prog.Stmts, qt.HasLen, 1)
}

// Parse and ParseWithRecovery share a recursive-descent core and must
// produce byte-for-byte identical ASTs on input that needs no recovery;
// reflect.DeepEqual would report this as a pass/fail with no detail, so
// this uses cmp.Diff to show exactly which subtree would differ if the
// two entry points ever drifted.
func TestParseAndParseWithRecoveryAgreeOnValidInput(t *testing.T) {
	c := qt.New(t)
	scripts := []string{
		"echo hello\n",
		"if true; then echo a; else echo b; fi\n",
		"for i in 1 2 3; do echo $i; done\n",
		"a | b | c\n",
		`export PATH="$PATH:/usr/local/bin"` + "\n",
		"case $x in a) echo a;; *) echo z;; esac\n",
	}
	for _, src := range scripts {
		want, err := Parse([]byte(src))
		c.Assert(err, qt.IsNil, qt.Commentf("src=%q", src))

		var diags []Diagnostic
		got := ParseWithRecovery([]byte(src), &diags)
		c.Assert(diags, qt.HasLen, 0, qt.Commentf("src=%q", src))

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("src=%q: Parse and ParseWithRecovery disagree (-want +got):\n%s", src, diff)
		}
	}
}
