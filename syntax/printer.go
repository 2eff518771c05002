// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"bufio"
	"io"
	"strings"
)

// PrintConfig controls how Fprint renders a Program back to shell source.
// It backs the "bashc fmt" diagnostic command, which
// round-trips a parsed Program through the syntax package without
// involving codegen, as a way to check that nothing was silently dropped
// between the Lexer/Parser and the AST.
type PrintConfig struct {
	Indent int // 0 (default) for tabs, >0 for that many spaces
}

// Fprint renders prog as shell source using the default PrintConfig.
func Fprint(w io.Writer, prog *Program) error {
	return PrintConfig{}.Fprint(w, prog)
}

// Fprint renders prog as shell source.
func (c PrintConfig) Fprint(w io.Writer, prog *Program) error {
	bw := bufio.NewWriter(w)
	p := &printer{w: bw, cfg: c}
	p.stmts(prog.Stmts)
	return bw.Flush()
}

type printer struct {
	w   *bufio.Writer
	cfg PrintConfig

	level int
}

func (p *printer) indentUnit() string {
	if p.cfg.Indent > 0 {
		return strings.Repeat(" ", p.cfg.Indent)
	}
	return "\t"
}

func (p *printer) writeIndent() {
	for i := 0; i < p.level; i++ {
		p.w.WriteString(p.indentUnit())
	}
}

func (p *printer) stmts(stmts []*Statement) {
	for _, s := range stmts {
		p.writeIndent()
		p.stmt(s)
		p.w.WriteByte('\n')
	}
}

func (p *printer) stmt(s *Statement) {
	p.commandNode(s.Pipeline)
	switch s.Terminator {
	case AMP:
		p.w.WriteString(" &")
	case SEMICOLON:
		// newline already terminates top-level statements; only simple
		// commands inside a one-line body need the explicit semicolon,
		// and callers that need that append it themselves.
	}
}

func (p *printer) commandNode(c CommandNode) {
	switch x := c.(type) {
	case *Pipeline:
		p.pipeline(x)
	case *AndOr:
		opText := " && "
		if x.Op == OR_OR {
			opText = " || "
		}
		for i, part := range x.Parts {
			if i > 0 {
				p.w.WriteString(opText)
			}
			p.commandNode(part)
		}
	case *Command:
		p.command(x)
	case *IfStatement:
		p.ifStatement(x)
	case *ForStatement:
		p.forStatement(x)
	case *CStyleForStatement:
		p.cStyleFor(x)
	case *WhileStatement:
		p.whileUntil("while", x.Cond, x.Body, x.Redirects)
	case *UntilStatement:
		p.whileUntil("until", x.Cond, x.Body, x.Redirects)
	case *CaseStatement:
		p.caseStatement(x)
	case *FunctionDeclaration:
		p.w.WriteString(x.Name)
		p.w.WriteString("() ")
		p.commandNode(x.Body)
	case *Subshell:
		p.w.WriteString("(")
		p.block(x.Body)
		p.w.WriteString(")")
		p.redirects(x.Redirects)
	case *BraceGroup:
		p.w.WriteString("{ ")
		p.inlineStmts(x.Body)
		p.w.WriteString("; }")
		p.redirects(x.Redirects)
	case *TestCommand:
		p.w.WriteString("[[ ")
		p.testCondition(x.Condition)
		p.w.WriteString(" ]]")
		p.redirects(x.Redirects)
	case *ArithmeticCommand:
		p.w.WriteString("((")
		if x.Expr != nil {
			p.w.WriteString(printArith(x.Expr))
		}
		p.w.WriteString("))")
		p.redirects(x.Redirects)
	case nil:
	default:
		p.w.WriteString("<?>")
	}
}

func (p *printer) pipeline(pl *Pipeline) {
	if pl.Negated {
		p.w.WriteString("! ")
	}
	for i, part := range pl.Parts {
		if i > 0 {
			if pl.Ops[i-1] == PIPE_AMP {
				p.w.WriteString(" |& ")
			} else {
				p.w.WriteString(" | ")
			}
		}
		p.commandNode(part)
	}
	if pl.Background {
		p.w.WriteString(" &")
	}
}

func (p *printer) command(c *Command) {
	first := true
	writeSpace := func() {
		if !first {
			p.w.WriteByte(' ')
		}
		first = false
	}
	for _, a := range c.Assigns {
		writeSpace()
		p.w.WriteString(a.Name)
		if a.Index != nil {
			p.w.WriteByte('[')
			p.word(a.Index)
			p.w.WriteByte(']')
		}
		if a.Append {
			p.w.WriteString("+=")
		} else {
			p.w.WriteByte('=')
		}
		if a.Value != nil {
			p.word(a.Value)
		}
	}
	if c.Name != nil {
		writeSpace()
		p.word(c.Name)
	}
	for _, a := range c.Args {
		writeSpace()
		p.word(a)
	}
	p.redirects(c.Redirects)
}

func (p *printer) redirects(rs []*Redirect) {
	for _, r := range rs {
		p.w.WriteByte(' ')
		if r.FDVar != "" {
			p.w.WriteByte('{')
			p.w.WriteString(r.FDVar)
			p.w.WriteByte('}')
		} else if r.FD >= 0 {
			p.w.WriteString(itoa(r.FD))
		}
		p.w.WriteString(redirectOpText(r.Op))
		if r.Op != DLESS && r.Op != DLESSDASH {
			p.word(r.Target)
		} else if r.Hdoc != nil {
			p.word(r.Hdoc)
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		digits[i] = '-'
	}
	return string(digits[i:])
}

func redirectOpText(k TokKind) string {
	switch k {
	case GREAT:
		return ">"
	case DGREAT:
		return ">>"
	case LESS:
		return "<"
	case DLESS:
		return "<<"
	case DLESSDASH:
		return "<<-"
	case LESSGREAT:
		return "<>"
	case CLOBBER:
		return ">|"
	case GREATAND:
		return ">&"
	case LESSAND:
		return "<&"
	case TLESS:
		return "<<<"
	case AND_GREAT:
		return "&>"
	case AND_DGREAT:
		return "&>>"
	default:
		return ">"
	}
}

func (p *printer) block(stmts []*Statement) {
	p.w.WriteByte(' ')
	p.inlineStmts(stmts)
	p.w.WriteByte(' ')
}

// inlineStmts writes a statement list separated by "; " rather than
// newlines, used for constructs the printer keeps on one visual line
// (brace groups, subshells).
func (p *printer) inlineStmts(stmts []*Statement) {
	for i, s := range stmts {
		if i > 0 {
			p.w.WriteString("; ")
		}
		p.stmt(s)
	}
}

func (p *printer) indentedBlock(stmts []*Statement) {
	p.w.WriteByte('\n')
	p.level++
	p.stmts(stmts)
	p.level--
}

func (p *printer) ifStatement(s *IfStatement) {
	p.w.WriteString("if ")
	p.commandNode(s.Cond)
	p.w.WriteString("; then")
	p.indentedBlock(s.Body)
	p.writeIndent()
	switch alt := s.Alternate.(type) {
	case *IfStatement:
		p.w.WriteString("elif ")
		p.commandNode(alt.Cond)
		p.w.WriteString("; then")
		p.indentedBlock(alt.Body)
		p.writeIndent()
		p.tailAlternate(alt.Alternate)
	case []*Statement:
		p.w.WriteString("else")
		p.indentedBlock(alt)
		p.writeIndent()
		p.w.WriteString("fi")
	default:
		p.w.WriteString("fi")
	}
	p.redirects(s.Redirects)
}

func (p *printer) tailAlternate(alt any) {
	switch a := alt.(type) {
	case *IfStatement:
		p.w.WriteString("elif ")
		p.commandNode(a.Cond)
		p.w.WriteString("; then")
		p.indentedBlock(a.Body)
		p.writeIndent()
		p.tailAlternate(a.Alternate)
	case []*Statement:
		p.w.WriteString("else")
		p.indentedBlock(a)
		p.writeIndent()
		p.w.WriteString("fi")
	default:
		p.w.WriteString("fi")
	}
}

func (p *printer) forStatement(s *ForStatement) {
	p.w.WriteString("for ")
	p.w.WriteString(s.Name)
	if s.HasIn {
		p.w.WriteString(" in")
		for _, w := range s.Words {
			p.w.WriteByte(' ')
			p.word(w)
		}
	}
	p.w.WriteString("; do")
	p.indentedBlock(s.Body)
	p.writeIndent()
	p.w.WriteString("done")
	p.redirects(s.Redirects)
}

func (p *printer) cStyleFor(s *CStyleForStatement) {
	p.w.WriteString("for ((")
	if s.Init != nil {
		p.w.WriteString(printArith(s.Init))
	}
	p.w.WriteString("; ")
	if s.Test != nil {
		p.w.WriteString(printArith(s.Test))
	}
	p.w.WriteString("; ")
	if s.Update != nil {
		p.w.WriteString(printArith(s.Update))
	}
	p.w.WriteString(")); do")
	p.indentedBlock(s.Body)
	p.writeIndent()
	p.w.WriteString("done")
	p.redirects(s.Redirects)
}

func (p *printer) whileUntil(kw string, cond CommandNode, body []*Statement, redirs []*Redirect) {
	p.w.WriteString(kw)
	p.w.WriteByte(' ')
	p.commandNode(cond)
	p.w.WriteString("; do")
	p.indentedBlock(body)
	p.writeIndent()
	p.w.WriteString("done")
	p.redirects(redirs)
}

func (p *printer) caseStatement(s *CaseStatement) {
	p.w.WriteString("case ")
	p.word(s.Word)
	p.w.WriteString(" in\n")
	p.level++
	for _, cl := range s.Clauses {
		p.writeIndent()
		for i, pat := range cl.Patterns {
			if i > 0 {
				p.w.WriteString(" | ")
			}
			p.word(pat)
		}
		p.w.WriteString(")\n")
		p.level++
		p.stmts(cl.Body)
		p.level--
		p.writeIndent()
		switch cl.Terminator {
		case DSEMIAND:
			p.w.WriteString(";&\n")
		case DSEMIORAND:
			p.w.WriteString(";;&\n")
		default:
			p.w.WriteString(";;\n")
		}
	}
	p.level--
	p.writeIndent()
	p.w.WriteString("esac")
	p.redirects(s.Redirects)
}

func (p *printer) testCondition(t TestCondition) {
	switch x := t.(type) {
	case *UnaryTest:
		p.w.WriteString(x.Operator)
		p.w.WriteByte(' ')
		p.word(x.Arg)
	case *BinaryTest:
		p.word(x.X)
		p.w.WriteByte(' ')
		p.w.WriteString(x.Operator)
		p.w.WriteByte(' ')
		p.word(x.Y)
	case *LogicalTest:
		if x.Op == BANG {
			p.w.WriteString("! ")
			p.testCondition(x.X)
			return
		}
		p.testCondition(x.X)
		if x.Op == AND_AND {
			p.w.WriteString(" && ")
		} else {
			p.w.WriteString(" || ")
		}
		p.testCondition(x.Y)
	case *StringTest:
		p.word(x.Word)
	}
}

func (p *printer) word(w *Word) {
	if w == nil {
		return
	}
	p.w.WriteString(w.Raw)
}

// printArith renders an arithmetic expression back to its source form.
// Since ArithExpr nodes don't retain original spacing, this always emits
// a canonical, fully-parenthesization-free rendering.
func printArith(e ArithExpr) string {
	switch x := e.(type) {
	case *NumberLiteral:
		return x.Value
	case *VariableReference:
		return x.Name
	case *BinaryArithmetic:
		return printArith(x.X) + " " + x.Operator + " " + printArith(x.Y)
	case *UnaryArithmetic:
		if x.Postfix {
			return printArith(x.X) + x.Operator
		}
		return x.Operator + printArith(x.X)
	case *ConditionalArithmetic:
		return printArith(x.Cond) + " ? " + printArith(x.Then) + " : " + printArith(x.Else)
	case *AssignmentExpression:
		return x.Name + " " + x.Operator + " " + printArith(x.Value)
	case *GroupedArithmetic:
		return "(" + printArith(x.Expr) + ")"
	default:
		return ""
	}
}
