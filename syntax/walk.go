// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "fmt"

// Visitor holds a Visit method which is invoked for each node
// encountered by Walk. If the result visitor w is not nil, Walk visits
// each of the children of node with the visitor w, followed by a call
// of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

func walkStmts(v Visitor, stmts []*Statement) {
	for _, s := range stmts {
		Walk(v, s)
	}
}

func walkWords(v Visitor, words []*Word) {
	for _, w := range words {
		if w != nil {
			Walk(v, w)
		}
	}
}

func walkRedirects(v Visitor, rs []*Redirect) {
	for _, r := range rs {
		Walk(v, r)
	}
}

// Walk traverses an AST in depth-first order: it starts by calling
// v.Visit(node); node must not be nil. If the visitor w returned by
// v.Visit(node) is not nil, Walk is invoked recursively with visitor w
// for each of the non-nil children of node, followed by a call of
// w.Visit(nil).
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch x := node.(type) {
	case *Program:
		walkStmts(v, x.Stmts)
	case *Statement:
		if x.Pipeline != nil {
			Walk(v, x.Pipeline)
		}
	case *Pipeline:
		for _, c := range x.Parts {
			Walk(v, c)
		}
	case *AndOr:
		for _, part := range x.Parts {
			Walk(v, part)
		}
	case *Command:
		if x.Name != nil {
			Walk(v, x.Name)
		}
		walkWords(v, x.Args)
		for _, a := range x.Assigns {
			Walk(v, a)
		}
		walkRedirects(v, x.Redirects)
	case *VariableAssignment:
		if x.Value != nil {
			Walk(v, x.Value)
		}
		if x.Index != nil {
			Walk(v, x.Index)
		}
	case *Redirect:
		if x.Target != nil {
			Walk(v, x.Target)
		}
		if x.Hdoc != nil {
			Walk(v, x.Hdoc)
		}
	case *IfStatement:
		Walk(v, x.Cond)
		walkStmts(v, x.Body)
		switch alt := x.Alternate.(type) {
		case *IfStatement:
			Walk(v, alt)
		case []*Statement:
			walkStmts(v, alt)
		}
		walkRedirects(v, x.Redirects)
	case *ForStatement:
		walkWords(v, x.Words)
		walkStmts(v, x.Body)
		walkRedirects(v, x.Redirects)
	case *CStyleForStatement:
		if x.Init != nil {
			Walk(v, x.Init)
		}
		if x.Test != nil {
			Walk(v, x.Test)
		}
		if x.Update != nil {
			Walk(v, x.Update)
		}
		walkStmts(v, x.Body)
		walkRedirects(v, x.Redirects)
	case *WhileStatement:
		Walk(v, x.Cond)
		walkStmts(v, x.Body)
		walkRedirects(v, x.Redirects)
	case *UntilStatement:
		Walk(v, x.Cond)
		walkStmts(v, x.Body)
		walkRedirects(v, x.Redirects)
	case *CaseStatement:
		Walk(v, x.Word)
		for _, cl := range x.Clauses {
			walkWords(v, cl.Patterns)
			walkStmts(v, cl.Body)
		}
		walkRedirects(v, x.Redirects)
	case *FunctionDeclaration:
		Walk(v, x.Body)
	case *Subshell:
		walkStmts(v, x.Body)
		walkRedirects(v, x.Redirects)
	case *BraceGroup:
		walkStmts(v, x.Body)
		walkRedirects(v, x.Redirects)
	case *TestCommand:
		Walk(v, x.Condition)
		walkRedirects(v, x.Redirects)
	case *ArithmeticCommand:
		if x.Expr != nil {
			Walk(v, x.Expr)
		}
		walkRedirects(v, x.Redirects)
	case *UnaryTest:
		if x.Arg != nil {
			Walk(v, x.Arg)
		}
	case *BinaryTest:
		Walk(v, x.X)
		Walk(v, x.Y)
	case *LogicalTest:
		Walk(v, x.X)
		if x.Y != nil {
			Walk(v, x.Y)
		}
	case *StringTest:
		Walk(v, x.Word)
	case *Word:
		for _, wp := range x.Parts {
			Walk(v, wp)
		}
	case *LiteralPart:
	case *ParameterExpansion:
		if x.Subscript != nil {
			Walk(v, x.Subscript)
		}
		if x.ModifierArg != nil {
			Walk(v, x.ModifierArg)
		}
	case *CommandSubstitution:
		if x.Prog != nil {
			Walk(v, x.Prog)
		}
	case *ArithmeticExpansion:
		if x.Expr != nil {
			Walk(v, x.Expr)
		}
	case *ProcessSubstitution:
		if x.Prog != nil {
			Walk(v, x.Prog)
		}
	case *NumberLiteral:
	case *VariableReference:
	case *BinaryArithmetic:
		Walk(v, x.X)
		Walk(v, x.Y)
	case *UnaryArithmetic:
		Walk(v, x.X)
	case *ConditionalArithmetic:
		Walk(v, x.Cond)
		Walk(v, x.Then)
		Walk(v, x.Else)
	case *AssignmentExpression:
		Walk(v, x.Value)
	case *GroupedArithmetic:
		Walk(v, x.Expr)
	case *Comment:
	default:
		panic(fmt.Sprintf("syntax.Walk: unexpected node type %T", x))
	}

	v.Visit(nil)
}
