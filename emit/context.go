// Package emit holds the Context and Emitter the code generator shares
// across a single compilation: lexical
// scope tracking for declared variables, temp-variable allocation, indent
// state, import collection, and diagnostic accumulation.
package emit

import (
	"fmt"
	"strconv"

	"github.com/bashc-dev/bashc/syntax"
)

// DeclKind classifies how a variable entered a Scope.
type DeclKind int

const (
	DeclMutable   DeclKind = iota // "let x = ..." at first assignment
	DeclLocal                     // a "local"-declared function-scoped variable
	DeclConstant                  // reserved for future use; never emitted by codegen today
)

// Scope tracks the variables declared within one lexical region: a
// function body, a subshell's IIFE, or a for/while/until body shares its
// enclosing scope.
type Scope struct {
	kind    string // "function", "subshell", "block" -- for diagnostics only
	decls   map[string]DeclKind
}

func newScope(kind string) *Scope {
	return &Scope{kind: kind, decls: make(map[string]DeclKind)}
}

// Options configures a compilation.
type Options struct {
	// IndentUnit is the string used for one level of indentation, e.g.
	// "  " or "\t". Defaults to two spaces when empty.
	IndentUnit string
	// Strict records the CLI's --posix setting. No part of code
	// generation reads it: output and diagnostics are the same either way.
	Strict bool
	// EmitImports controls whether Stringify includes the import
	// preamble; false is used by tests that only want the body.
	EmitImports bool
	// Target names the runtime module specifier the preamble imports
	// from, e.g. "bashc-runtime". Defaults to "./runtime" when empty.
	Target string
}

// Context is the per-compilation state the code generator threads through
// every visit: declared-variable scoping, temp-variable naming, indent
// level, and the diagnostics list.
type Context struct {
	Opts Options

	scopes []*Scope

	tempCounters map[string]int

	level int

	diags *[]syntax.Diagnostic

	// fnNames holds every FunctionDeclaration name seen during the
	// pre-pass (codegen.collectFunctionNames), used by command strategy
	// selection to recognize "user-function-call".
	fnNames map[string]bool
}

// NewContext creates a Context ready for one compilation. diags accumulates
// every Diagnostic the generator produces into a slice the caller owns; a
// nil diags is accepted and the diagnostics are then dropped.
func NewContext(opts Options, diags *[]syntax.Diagnostic) *Context {
	if opts.IndentUnit == "" {
		opts.IndentUnit = "  "
	}
	if opts.Target == "" {
		opts.Target = "./runtime"
	}
	c := &Context{
		Opts:         opts,
		tempCounters: make(map[string]int),
		diags:        diags,
		fnNames:      make(map[string]bool),
	}
	c.PushScope("module")
	return c
}

// PushScope opens a new lexical scope of the given kind.
func (c *Context) PushScope(kind string) {
	c.scopes = append(c.scopes, newScope(kind))
}

// PopScope closes the innermost scope.
func (c *Context) PopScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Context) top() *Scope {
	return c.scopes[len(c.scopes)-1]
}

// DeclareVariable records name as declared with kind in the current scope.
func (c *Context) DeclareVariable(name string, kind DeclKind) {
	c.top().decls[name] = kind
}

// IsDeclared reports whether name was declared in the current scope or any
// enclosing one (function/subshell boundaries still see outer names, since
// Bash variables are dynamically scoped across them unless shadowed by a
// "local").
func (c *Context) IsDeclared(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i].decls[name]; ok {
			return true
		}
	}
	return false
}

// IsDeclaredInCurrentScope reports whether name was declared in exactly
// the innermost scope, the distinction command.go's variable-assignment
// strategy needs to decide "let" vs. plain reassignment.
func (c *Context) IsDeclaredInCurrentScope(name string) bool {
	_, ok := c.top().decls[name]
	return ok
}

// RegisterFunction records name as a declared function, consulted by the
// user-function-call strategy.
func (c *Context) RegisterFunction(name string) {
	c.fnNames[name] = true
}

// IsFunction reports whether name was previously registered as a function.
func (c *Context) IsFunction(name string) bool {
	return c.fnNames[name]
}

// TempVar returns a fresh, unique identifier built from prefix. Prefixes
// are hints, not uniqueness guarantees -- a per-compilation counter keyed
// by prefix supplies the suffix.
func (c *Context) TempVar(prefix string) string {
	n := c.tempCounters[prefix]
	c.tempCounters[prefix] = n + 1
	if n == 0 {
		return "__" + prefix
	}
	return "__" + prefix + strconv.Itoa(n)
}

// Snapshot captures the Context state a speculative codegen attempt can
// disturb: temp-variable numbering and the diagnostics length. Codegen
// takes one before trying an emission strategy that may not pan out
// (e.g. the fluent pipeline chain) and Restores it when falling back, so
// the abandoned attempt leaves no numbering gaps or stray diagnostics.
type Snapshot struct {
	tempCounters map[string]int
	diagLen      int
}

// Snapshot returns a restore point for the current Context state.
func (c *Context) Snapshot() Snapshot {
	counters := make(map[string]int, len(c.tempCounters))
	for k, v := range c.tempCounters {
		counters[k] = v
	}
	s := Snapshot{tempCounters: counters}
	if c.diags != nil {
		s.diagLen = len(*c.diags)
	}
	return s
}

// Restore rolls the Context back to a previously taken Snapshot.
func (c *Context) Restore(s Snapshot) {
	c.tempCounters = make(map[string]int, len(s.tempCounters))
	for k, v := range s.tempCounters {
		c.tempCounters[k] = v
	}
	if c.diags != nil && len(*c.diags) > s.diagLen {
		*c.diags = (*c.diags)[:s.diagLen]
	}
}

// Indent increases the current indentation level.
func (c *Context) Indent() { c.level++ }

// Dedent decreases the current indentation level.
func (c *Context) Dedent() {
	if c.level > 0 {
		c.level--
	}
}

// Level returns the current indentation depth.
func (c *Context) Level() int { return c.level }

// AddDiagnostic appends d to the shared diagnostics slice, if any.
func (c *Context) AddDiagnostic(d syntax.Diagnostic) {
	if c.diags != nil {
		*c.diags = append(*c.diags, d)
	}
}

// Warnf appends a warning-severity Diagnostic at pos with the given code,
// the shape every "Unsupported construct, falling back" note in codegen
// uses.
func (c *Context) Warnf(pos syntax.Pos, code, format string, args ...any) {
	c.AddDiagnostic(syntax.Diagnostic{
		Severity: syntax.SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Code:     code,
	})
}

// Infof appends an info-severity Diagnostic, for non-actionable notes like
// "using fluent API for cat".
func (c *Context) Infof(pos syntax.Pos, code, format string, args ...any) {
	c.AddDiagnostic(syntax.Diagnostic{
		Severity: syntax.SeverityInfo,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Code:     code,
	})
}

// Diagnostics returns every diagnostic accumulated so far.
func (c *Context) Diagnostics() []syntax.Diagnostic {
	if c.diags == nil {
		return nil
	}
	return *c.diags
}

// Clear empties the diagnostics slice, used between repeated compilations
// that share one Context.
func (c *Context) Clear() {
	if c.diags != nil {
		*c.diags = (*c.diags)[:0]
	}
}
