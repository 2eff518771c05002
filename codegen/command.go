package codegen

import (
	"strconv"
	"strings"

	"github.com/bashc-dev/bashc/syntax"
)

// emitCommand lowers a simple *syntax.Command to one or more
// statements. Assignment forms are handled entirely here since they
// never produce an "exec expression" a pipeline stage could consume.
func (g *Generator) emitCommand(c *syntax.Command) {
	if c.PureAssignment() {
		for _, a := range c.Assigns {
			g.emitAssignment(a)
		}
		return
	}
	if c.Name == nil {
		// redirect-only, e.g. "> file": run the null command so the
		// redirections still apply (truncating the target).
		g.e.Line("await " + g.finishExec(`$.cmd("true")`, c.Redirects) + ";")
		return
	}

	nameLit, dynamic := c.Name.Lit()
	if assignAffectingBuiltins[nameLit] && !dynamic {
		g.emitAssignBuiltin(nameLit, c)
		return
	}

	expr, printing, _ := g.commandExecExpr(c, false)
	if printing {
		g.e.Line("console.log(await " + expr + ");")
	} else {
		g.e.Line("await " + expr + ";")
	}
}

// emitAssignment lowers one NAME=value / NAME+=value assignment. Bash
// treats "+=" on a variable's first touch in a scope as a plain "=" --
// there is nothing yet to append to -- so the first-occurrence branches
// below never emit "+=" themselves; only a later occurrence, which finds
// the variable already declared, can use it. A self-referencing
// initializer -- the value expression reads the same name it assigns --
// is split into a bare declaration followed by a separate assignment
// statement, since "let X = `${X}...`" would read X before it exists.
func (g *Generator) emitAssignment(a *syntax.VariableAssignment) {
	name := identifier(a.Name)
	valueExpr := g.assignmentValueExpr(a)
	selfRef := a.Value != nil && wordReferences(a.Value, a.Name)

	alreadyDeclared := g.ctx.IsDeclaredInCurrentScope(name)
	op := "="
	if a.Append {
		op = "+="
	}

	switch {
	case a.Index != nil:
		g.e.Line(name + ".set(" + g.renderWord(a.Index) + ", " + valueExpr + ");")
	case alreadyDeclared:
		g.e.Line(name + " " + op + " " + valueExpr + ";")
	case selfRef || a.Append:
		g.e.Line("let " + name + ";")
		g.ctx.DeclareVariable(name, declMutable)
		g.e.Line(name + " = " + valueExpr + ";")
	default:
		g.ctx.DeclareVariable(name, declMutable)
		g.e.Line("let " + name + " = " + valueExpr + ";")
	}
}

func (g *Generator) assignmentValueExpr(a *syntax.VariableAssignment) string {
	if a.Value == nil {
		return `""`
	}
	return g.renderWord(a.Value)
}

// wordReferences reports whether w's top-level parts read name, the
// shallow check emitAssignment's self-reference rule needs.
func wordReferences(w *syntax.Word, name string) bool {
	for _, p := range w.Parts {
		if pe, ok := p.(*syntax.ParameterExpansion); ok && pe.Parameter == name {
			return true
		}
	}
	return false
}

// emitAssignBuiltin lowers "export"/"readonly"/"local"/"declare"/"typeset"/
// "unset" applied to inline NAME[=value] arguments. These commands never parse their
// arguments as VariableAssignment nodes -- only a *leading* assignment
// gets ASSIGNMENT_WORD treatment -- so codegen re-splits each argument
// word on its own. The value half commonly carries its own expansions
// (export PATH="$PATH:/x"), so the split works off the raw token text
// rather than requiring the whole argument to reduce to one literal.
func (g *Generator) emitAssignBuiltin(name string, c *syntax.Command) {
	for _, arg := range c.Args {
		varName, hasValue, valueRaw := splitInlineAssignment(arg.Raw)
		if varName == "" {
			g.ctx.Warnf(arg.At, "unsupported-dynamic-declare", "%s with a dynamic argument is not lowered", name)
			continue
		}
		if hasValue {
			valueParts := syntax.ParseWordParts(valueRaw, arg.At, false, nil)
			valueWord := &syntax.Word{At: arg.At, Raw: valueRaw, Parts: valueParts}
			g.emitAssignment(&syntax.VariableAssignment{At: arg.At, Name: varName, Value: valueWord})
		} else if !g.ctx.IsDeclared(identifier(varName)) {
			g.ctx.DeclareVariable(identifier(varName), declMutable)
			g.e.Line("let " + identifier(varName) + ";")
		}
		switch name {
		case "export":
			g.e.Line("Deno.env.set(" + quoteString(varName) + ", String(" + identifier(varName) + "));")
		case "unset":
			g.e.Line(identifier(varName) + " = undefined;")
			g.e.Line("Deno.env.delete(" + quoteString(varName) + ");")
		case "readonly":
			g.ctx.Infof(arg.At, "readonly-not-enforced", "readonly %q is not enforced at runtime", varName)
		}
	}
}

// splitInlineAssignment splits "NAME=value", "NAME+=value", or a bare
// "NAME" into its parts.
func splitInlineAssignment(lit string) (name string, hasValue bool, value string) {
	i := strings.IndexByte(lit, '=')
	if i < 0 {
		if isValidName(lit) {
			return lit, false, ""
		}
		return "", false, ""
	}
	name = lit[:i]
	if strings.HasSuffix(name, "+") {
		name = name[:len(name)-1]
	}
	if !isValidName(name) {
		return "", false, ""
	}
	return name, true, lit[i+1:]
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// declMutable avoids importing emit's DeclKind constant name collision in
// this file's call sites; it is emit.DeclMutable's value (0).
const declMutable = 0

// commandExecExpr builds the exec-call expression for c, running the
// emission phases in order: analyze the node's shape, pick a strategy
// (user function, timeout wrapper, shell builtin, fluent stream,
// specialized wrapper, then plain exec), execute it, and apply the
// remaining redirections as chained calls. A "2>&1" redirect is consumed
// during analysis and becomes the mergeStreams exec option rather than a
// chained call. extraOpts carries option fields an outer strategy
// computed (today only the timeout wrapper's "timeout: N").
func (g *Generator) commandExecExpr(c *syntax.Command, inPipeline bool, extraOpts ...string) (expr string, printing bool, kind string) {
	if c.Name == nil {
		return g.finishExec(`$.cmd("true")`, c.Redirects), false, "exec"
	}
	nameLit, dynamic := c.Name.Lit()

	redirects, mergeStreams := consumeMergeRedirect(c.Redirects)
	opts := extraOpts
	if mergeStreams {
		opts = append([]string{"mergeStreams: true"}, opts...)
	}
	optArg := g.execOptions(c, opts)
	hasRedirects := len(c.Redirects) > 0
	// plain means no env assignments and no exec options: the shapes the
	// builtin and fluent helper signatures can't carry.
	plain := len(c.Assigns) == 0 && len(opts) == 0

	if dynamic {
		nameExpr := g.renderWord(c.Name)
		return g.finishExec("$.cmd("+nameExpr+argsTail(g.commandArgs(c), optArg)+")", redirects), false, "dynamic"
	}

	if g.ctx.IsFunction(nameLit) {
		return g.finishExec(identifier(nameLit)+"("+strings.Join(g.commandArgs(c), ", ")+")", redirects), false, "function"
	}

	if nameLit == "timeout" && len(c.Args) > 0 {
		if expr, ok := g.timeoutExec(c, inPipeline, extraOpts); ok {
			return expr, false, "timeout"
		}
	}

	if builtinCommands[nameLit] && !hasRedirects && !inPipeline && plain {
		args := g.commandArgs(c)
		return "$." + nameLit + "(" + strings.Join(args, ", ") + ")", printingBuiltins[nameLit], "builtin"
	}

	if fluentCommands[nameLit] && !hasRedirects && plain {
		if call, ok := g.fluentCallExpr(nameLit, c.Args); ok {
			g.ctx.Infof(c.At, "fluent-api", "using fluent API for %s", nameLit)
			return call, false, "fluent"
		}
	}

	if specializedCommands[nameLit] {
		args := g.commandArgs(c)
		return g.finishExec("$."+nameLit+"("+strings.Join(append(args, trimEmpty(optArg)...), ", ")+")", redirects), false, "specialized"
	}

	args := append([]string{quoteString(nameLit)}, g.commandArgs(c)...)
	return g.finishExec("$.cmd("+strings.Join(append(args, trimEmpty(optArg)...), ", ")+")", redirects), false, "exec"
}

// consumeMergeRedirect pulls a "2>&1" out of rs. The runtime expresses
// merged streams as an exec option (mergeStreams), not a chained
// .stderr(...) call, so it must not reach finishExec.
func consumeMergeRedirect(rs []*syntax.Redirect) ([]*syntax.Redirect, bool) {
	merge := false
	var out []*syntax.Redirect
	for _, r := range rs {
		if r.Op == syntax.GREATAND && r.FD == 2 {
			if lit, ok := r.Target.Lit(); ok && lit == "1" {
				merge = true
				continue
			}
		}
		out = append(out, r)
	}
	return out, merge
}

func trimEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

func argsTail(args []string, envOpt string) string {
	all := append(append([]string{}, args...), trimEmpty(envOpt)...)
	if len(all) == 0 {
		return ""
	}
	return ", " + strings.Join(all, ", ")
}

// commandArgs flattens a Command's argument words to their rendered
// expressions, fanning out brace expansions.
func (g *Generator) commandArgs(c *syntax.Command) []string {
	var out []string
	for _, a := range c.Args {
		out = append(out, g.renderWordArgs(a)...)
	}
	return out
}

// execOptions renders the trailing options argument of an exec call: a
// Command's leading assignments become a scoped env, followed by any
// option fields the caller computed (mergeStreams, timeout). Returns ""
// when there is nothing to pass, so trimEmpty drops the argument.
func (g *Generator) execOptions(c *syntax.Command, extra []string) string {
	var fields []string
	if len(c.Assigns) > 0 {
		var entries []string
		for _, a := range c.Assigns {
			entries = append(entries, identifier(a.Name)+": "+g.assignmentValueExpr(a))
		}
		fields = append(fields, "env: { "+strings.Join(entries, ", ")+" }")
	}
	fields = append(fields, extra...)
	if len(fields) == 0 {
		return ""
	}
	return "{ " + strings.Join(fields, ", ") + " }"
}

// timeoutExec unwraps "timeout DURATION cmd args..." and re-enters
// strategy selection for the inner command with a timeout exec option.
// ok is false when the first argument isn't a recognizable duration, in
// which case "timeout" lowers as a generic exec like any other command.
func (g *Generator) timeoutExec(c *syntax.Command, inPipeline bool, extraOpts []string) (string, bool) {
	durLit, lit := c.Args[0].Lit()
	if !lit || len(c.Args) < 2 {
		return "", false
	}
	ms, ok := durationMillis(durLit)
	if !ok {
		return "", false
	}
	inner := &syntax.Command{
		At:        c.At,
		Name:      c.Args[1],
		Args:      c.Args[2:],
		Assigns:   c.Assigns,
		Redirects: c.Redirects,
	}
	opts := append([]string{"timeout: " + strconv.Itoa(ms)}, extraOpts...)
	expr, _, _ := g.commandExecExpr(inner, inPipeline, opts...)
	return expr, true
}

// durationMillis parses a timeout(1)-style duration: an integer with an
// optional s/m/h suffix, defaulting to seconds like timeout(1) does.
func durationMillis(lit string) (int, bool) {
	if lit == "" {
		return 0, false
	}
	unit := 1000
	switch lit[len(lit)-1] {
	case 's':
		lit = lit[:len(lit)-1]
	case 'm':
		unit = 60 * 1000
		lit = lit[:len(lit)-1]
	case 'h':
		unit = 60 * 60 * 1000
		lit = lit[:len(lit)-1]
	}
	n, err := strconv.Atoi(lit)
	if err != nil || n < 0 {
		return 0, false
	}
	return n * unit, true
}

// finishExec applies redirections as trailing chained calls. Builtins never reach this path: a
// redirect disqualifies the builtin strategy earlier in commandExecExpr.
func (g *Generator) finishExec(expr string, redirects []*syntax.Redirect) string {
	for _, r := range redirects {
		expr += g.redirectSuffix(r)
	}
	return expr
}

func (g *Generator) redirectSuffix(r *syntax.Redirect) string {
	fd := r.FD
	switch r.Op {
	case syntax.GREAT, syntax.CLOBBER:
		if fd == 2 {
			return ".stderr(" + g.renderWord(r.Target) + ")"
		}
		return ".stdout(" + g.renderWord(r.Target) + ")"
	case syntax.DGREAT:
		if fd == 2 {
			return ".stderr(" + g.renderWord(r.Target) + ", { append: true })"
		}
		return ".stdout(" + g.renderWord(r.Target) + ", { append: true })"
	case syntax.LESS:
		return ".stdin(" + g.renderWord(r.Target) + ")"
	case syntax.TLESS:
		return ".stdin(" + g.renderWord(r.Target) + ")"
	case syntax.DLESS, syntax.DLESSDASH:
		return ".stdin(" + g.renderWord(r.Hdoc) + ")"
	case syntax.AND_GREAT:
		return ".stdout(" + g.renderWord(r.Target) + ", { mergeStderr: true })"
	case syntax.AND_DGREAT:
		return ".stdout(" + g.renderWord(r.Target) + ", { mergeStderr: true, append: true })"
	case syntax.GREATAND:
		// "2>&1" never reaches here; consumeMergeRedirect turns it into
		// the mergeStreams exec option. Anything else is a general fd
		// duplication the runtime has no surface for.
		g.ctx.Warnf(r.At, "unsupported-fd-dup", "fd duplication redirect is not lowered")
		return ""
	}
	g.ctx.Warnf(r.At, "unsupported-redirect", "redirect operator %s is not lowered", r.Op)
	return ""
}
