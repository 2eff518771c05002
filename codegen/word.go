package codegen

import (
	"strconv"
	"strings"

	"github.com/bashc-dev/bashc/pattern"
	"github.com/bashc-dev/bashc/syntax"
)

// renderWord lowers a Word to a single host-language expression. A word with no expansions becomes a plain quoted string; a word
// with expansions becomes a template literal built from its Parts.
func (g *Generator) renderWord(w *syntax.Word) string {
	if w == nil {
		return `""`
	}
	if w.SingleQuoted {
		// the Word-part Parser already stripped the surrounding quotes
		// into the single LiteralPart.
		lit, _ := w.Lit()
		return quoteString(lit)
	}
	if lit, ok := w.Lit(); ok {
		return renderLiteral(lit, !w.Quoted)
	}
	var b strings.Builder
	b.WriteByte('`')
	for _, p := range w.Parts {
		g.renderPartInto(&b, p)
	}
	b.WriteByte('`')
	return b.String()
}

// renderWordArgs lowers a Word to one or more argument expressions: brace
// expansion ("{a,b,c}", "{1..3}") fans a single source word out into
// several arguments before quoting.
func (g *Generator) renderWordArgs(w *syntax.Word) []string {
	if w == nil {
		return nil
	}
	if lit, ok := w.Lit(); ok && !w.SingleQuoted {
		if alts := expandBraces(lit); len(alts) > 1 {
			out := make([]string, len(alts))
			for i, a := range alts {
				out[i] = renderLiteral(a, !w.Quoted)
			}
			return out
		}
	}
	return []string{g.renderWord(w)}
}

func (g *Generator) renderPartInto(b *strings.Builder, p syntax.WordPart) {
	switch part := p.(type) {
	case *syntax.LiteralPart:
		b.WriteString(templateEscape(part.Value))
	case *syntax.ParameterExpansion:
		b.WriteString("${")
		b.WriteString(g.renderParamExpansion(part))
		b.WriteByte('}')
	case *syntax.CommandSubstitution:
		b.WriteString("${")
		b.WriteString(g.renderCommandSubstitution(part))
		b.WriteByte('}')
	case *syntax.ArithmeticExpansion:
		b.WriteString("${")
		b.WriteString(g.renderArith(part.Expr))
		b.WriteByte('}')
	case *syntax.ProcessSubstitution:
		b.WriteString("${")
		b.WriteString(g.renderProcessSubstitution(part))
		b.WriteByte('}')
	}
}

// renderParamExpansion lowers one ParameterExpansion per the modifier
// table. Most cases read as a runtime helper call over the bare
// parameter reference; ModNone reads the reference directly (an indirect
// "${!name}" calls $.indirect), and ModLength reads its .length property.
func (g *Generator) renderParamExpansion(p *syntax.ParameterExpansion) string {
	ref := g.paramRef(p)
	switch p.Modifier {
	case syntax.ModNone:
		if p.Indirect {
			return "$.indirect(" + quoteString(p.Parameter) + ")"
		}
		return ref
	case syntax.ModLength:
		return ref + ".length"
	case syntax.ModDefaultValue:
		return g.nullaryHelper("defaultValue", ref, p)
	case syntax.ModAssignDefault:
		return g.nullaryHelper("assignDefault", ref, p)
	case syntax.ModErrorIfUnset:
		return g.nullaryHelper("errorIfUnset", ref, p)
	case syntax.ModAlternate:
		return g.nullaryHelper("alternate", ref, p)
	case syntax.ModRemoveShortestPrefix:
		return "$.removePrefix(" + ref + ", " + g.globArg(p) + ", false)"
	case syntax.ModRemoveLongestPrefix:
		return "$.removePrefix(" + ref + ", " + g.globArg(p) + ", true)"
	case syntax.ModRemoveShortestSuffix:
		return "$.removeSuffix(" + ref + ", " + g.globArg(p) + ", false)"
	case syntax.ModRemoveLongestSuffix:
		return "$.removeSuffix(" + ref + ", " + g.globArg(p) + ", true)"
	case syntax.ModUppercaseFirst:
		return "$.caseFirst(" + ref + ", " + g.globArg(p) + ", true)"
	case syntax.ModUppercaseAll:
		return "$.caseAll(" + ref + ", " + g.globArg(p) + ", true)"
	case syntax.ModLowercaseFirst:
		return "$.caseFirst(" + ref + ", " + g.globArg(p) + ", false)"
	case syntax.ModLowercaseAll:
		return "$.caseAll(" + ref + ", " + g.globArg(p) + ", false)"
	case syntax.ModReplaceFirst:
		return g.replaceHelper(ref, p, "first")
	case syntax.ModReplaceAll:
		return g.replaceHelper(ref, p, "all")
	case syntax.ModReplacePrefix:
		return g.replaceHelper(ref, p, "prefix")
	case syntax.ModReplaceSuffix:
		return g.replaceHelper(ref, p, "suffix")
	case syntax.ModIndirect:
		return "$.indirect(" + quoteString(p.Parameter) + ")"
	}
	return ref
}

// paramRef resolves the bare variable/subscript/special reference that
// sits under a modifier. Positional parameters read the enclosing
// function's $args rest parameter when inside a function body, the
// script-level $.args otherwise.
func (g *Generator) paramRef(p *syntax.ParameterExpansion) string {
	argsRef := "$.args"
	if g.inFunction {
		argsRef = "$args"
	}
	switch p.Parameter {
	case "@", "*":
		return argsRef
	case "#":
		return argsRef + ".length"
	case "?":
		return "$.lastStatus"
	case "$":
		return "$.pid"
	case "0":
		return "$.scriptName"
	}
	if _, err := strconv.Atoi(p.Parameter); err == nil {
		return argsRef + "[" + p.Parameter + " - 1]"
	}
	name := identifier(p.Parameter)
	if p.Subscript == nil {
		return name
	}
	sub, _ := p.Subscript.Lit()
	if sub == "@" || sub == "*" {
		if p.Indirect {
			return name + ".keys()"
		}
		return name + ".all()"
	}
	return name + ".at(" + g.renderWord(p.Subscript) + ")"
}

func (g *Generator) nullaryHelper(name, ref string, p *syntax.ParameterExpansion) string {
	arg := `""`
	if p.ModifierArg != nil {
		arg = g.renderWord(p.ModifierArg)
	}
	nullSafe := "false"
	if p.NullOk {
		nullSafe = "true"
	}
	return "$." + name + "(" + quoteString(p.Parameter) + ", " + ref + ", " + arg + ", " + nullSafe + ")"
}

func (g *Generator) replaceHelper(ref string, p *syntax.ParameterExpansion, mode string) string {
	pat, rep := g.splitReplaceArg(p.ModifierArg)
	return "$.replace(" + ref + ", " + pat + ", " + rep + ", " + quoteString(mode) + ")"
}

// splitReplaceArg splits a "${p/pat/rep}" modifier argument word on the
// first "/" of its literal value. The Word-part Parser has already removed
// backslash escapes from that value, so an escaped "\/" is split on like
// any other "/". The Word-part Parser keeps the whole "pat/rep" span
// as raw text inside ModifierArg when it contains no expansions; fall back
// to treating the whole thing as the pattern when the split can't be done
// textually (e.g. the replacement contains an expansion of its own).
func (g *Generator) splitReplaceArg(w *syntax.Word) (string, string) {
	if w == nil {
		return `""`, `""`
	}
	if lit, ok := w.Lit(); ok {
		if i := strings.IndexByte(lit, '/'); i >= 0 {
			return g.globPattern(w.At, lit[:i]), quoteString(lit[i+1:])
		}
		return g.globPattern(w.At, lit), `""`
	}
	return g.globPatternWord(w), `""`
}

// globArg renders a modifier's pattern argument translated through the
// glob-to-regexp package.
func (g *Generator) globArg(p *syntax.ParameterExpansion) string {
	if p.ModifierArg == nil {
		return `""`
	}
	if lit, ok := p.ModifierArg.Lit(); ok {
		return g.globPattern(p.ModifierArg.At, lit)
	}
	return g.globPatternWord(p.ModifierArg)
}

// globPattern quotes a literal glob pattern as a string argument, after
// checking with the pattern package that the runtime's own glob matcher
// will actually be able to parse it: codegen passes pattern source text
// rather than a compiled RegExp literal, leaving the runtime library to
// own how the glob is matched (it already receives the greedy/case-
// direction flags each modifier needs alongside this argument). A
// pattern [pattern.Regexp] itself rejects -- unbalanced brackets, a
// trailing unescaped backslash -- gets the same "unsupported, falling
// back to a literal match" diagnostic CG gives every other construct it
// can't lower faithfully.
func (g *Generator) globPattern(pos syntax.Pos, lit string) string {
	if _, err := pattern.Regexp(lit, true); err != nil {
		g.ctx.Warnf(pos, "invalid-glob-pattern", "pattern %q is not valid glob syntax (%v); matching it as a literal string", lit, err)
	}
	return quoteString(lit)
}

// globPatternWord handles a pattern argument that itself contains
// expansions: emitted as a template literal, left for the runtime helper
// to treat as a literal match rather than a glob (expansions inside a
// glob pattern are rare and not meaningfully glob-like once substituted).
func (g *Generator) globPatternWord(w *syntax.Word) string {
	var b strings.Builder
	b.WriteByte('`')
	for _, p := range w.Parts {
		g.renderPartInto(&b, p)
	}
	b.WriteByte('`')
	return b.String()
}

func (g *Generator) renderCommandSubstitution(c *syntax.CommandSubstitution) string {
	inner := g.generateCapturedProgram(c.Prog)
	return "await $.capture(async () => { " + inner + " })"
}

func (g *Generator) renderProcessSubstitution(p *syntax.ProcessSubstitution) string {
	inner := g.generateCapturedProgram(p.Prog)
	if p.Output {
		return "await $.procSubstOut(async (w) => { " + inner + " })"
	}
	return "await $.procSubstIn(async () => { " + inner + " })"
}

// renderLiteral lowers one already-expanded literal word (no parameter/
// command/arithmetic expansions left to render) to a host-language
// expression: a plain quoted string, unless the literal opens with a
// tilde expansion, in which case it becomes a template literal
// embedding a runtime HOME lookup ahead of the (escaped) remainder.
// tildeEligible is false for any word that quoting touched (Bash never
// tilde-expands inside single or double quotes, only a bare leading "~").
func renderLiteral(lit string, tildeEligible bool) string {
	if !tildeEligible {
		return quoteString(lit)
	}
	rest, ok := tildePrefix(lit)
	if !ok {
		return quoteString(lit)
	}
	return "`${$.ENV.get(\"HOME\")}" + templateEscape(rest) + "`"
}

// tildePrefix reports whether lit opens with a bare "~" expansion -- a
// "~" immediately followed by "/" or the end of the word -- and, if so,
// returns the remainder of the literal after that "~". "~user" forms
// (anything else following the "~") are left alone and reported as not
// found: the runtime has no user database to resolve them against, so
// they are preserved literally per spec.
func tildePrefix(lit string) (rest string, ok bool) {
	if !strings.HasPrefix(lit, "~") {
		return "", false
	}
	rest = lit[1:]
	if rest == "" || strings.HasPrefix(rest, "/") {
		return rest, true
	}
	return "", false
}

// expandBraces expands {a,b,c}, {x..y}, and {x..y..step} patterns in an
// unquoted literal word into its constituent literal strings. Returns a
// single-element slice unchanged when raw contains no brace pattern.
func expandBraces(raw string) []string {
	start, end := findBraceSpan(raw)
	if start < 0 {
		return []string{raw}
	}
	prefix, body, suffix := raw[:start], raw[start+1:end], raw[end+1:]
	var alts []string
	if lo, hi, step, ok := parseRangeBrace(body); ok {
		alts = expandRange(lo, hi, step)
	} else {
		alts = splitTopLevelCommas(body)
		if len(alts) < 2 {
			return []string{raw}
		}
	}
	var out []string
	for _, a := range alts {
		for _, s := range expandBraces(suffix) {
			out = append(out, prefix+a+s)
		}
	}
	return out
}

func findBraceSpan(s string) (int, int) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return -1, -1
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return start, i
			}
		}
	}
	return -1, -1
}

func splitTopLevelCommas(s string) []string {
	var out []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[last:i])
				last = i + 1
			}
		}
	}
	out = append(out, s[last:])
	return out
}

// parseRangeBrace recognizes "{lo..hi}" and "{lo..hi..step}" bodies,
// numeric or single-character. A zero or malformed step rejects the
// whole body, leaving the braces literal the way Bash does.
func parseRangeBrace(body string) (lo, hi string, step int, ok bool) {
	parts := strings.Split(body, "..")
	step = 1
	switch len(parts) {
	case 2:
	case 3:
		n, err := strconv.Atoi(parts[2])
		if err != nil || n == 0 {
			return "", "", 0, false
		}
		if n < 0 {
			// Bash only takes the step's magnitude; direction comes from
			// the endpoints.
			n = -n
		}
		step = n
	default:
		return "", "", 0, false
	}
	lo, hi = parts[0], parts[1]
	if _, err := strconv.Atoi(lo); err == nil {
		if _, err := strconv.Atoi(hi); err == nil {
			return lo, hi, step, true
		}
	}
	if len(lo) == 1 && len(hi) == 1 {
		return lo, hi, step, true
	}
	return "", "", 0, false
}

func expandRange(lo, hi string, step int) []string {
	if len(lo) == 1 && len(hi) == 1 && !isDigit(lo[0]) {
		a, b := lo[0], hi[0]
		var out []string
		if a <= b {
			for c := int(a); c <= int(b); c += step {
				out = append(out, string(byte(c)))
			}
		} else {
			for c := int(a); c >= int(b); c -= step {
				out = append(out, string(byte(c)))
			}
		}
		return out
	}
	a, _ := strconv.Atoi(lo)
	b, _ := strconv.Atoi(hi)
	var out []string
	if a <= b {
		for n := a; n <= b; n += step {
			out = append(out, strconv.Itoa(n))
		}
	} else {
		for n := a; n >= b; n -= step {
			out = append(out, strconv.Itoa(n))
		}
	}
	return out
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// quoteString renders s as a double-quoted host-language string literal.
func quoteString(s string) string {
	return strconv.Quote(s)
}

// templateEscape escapes the characters meaningful inside a template
// literal: backtick, backslash, and "${".
func templateEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "`", "\\`", "${", "\\${")
	return r.Replace(s)
}

// identifier maps a Bash variable name to its host-language binding name.
// Bash names are already valid identifiers in every case codegen handles;
// this exists as the single seam where that could change (e.g. a name
// colliding with a reserved word).
func identifier(name string) string {
	return name
}
