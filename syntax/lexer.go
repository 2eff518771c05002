// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// Token is a single lexical token produced by the Lexer.
type Token struct {
	Kind         TokKind
	Lexeme       string
	Start, End   int // byte offsets
	Line, Col    int
	Quoted       bool
	SingleQuoted bool
}

// Lexer tokenizes Bash source text. It performs no parsing: reserved-word
// and NAME recognition is contextual but depends only on the tokens
// already emitted (plus, for a function name, whether "(" comes next),
// never on arbitrary lookahead, so the Lexer can run to completion and
// hand the Parser a finished token stream.
type Lexer struct {
	src        []byte
	pos        int
	line, col  int
	cmdStart   bool // true when the next WORD could be upgraded to a reserved word
	inSlot     int  // 2 right after "for"/"case", 1 one word later, where "in" is reserved
}

// NewLexer creates a Lexer over src.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1, cmdStart: true}
}

// Tokenize runs the Lexer to completion, returning every Token including
// a final EOF, or a *LexError on an unterminated quote.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return toks, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) byteAt(i int) byte {
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		if l.pos >= len(l.src) {
			return
		}
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// Next scans and returns the next Token.
func (l *Lexer) Next() (Token, error) {
	l.skipSpaces()
	startLine, startCol, startPos := l.line, l.col, l.pos
	if l.pos >= len(l.src) {
		return l.tok(EOF, "", startPos, startLine, startCol), nil
	}
	b := l.src[l.pos]

	if b == '#' {
		// A comment runs to end of line. The token is emitted so callers
		// that care (formatters, future comment-preserving passes) can see
		// it; the Parser drops COMMENT tokens up front.
		for l.pos < len(l.src) && l.src[l.pos] != '\n' {
			l.advance(1)
		}
		return l.tok(COMMENT, string(l.src[startPos:l.pos]), startPos, startLine, startCol), nil
	}

	if b == '\n' {
		l.advance(1)
		l.cmdStart = true
		return l.tok(NEWLINE, "\n", startPos, startLine, startCol), nil
	}

	if op, n, ok := l.matchOperator(); ok {
		l.advance(n)
		t := l.tok(op, string(l.src[startPos:l.pos]), startPos, startLine, startCol)
		l.cmdStart = l.opStartsCommand(op)
		return t, nil
	}

	// A word: quoted or bare, possibly a NUMBER or NAME/ASSIGNMENT_WORD.
	raw, quoted, singleQuoted, err := l.scanWord()
	if err != nil {
		return Token{}, err
	}
	t := l.tok(WORD, raw, startPos, startLine, startCol)
	t.Quoted = quoted
	t.SingleQuoted = singleQuoted
	t.Kind = l.classifyWord(raw, quoted)
	if l.cmdStart {
		if rw, ok := reservedWords[raw]; ok && !quoted {
			t.Kind = rw
		}
	}
	// "in" is also reserved as the word after "for NAME" or "case WORD".
	if l.inSlot == 1 && raw == "in" && !quoted {
		t.Kind = IN
	}
	if t.Kind == FOR || t.Kind == CASE {
		l.inSlot = 2
	} else if l.inSlot > 0 {
		l.inSlot--
	}
	l.cmdStart = l.opStartsCommand(t.Kind)
	return t, nil
}

func (l *Lexer) tok(k TokKind, lex string, start, line, col int) Token {
	return Token{Kind: k, Lexeme: lex, Start: start, End: l.pos, Line: line, Col: col}
}

// opStartsCommand reports whether, after emitting token kind k, the Lexer
// should be willing to upgrade the following WORD to a reserved word.
func (l *Lexer) opStartsCommand(k TokKind) bool {
	switch k {
	case SEMICOLON, DSEMI, AMP, AND_AND, OR_OR, PIPE, PIPE_AMP,
		LPAREN, LBRACE, NEWLINE,
		IF, THEN, ELSE, ELIF, DO, WHILE, UNTIL, FOR, CASE, FUNCTION, BANG, SELECT:
		return true
	default:
		return false
	}
}

func (l *Lexer) skipSpaces() {
	for l.pos < len(l.src) {
		b := l.src[l.pos]
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			l.advance(1)
		case b == '\\' && l.byteAt(l.pos+1) == '\n':
			l.advance(2) // line continuation
		default:
			return
		}
	}
}

// classifyWord decides whether a bare (unquoted) word is a NUMBER (pure
// integer, used to disambiguate "2>file" from "two>file"), an
// ASSIGNMENT_WORD ("NAME=...", only meaningful at command start -- the
// Parser double-checks position), a NAME (an identifier where the grammar
// needs a name), or a plain WORD.
func (l *Lexer) classifyWord(raw string, quoted bool) TokKind {
	// '{' and '}' act like reserved words: only when they form a whole,
	// standalone word (this is why bash requires "{ cmd; }" with spaces,
	// unlike "(cmd)"). Mid-word braces are brace expansion, e.g. "{a,b}".
	if raw == "{" {
		return LBRACE
	}
	if raw == "}" {
		return RBRACE
	}
	// Assignment recognition looks only at the NAME= prefix (or NAME+=,
	// NAME[sub]=): bash still
	// treats FOO="$BAR" or FOO=$(cmd) as an assignment even though the
	// value carries quoting or expansions. isName rejects any prefix
	// that itself contains a quote byte, so "FOO"=bar correctly falls
	// through to a plain WORD.
	if eq := strings.IndexByte(raw, '='); eq > 0 {
		name := strings.TrimSuffix(raw[:eq], "+")
		if br := strings.IndexByte(name, '['); br > 0 && strings.HasSuffix(name, "]") {
			name = name[:br]
		}
		if isName(name) {
			return ASSIGNMENT_WORD
		}
	}
	if quoted {
		return WORD
	}
	if raw != "" && isAllDigits(raw) {
		return NUMBER
	}
	// A bare identifier is a NAME only where the grammar needs a name: the
	// word right after "for"/"case", or a function name followed by "(".
	// Anywhere else it stays a plain WORD.
	next := l.pos
	for l.byteAt(next) == ' ' || l.byteAt(next) == '\t' {
		next++
	}
	if isName(raw) && (l.inSlot == 2 || l.byteAt(next) == '(') {
		return NAME
	}
	return WORD
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isNameStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameCont(b byte) bool {
	return isNameStart(b) || (b >= '0' && b <= '9')
}

func isName(s string) bool {
	if s == "" || !isNameStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isNameCont(s[i]) {
			return false
		}
	}
	return true
}

// multi-character operator table, longest match first.
var operatorTable = []struct {
	lex string
	tok TokKind
}{
	{"<<<", TLESS},
	{"<<-", DLESSDASH},
	{"<<", DLESS},
	{"<&", LESSAND},
	{"<(", LESS_LPAREN},
	{"<>", LESSGREAT},
	{"<", LESS},
	{"&>>", AND_DGREAT},
	{"&>", AND_GREAT},
	{"&&", AND_AND},
	{"&", AMP},
	{"||", OR_OR},
	{"|&", PIPE_AMP},
	{"|", PIPE},
	{">>", DGREAT},
	{">&", GREATAND},
	{">(", GREAT_LPAREN},
	{">|", CLOBBER},
	{">", GREAT},
	{";;", DSEMI},
	{";", SEMICOLON},
	{"((", DPAREN_START},
	{"))", DPAREN_END},
	{"(", LPAREN},
	{")", RPAREN},
	{"[[", DBRACK_START},
	{"]]", DBRACK_END},
}

// matchOperator tries to match an operator at the current position. It
// only fires for operator-introducing bytes, leaving everything else to
// scanWord -- this is what makes "2>file" lex as NUMBER then GREAT while
// "two>file" lexes as WORD then GREAT.
func (l *Lexer) matchOperator() (TokKind, int, bool) {
	rest := l.src[l.pos:]
	if len(rest) == 0 {
		return 0, 0, false
	}
	for _, e := range operatorTable {
		if strings.HasPrefix(string(rest), e.lex) {
			return e.tok, len(e.lex), true
		}
	}
	return 0, 0, false
}

// scanWord consumes one shell word: a maximal run of non-separator text,
// honoring quote and expansion nesting so that embedded whitespace,
// parens, and operators inside '...'/"..."/$(...)/`...` do not end the
// word.
func (l *Lexer) scanWord() (raw string, quoted bool, singleQuoted bool, err error) {
	start := l.pos
	segments := 0
	onlySingleQuoteSegment := true
	for l.pos < len(l.src) {
		b := l.src[l.pos]
		switch {
		case b == ' ' || b == '\t' || b == '\n' || b == '\r':
			goto done
		case b == '\\' && l.byteAt(l.pos+1) == '\n':
			l.advance(2) // line continuation mid-word
			continue
		case b == '\\':
			l.advance(2)
			onlySingleQuoteSegment = false
			segments++
		case b == '\'':
			if err := l.skipSingleQuoted(); err != nil {
				return "", false, false, err
			}
			quoted = true
			segments++
		case b == '"':
			if err := l.skipDoubleQuoted(); err != nil {
				return "", false, false, err
			}
			quoted = true
			onlySingleQuoteSegment = false
			segments++
		case b == '$' && l.byteAt(l.pos+1) == '\'':
			l.advance(2)
			if err := l.skipAnsiCQuoted(); err != nil {
				return "", false, false, err
			}
			quoted = true
			onlySingleQuoteSegment = false
			segments++
		case b == '$' && (l.byteAt(l.pos+1) == '(' || l.byteAt(l.pos+1) == '{'):
			l.advance(2)
			open, close := byte('('), byte(')')
			if l.src[l.pos-1] == '{' {
				open, close = '{', '}'
			}
			if err := l.skipBalanced(open, close); err != nil {
				return "", false, false, err
			}
			onlySingleQuoteSegment = false
			segments++
		case b == '`':
			if err := l.skipBacktick(); err != nil {
				return "", false, false, err
			}
			quoted = true
			onlySingleQuoteSegment = false
			segments++
		case (b == '<' || b == '>') && l.byteAt(l.pos+1) == '(':
			l.advance(2)
			if err := l.skipBalanced('(', ')'); err != nil {
				return "", false, false, err
			}
			onlySingleQuoteSegment = false
			segments++
		case isWordBreakOperatorByte(b) && l.pos > start:
			goto done
		default:
			l.advance(1)
		}
	}
done:
	raw = string(l.src[start:l.pos])
	singleQuoted = quoted && onlySingleQuoteSegment && segments == 1
	return raw, quoted, singleQuoted, nil
}

// isWordBreakOperatorByte reports whether b, standing alone (not as part
// of an already-open quote/expansion), terminates the current word.
func isWordBreakOperatorByte(b byte) bool {
	switch b {
	case ';', '&', '|', '<', '>', '(', ')':
		return true
	}
	return false
}

func (l *Lexer) skipSingleQuoted() error {
	openLine, openCol := l.line, l.col
	l.advance(1) // opening '
	for {
		if l.pos >= len(l.src) {
			return &LexError{Pos: Pos{Line: openLine, Col: openCol}, Msg: "unterminated single-quoted string"}
		}
		if l.src[l.pos] == '\'' {
			l.advance(1)
			return nil
		}
		l.advance(1)
	}
}

func (l *Lexer) skipDoubleQuoted() error {
	openLine, openCol := l.line, l.col
	l.advance(1) // opening "
	for {
		if l.pos >= len(l.src) {
			return &LexError{Pos: Pos{Line: openLine, Col: openCol}, Msg: "unterminated double-quoted string"}
		}
		b := l.src[l.pos]
		switch {
		case b == '\\' && l.pos+1 < len(l.src):
			l.advance(2)
		case b == '"':
			l.advance(1)
			return nil
		case b == '$' && (l.byteAt(l.pos+1) == '(' || l.byteAt(l.pos+1) == '{'):
			l.advance(2)
			open, close := byte('('), byte(')')
			if l.src[l.pos-1] == '{' {
				open, close = '{', '}'
			}
			if err := l.skipBalanced(open, close); err != nil {
				return err
			}
		case b == '`':
			if err := l.skipBacktick(); err != nil {
				return err
			}
		default:
			l.advance(1)
		}
	}
}

func (l *Lexer) skipAnsiCQuoted() error {
	openLine, openCol := l.line, l.col
	for {
		if l.pos >= len(l.src) {
			return &LexError{Pos: Pos{Line: openLine, Col: openCol}, Msg: "unterminated $'...' string"}
		}
		b := l.src[l.pos]
		switch {
		case b == '\\' && l.pos+1 < len(l.src):
			l.advance(2)
		case b == '\'':
			l.advance(1)
			return nil
		default:
			l.advance(1)
		}
	}
}

func (l *Lexer) skipBacktick() error {
	openLine, openCol := l.line, l.col
	l.advance(1) // opening `
	for {
		if l.pos >= len(l.src) {
			return &LexError{Pos: Pos{Line: openLine, Col: openCol}, Msg: "unterminated backtick command substitution"}
		}
		b := l.src[l.pos]
		switch {
		case b == '\\' && l.pos+1 < len(l.src):
			l.advance(2)
		case b == '`':
			l.advance(1)
			return nil
		default:
			l.advance(1)
		}
	}
}

// skipBalanced consumes a balanced open/close run (already past the
// opener), honoring nested quotes so that an unescaped close/open inside
// '...' or "..." doesn't affect the depth count.
func (l *Lexer) skipBalanced(open, close byte) error {
	openLine, openCol := l.line, l.col
	depth := 1
	for {
		if l.pos >= len(l.src) {
			return &LexError{Pos: Pos{Line: openLine, Col: openCol}, Msg: "unterminated expansion"}
		}
		b := l.src[l.pos]
		switch {
		case b == '\\' && l.pos+1 < len(l.src):
			l.advance(2)
		case b == '\'':
			if err := l.skipSingleQuoted(); err != nil {
				return err
			}
		case b == '"':
			if err := l.skipDoubleQuoted(); err != nil {
				return err
			}
		case b == open:
			depth++
			l.advance(1)
		case b == close:
			depth--
			l.advance(1)
			if depth == 0 {
				return nil
			}
		default:
			l.advance(1)
		}
	}
}
