package codegen

import (
	"strings"

	"github.com/bashc-dev/bashc/syntax"
)

// fluentCallExpr lowers one fluent-set command to its runtime stream
// call, recognizing each command's common flag subset and turning it
// into an option record (e.g. "sort -rn" becomes
// `$.sort({ reverse: true, numeric: true })`). ok is false when an
// argument carries an expansion, a flag outside the recognized subset,
// or an operand shape the transform signature can't express; the caller
// then falls back to a generic exec.
func (g *Generator) fluentCallExpr(name string, args []*syntax.Word) (string, bool) {
	lits := make([]string, 0, len(args))
	for _, a := range args {
		lit, ok := a.Lit()
		if !ok {
			return "", false
		}
		lits = append(lits, lit)
	}
	switch name {
	case "cat":
		return fluentCat(lits)
	case "grep":
		return fluentGrep(lits)
	case "sort":
		return fluentFlagsOnly("sort", lits, map[byte]string{
			'r': "reverse", 'n': "numeric", 'u': "unique", 'f': "ignoreCase",
		})
	case "uniq":
		return fluentFlagsOnly("uniq", lits, map[byte]string{
			'c': "count", 'd': "duplicatesOnly", 'i': "ignoreCase",
		})
	case "wc":
		return fluentFlagsOnly("wc", lits, map[byte]string{
			'l': "lines", 'w': "words", 'c': "bytes", 'm': "chars",
		})
	case "head", "tail":
		return fluentHeadTail(name, lits)
	case "cut":
		return fluentCut(lits)
	case "tr":
		return fluentTr(lits)
	case "tee":
		return fluentTee(lits)
	}
	return "", false
}

func fluentCat(lits []string) (string, bool) {
	quoted := make([]string, 0, len(lits))
	for _, l := range lits {
		if strings.HasPrefix(l, "-") {
			return "", false
		}
		quoted = append(quoted, quoteString(l))
	}
	return "$.cat(" + strings.Join(quoted, ", ") + ")", true
}

func fluentGrep(lits []string) (string, bool) {
	known := map[byte]string{
		'i': "ignoreCase", 'v': "invert", 'n': "lineNumbers",
		'c': "countOnly", 'E': "extended", 'F': "fixedStrings",
		'w': "wordMatch", 'o': "onlyMatching",
	}
	var fields []string
	pat := ""
	havePat := false
	for _, l := range lits {
		switch {
		case !havePat && strings.HasPrefix(l, "-") && len(l) > 1:
			fs, ok := flagFields(l[1:], known)
			if !ok {
				return "", false
			}
			fields = append(fields, fs...)
		case !havePat:
			pat, havePat = l, true
		default:
			// a file operand: grep is then a producer, not a transform.
			return "", false
		}
	}
	if !havePat {
		return "", false
	}
	return "$.grep(" + quoteString(pat) + optRecordTail(fields) + ")", true
}

// fluentFlagsOnly handles the transforms that take only combinable
// single-letter flags and no operands (sort, uniq, wc).
func fluentFlagsOnly(name string, lits []string, known map[byte]string) (string, bool) {
	var fields []string
	for _, l := range lits {
		if !strings.HasPrefix(l, "-") || len(l) == 1 {
			return "", false
		}
		fs, ok := flagFields(l[1:], known)
		if !ok {
			return "", false
		}
		fields = append(fields, fs...)
	}
	if len(fields) == 0 {
		return "$." + name + "()", true
	}
	return "$." + name + "({ " + strings.Join(fields, ", ") + " })", true
}

// fluentHeadTail accepts "-n N", "-nN", "-N", and the bare default of
// ten lines, matching the runtime's numeric $.head(n)/$.tail(n) shape.
func fluentHeadTail(name string, lits []string) (string, bool) {
	n := "10"
	for i := 0; i < len(lits); i++ {
		l := lits[i]
		switch {
		case l == "-n" && i+1 < len(lits):
			n = lits[i+1]
			i++
		case strings.HasPrefix(l, "-n") && len(l) > 2:
			n = l[2:]
		case strings.HasPrefix(l, "-") && len(l) > 1 && isAllDigitsStr(l[1:]):
			n = l[1:]
		default:
			return "", false
		}
	}
	if !isAllDigitsStr(n) {
		return "", false
	}
	return "$." + name + "(" + n + ")", true
}

func fluentCut(lits []string) (string, bool) {
	delim, fields, chars := "", "", ""
	take := func(flag string, i int) (string, int, bool) {
		l := lits[i]
		if len(l) > len(flag) {
			return l[len(flag):], i, true
		}
		if i+1 < len(lits) {
			return lits[i+1], i + 1, true
		}
		return "", i, false
	}
	for i := 0; i < len(lits); i++ {
		var ok bool
		switch {
		case strings.HasPrefix(lits[i], "-d"):
			delim, i, ok = take("-d", i)
		case strings.HasPrefix(lits[i], "-f"):
			fields, i, ok = take("-f", i)
		case strings.HasPrefix(lits[i], "-c"):
			chars, i, ok = take("-c", i)
		default:
			return "", false
		}
		if !ok {
			return "", false
		}
	}
	var rec []string
	if delim != "" {
		rec = append(rec, "delimiter: "+quoteString(delim))
	}
	if fields != "" {
		rec = append(rec, "fields: "+quoteString(fields))
	}
	if chars != "" {
		rec = append(rec, "chars: "+quoteString(chars))
	}
	if fields == "" && chars == "" {
		return "", false
	}
	return "$.cut({ " + strings.Join(rec, ", ") + " })", true
}

func fluentTr(lits []string) (string, bool) {
	if len(lits) == 2 && lits[0] == "-d" {
		return "$.tr(" + quoteString(lits[1]) + ", \"\")", true
	}
	if len(lits) == 2 && !strings.HasPrefix(lits[0], "-") {
		return "$.tr(" + quoteString(lits[0]) + ", " + quoteString(lits[1]) + ")", true
	}
	return "", false
}

func fluentTee(lits []string) (string, bool) {
	appendMode := false
	var file string
	for _, l := range lits {
		switch {
		case l == "-a":
			appendMode = true
		case strings.HasPrefix(l, "-"), file != "":
			return "", false
		case strings.HasPrefix(l, "/dev/std"):
			// tee to /dev/stdout or /dev/stderr duplicates onto another
			// stream, which the file-backed $.tee can't express.
			return "", false
		default:
			file = l
		}
	}
	if file == "" {
		return "", false
	}
	if appendMode {
		return "$.tee(" + quoteString(file) + ", { append: true })", true
	}
	return "$.tee(" + quoteString(file) + ")", true
}

// flagFields maps a combined flag run ("rn") to its option-record
// fields, rejecting the whole run on the first unrecognized letter.
func flagFields(run string, known map[byte]string) ([]string, bool) {
	var out []string
	for i := 0; i < len(run); i++ {
		field, ok := known[run[i]]
		if !ok {
			return nil, false
		}
		out = append(out, field+": true")
	}
	return out, true
}

// optRecordTail renders fields as a trailing ", { ... }" options
// argument, or "" when there are none.
func optRecordTail(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return ", { " + strings.Join(fields, ", ") + " }"
}

func isAllDigitsStr(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
