// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strconv"

// Pos is a single position inside a source file.
type Pos struct {
	Offset int // byte offset, 0-based
	Line   int // line number, 1-based
	Col    int // column number, 1-based, in bytes
}

// IsValid reports whether the position carries real source information.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String returns a "line:col" representation, as used in diagnostics.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Col)
}
