// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package fileutil helps the bashc CLI decide, while walking a
// directory tree, which entries are candidate Bash sources worth
// handing to the Lexer rather than skipped outright.
package fileutil

import (
	"io/fs"
	"os"
	"regexp"
	"strings"
)

var (
	shebangRe = regexp.MustCompile(`^#!\s?/(usr/)?bin/(env\s+)?(sh|bash)(\s|$)`)
	extRe     = regexp.MustCompile(`\.(sh|bash)$`)
)

// HasShebang reports whether bs begins with a shebang bashc knows how
// to transpile: #!/bin/sh, #!/bin/bash, or an env-wrapped variant.
func HasShebang(bs []byte) bool {
	return shebangRe.Match(bs)
}

// ScriptConfidence grades how likely a directory entry is to be a Bash
// source bashc should attempt to compile, from certain rejection to
// certain acceptance.
type ScriptConfidence int

const (
	// ConfNotScript: skip outright, no need to open the file.
	ConfNotScript ScriptConfidence = iota

	// ConfIfShebang: open the file and check HasShebang before deciding.
	ConfIfShebang

	// ConfIsScript: a .sh/.bash extension makes the shebang check moot.
	ConfIsScript
)

// CouldBeScript reports how likely entry is to be bashc input: it
// rejects directories, dotfiles, symlinks, and any file carrying an
// extension other than .sh/.bash, and otherwise defers to the shebang
// line of the file's contents.
func CouldBeScript(entry fs.DirEntry) ScriptConfidence {
	name := entry.Name()
	switch {
	case entry.IsDir(), name == "" || name[0] == '.':
		return ConfNotScript
	case entry.Type()&os.ModeSymlink != 0:
		return ConfNotScript
	case extRe.MatchString(name):
		return ConfIsScript
	case strings.IndexByte(name, '.') > 0:
		return ConfNotScript // some other extension, e.g. .py or .txt
	default:
		return ConfIfShebang
	}
}
