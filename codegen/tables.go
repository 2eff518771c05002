package codegen

// Operator/command tables driving strategy selection.

// builtinCommands selects the shell-builtin strategy.
var builtinCommands = map[string]bool{
	"cd": true, "pwd": true, "echo": true, "pushd": true, "popd": true,
	"dirs": true, "test": true, "which": true, "chmod": true, "ln": true,
	"rm": true, "cp": true, "mv": true, "mkdir": true, "touch": true, "ls": true,
}

// printingBuiltins are shell-builtins whose return type is "prints
// value": their call expression is wrapped in a console print. echo and
// test are excluded: echo already prints as its own side effect, and
// test's result is a boolean used in conditions.
var printingBuiltins = map[string]bool{
	"pwd": true, "ls": true, "dirs": true, "which": true,
}

// fluentCommands selects the fluent-stream strategy.
var fluentCommands = map[string]bool{
	"cat": true, "grep": true, "sort": true, "uniq": true, "head": true,
	"tail": true, "cut": true, "tr": true, "wc": true, "tee": true,
}

// fluentProducers are fluent commands that stand at the head of a
// pipeline without needing a preceding ".stdout().lines()" projection:
// today only "cat" is a producer, the rest are transforms consumed via
// ".pipe(...)".
var fluentProducers = map[string]bool{
	"cat": true,
}

// specializedCommands selects the specialized strategy: a dedicated
// runtime wrapper of the same name.
var specializedCommands = map[string]bool{
	"git": true, "docker": true, "tmux": true,
}

// assignAffectingBuiltins mirrors syntax.assignBuiltins: command names
// whose inline "NAME=value" arguments carry declaration semantics.
var assignAffectingBuiltins = map[string]bool{
	"export": true, "readonly": true, "local": true, "declare": true,
	"typeset": true, "unset": true,
}

// fileTestOps is the subset of unary test operators lowered to
// filesystem queries.
var fileTestOps = map[string]string{
	"-e": "exists", "-f": "isFile", "-d": "isDir", "-L": "isSymlink", "-h": "isSymlink",
	"-b": "isBlockDevice", "-c": "isCharDevice", "-p": "isFIFO", "-S": "isSocket",
	"-r": "readable", "-w": "writable", "-x": "executable", "-s": "nonEmpty",
	"-g": "setgid", "-u": "setuid", "-k": "sticky", "-t": "isTTY",
	"-O": "isOwnedByUser", "-G": "isOwnedByGroup", "-N": "modifiedSinceRead",
}

// fileFileTestOps is the subset of binary test operators that compare two
// files rather than two strings.
var fileFileTestOps = map[string]string{
	"-nt": "newerThan", "-ot": "olderThan", "-ef": "sameFile",
}

// numericTestOps coerce both operands to numbers.
var numericTestOps = map[string]string{
	"-eq": "==", "-ne": "!=", "-lt": "<", "-le": "<=", "-gt": ">", "-ge": ">=",
}
