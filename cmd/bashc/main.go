// bashc transpiles Bash scripts into host-language source that drives
// the companion runtime shell API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// envConfig holds the environment-variable overrides for CLI defaults.
// It is loaded before flags are parsed, so flags always win over the
// environment, which always wins over the defaults in the struct tags.
type envConfig struct {
	Indent   int    `envconfig:"BASHC_INDENT" default:"2"`
	Target   string `envconfig:"BASHC_TARGET" default:"./runtime"`
	LogLevel string `envconfig:"BASHC_LOG_LEVEL" default:"warn"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var cfg envConfig
	if err := envconfig.Process("bashc", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "bashc: reading environment config:", err)
		return 1
	}

	useColor := detectColor()

	app := kingpin.New("bashc", "Transpile Bash scripts to host-language source.")
	app.Version("bashc 0.1.0")
	logLevelFlag := app.Flag("log-level", "operational log level: debug, info, warn, error").
		Default(cfg.LogLevel).Enum("debug", "info", "warn", "error")

	transpileCmd := app.Command("transpile", "Compile a Bash script (the primary command).")
	transpileFiles := transpileCmd.Arg("file", "script or directory to compile").Required().Strings()
	transpileOut := transpileCmd.Flag("output", "output path (single-file input only)").Short('o').String()
	transpileTarget := transpileCmd.Flag("target", "runtime module specifier").Default(cfg.Target).String()
	transpilePosix := transpileCmd.Flag("posix", "set the Strict compile option (it does not change the output)").Bool()
	transpileJSON := transpileCmd.Flag("json", "emit a JSON document instead of host-language source").Bool()
	transpileIndent := transpileCmd.Flag("indent", "spaces per indent level").Default(fmt.Sprint(cfg.Indent)).Int()

	checkCmd := app.Command("check", "Parse with recovery and report diagnostics; emit nothing.")
	checkFiles := checkCmd.Arg("file", "script or directory to check").Required().Strings()
	checkJSON := checkCmd.Flag("json", "emit diagnostics as JSON").Bool()

	fmtCmd := app.Command("fmt", "Round-trip a script through the syntax package (diagnostic use only).")
	fmtFiles := fmtCmd.Arg("file", "script to round-trip").Required().Strings()
	fmtIndent := fmtCmd.Flag("indent", "spaces per indent level (0 for tabs)").Int()
	fmtDiff := fmtCmd.Flag("diff", "print a unified diff against the original instead of the round-tripped text").Short('d').Bool()

	cmd, err := app.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bashc:", err)
		return 1
	}

	logger := slog.New(newTextHandler(os.Stderr, logLevelForName(*logLevelFlag), useColor))
	slog.SetDefault(logger)

	ctx := context.Background()
	switch cmd {
	case transpileCmd.FullCommand():
		return runTranspile(ctx, transpileOpts{
			paths:   *transpileFiles,
			out:     *transpileOut,
			target:  *transpileTarget,
			posix:   *transpilePosix,
			asJSON:  *transpileJSON,
			indent:  *transpileIndent,
			color:   useColor,
		})
	case checkCmd.FullCommand():
		return runCheck(ctx, *checkFiles, *checkJSON, useColor)
	case fmtCmd.FullCommand():
		return runFmt(ctx, *fmtFiles, *fmtIndent, *fmtDiff)
	}
	return 1
}

func detectColor() bool {
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func logLevelForName(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
