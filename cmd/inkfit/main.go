package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	configureMaxProcs(os.Args[1:])

	ctx, stop := notifyContext(context.Background())
	defer stop()

	env := DefaultEnv()
	os.Exit(run(ctx, os.Args[1:], env))
}

// configureMaxProcs aligns GOMAXPROCS with container CPU quotas.
// Error ignored: maxprocs.Set only fails if the GOMAXPROCS env var is
// invalid, in which case Go runtime defaults apply and the program
// continues safely.
func configureMaxProcs(args []string) {
	if hasVerboseFlag(args) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}))
		return
	}
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))
}

// hasVerboseFlag scans args without parsing them; flags are command-specific
// and GOMAXPROCS must be set before any command runs.
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			return true
		}
	}
	return false
}

// run dispatches to the requested command and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "optimize":
		return runOptimizeCmd(ctx, args[1:], env)
	case "profiles":
		if err := runProfilesCmd(env); err != nil {
			fmt.Fprintf(env.Stderr, "inkfit: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "config":
		return runConfigCmd(args[1:], env)
	case "doctor":
		return runDoctorCmd(ctx, args[1:], env)
	case "completion":
		if err := runCompletion(args[1:], env); err != nil {
			fmt.Fprintf(env.Stderr, "inkfit: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "inkfit %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		runHelp(args[1:], env)
		return ExitSuccess
	default:
		if looksLikeCommandTypo(args[0]) {
			fmt.Fprintf(env.Stderr, "inkfit: unknown command %q (see 'inkfit help')\n", args[0])
			return ExitUsage
		}
		// Bare 'inkfit doc.pdf' optimizes with defaults.
		return runOptimizeCmd(ctx, args, env)
	}
}

// runOptimizeCmd parses optimize flags and runs the optimization, translating
// errors into exit codes and hints.
func runOptimizeCmd(ctx context.Context, args []string, env *Environment) int {
	flags, positional, err := parseOptimizeFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "inkfit: %v\n", err)
		return ExitUsage
	}

	if err := runOptimize(ctx, positional, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "inkfit: %v%s\n", err, hintFor(err, flags.common.config, env.Profiles))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// looksLikeCommandTypo reports whether the first argument reads like a
// misspelled command rather than a path to optimize. Anything with path
// separators, an extension, or an existing file behind it is treated as
// input.
func looksLikeCommandTypo(arg string) bool {
	if strings.HasPrefix(arg, "-") {
		return false
	}
	if strings.ContainsAny(arg, `/\.`) {
		return false
	}
	if _, err := os.Stat(arg); err == nil {
		return false
	}
	return true
}
