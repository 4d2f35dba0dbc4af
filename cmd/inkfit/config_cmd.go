package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-inkfit/internal/yamlutil"
)

// runConfigCmd prints the effective configuration after the device profile,
// config file, environment variables, and flags are merged. It accepts the
// same flags as optimize so a run can be previewed exactly. Returns the
// process exit code.
func runConfigCmd(args []string, env *Environment) int {
	flags, _, err := parseOptimizeFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "inkfit: %v\n", err)
		return ExitUsage
	}

	cfg, profileName, err := resolveConfig(flags, env)
	if err != nil {
		fmt.Fprintf(env.Stderr, "inkfit: %v%s\n", err, hintFor(err, flags.common.config, env.Profiles))
		return exitCodeFor(err)
	}
	cfg.Profile = profileName

	out, err := yamlutil.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(env.Stderr, "inkfit: rendering config: %v\n", err)
		return ExitGeneral
	}

	if _, err := env.Stdout.Write(out); err != nil {
		fmt.Fprintf(env.Stderr, "inkfit: %v\n", err)
		return ExitIO
	}
	return ExitSuccess
}
