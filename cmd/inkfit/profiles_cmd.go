package main

import (
	"fmt"

	"github.com/alnah/go-inkfit/internal/profiles"
)

// runProfilesCmd lists the available device profiles.
func runProfilesCmd(env *Environment) error {
	names, err := env.Profiles.List()
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}

	fmt.Fprintln(env.Stdout, "Available device profiles:")
	fmt.Fprintln(env.Stdout)

	width := 0
	for _, name := range names {
		if len(name) > width {
			width = len(name)
		}
	}

	for _, name := range names {
		desc := profiles.Describe(name)
		if desc == "" {
			desc = describeLoaded(name, env.Profiles)
		}
		fmt.Fprintf(env.Stdout, "  %-*s  %s\n", width, name, desc)
	}

	fmt.Fprintln(env.Stdout)
	fmt.Fprintln(env.Stdout, "Select one with --profile or the INKFIT_PROFILE environment variable.")
	return nil
}

// describeLoaded synthesizes a summary for a profile without a built-in
// description, i.e. one supplied via INKFIT_PROFILE_DIR.
func describeLoaded(name string, loader profiles.Loader) string {
	cfg, err := loader.Load(name)
	if err != nil {
		return fmt.Sprintf("(unreadable: %v)", err)
	}
	switch {
	case cfg.Page.Size == "custom" && cfg.Page.WidthPt > 0 && cfg.Page.HeightPt > 0:
		return fmt.Sprintf("custom profile, %gx%g pt", cfg.Page.WidthPt, cfg.Page.HeightPt)
	case cfg.Page.Size != "":
		return fmt.Sprintf("custom profile, %s page", cfg.Page.Size)
	default:
		return "custom profile"
	}
}
