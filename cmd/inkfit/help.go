package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkfit <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  optimize    Optimize PDFs for black-and-white reading devices")
	fmt.Fprintln(w, "  profiles    List available device profiles")
	fmt.Fprintln(w, "  config      Show the effective configuration")
	fmt.Fprintln(w, "  doctor      Check engine availability and environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Running 'inkfit <file.pdf>' is shorthand for 'inkfit optimize <file.pdf>'.")
	fmt.Fprintln(w, "Run 'inkfit help <command>' for details on a specific command.")
}

// printOptimizeUsage prints usage for the optimize command.
func printOptimizeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkfit optimize <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Optimize PDF files for black-and-white reading devices.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    PDF file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>        Output file or directory")
	fmt.Fprintln(w, "      --suffix <s>           Output filename suffix (default: _<profile>)")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -p, --profile <name>       Device profile (see 'inkfit profiles')")
	fmt.Fprintln(w, "  -w, --workers <n>          Parallel documents (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --page-size <s>        Page size: scribe, a5, source, custom")
	fmt.Fprintln(w, "      --page-width <f>       Custom page width in points")
	fmt.Fprintln(w, "      --page-height <f>      Custom page height in points")
	fmt.Fprintln(w, "      --margin <f>           Uniform margin in points")
	fmt.Fprintln(w, "      --margins <t,r,b,l>    Per-side margins in points")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tone:")
	fmt.Fprintln(w, "      --auto-contrast        Stretch the tonal range (--no-auto-contrast to disable)")
	fmt.Fprintln(w, "      --contrast-cutoff <n>  Percent of histogram tails to clip (0-49)")
	fmt.Fprintln(w, "      --bilevel              Pure black and white output (--no-bilevel to disable)")
	fmt.Fprintln(w, "      --dither               Floyd-Steinberg with --bilevel (--no-dither to disable)")
	fmt.Fprintln(w, "      --sharpen              Sharpen after resizing (--no-sharpen to disable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Crop:")
	fmt.Fprintln(w, "      --crop                 Trim near-white borders (--no-crop to disable)")
	fmt.Fprintln(w, "      --crop-threshold <n>   Background gray level (1-255)")
	fmt.Fprintln(w, "      --crop-pad <f>         Padding around detected content in points")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fit:")
	fmt.Fprintln(w, "      --fit <s>              Fit mode: contain, fit-width, fit-height, stretch")
	fmt.Fprintln(w, "      --rotate-landscape     Rotate landscape pages to portrait")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Engine:")
	fmt.Fprintln(w, "      --engine <s>           Engine mode: auto, vector, raster")
	fmt.Fprintln(w, "      --quality <s>          Downsampling: screen, ebook, printer, prepress, default")
	fmt.Fprintln(w, "      --dpi <n>              Raster render resolution (36-1200)")
	fmt.Fprintln(w, "  -t, --timeout <d>          Per-document time budget (e.g., 90s, 5m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Show pipeline, page count, and timing")
}

// printProfilesUsage prints usage for the profiles command.
func printProfilesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkfit profiles")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List available device profiles with their page geometry.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Custom profiles are YAML files read from the directory named by")
	fmt.Fprintln(w, "INKFIT_PROFILE_DIR; they shadow embedded profiles with the same name.")
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkfit config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Show the effective configuration after merging the device profile,")
	fmt.Fprintln(w, "config file, environment variables, and flags. Accepts the same")
	fmt.Fprintln(w, "flags as optimize.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: inkfit doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check the grayscale engine, device profiles, and environment.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  --json    Output results as JSON")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "optimize":
		printOptimizeUsage(env.Stdout)
	case "profiles":
		printProfilesUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: inkfit version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: inkfit help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
