package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/alnah/go-inkfit/internal/profiles"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Engine   engineInfo `json:"engine"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Profiles []string   `json:"profiles,omitempty"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// engineInfo holds grayscale engine detection results.
type engineInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	EngineBin     string `json:"inkfit_gs"`
	ProfileDir    string `json:"inkfit_profile_dir"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(ctx, env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(ctx context.Context, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			EngineBin:  os.Getenv("INKFIT_GS"),
			ProfileDir: os.Getenv("INKFIT_PROFILE_DIR"),
		},
	}

	checkEngine(ctx, result, env)
	checkEnvironment(result)
	checkProfiles(result, env)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkEngine probes for the grayscale engine. A missing engine is a
// warning, not an error: the raster pipeline still works without it.
func checkEngine(ctx context.Context, result *doctorResult, env *Environment) {
	status := env.NewService().ProbeEngine(ctx)
	if !status.Available {
		if result.Env.EngineBin != "" {
			result.Errors = append(result.Errors,
				fmt.Sprintf("INKFIT_GS points at %s but no engine runs there", result.Env.EngineBin))
			return
		}
		result.Warnings = append(result.Warnings,
			"Ghostscript not found; documents will use the raster pipeline. Install ghostscript or set INKFIT_GS")
		return
	}

	result.Engine.Found = true
	result.Engine.Path = status.Path
	result.Engine.Version = status.Version
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer()

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer() (bool, string) {
	// Explicit override (highest priority)
	if os.Getenv("INKFIT_CONTAINER") == "1" {
		return true, "INKFIT_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkProfiles lists the available device profiles and verifies the
// custom profile directory actually contributed when one is configured.
func checkProfiles(result *doctorResult, env *Environment) {
	names, err := env.Profiles.List()
	if err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not list device profiles: %v", err))
		return
	}
	result.Profiles = names

	if result.Env.ProfileDir == "" {
		return
	}
	if r, ok := env.Profiles.(*profiles.Resolver); ok && !r.HasCustomLoader() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("INKFIT_PROFILE_DIR=%s is set but unusable; using embedded profiles only", result.Env.ProfileDir))
	}
}

// checkSystem verifies system requirements.
func checkSystem(result *doctorResult) {
	// Check temp directory is writable; both pipelines stage files there
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "inkfit-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "inkfit doctor")
	fmt.Fprintln(w)

	// Engine section
	fmt.Fprintln(w, "Grayscale engine")
	if r.Engine.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Engine.Path)
		if r.Engine.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Engine.Version)
		}
	} else {
		fmt.Fprintln(w, "  [WARN] Not found (raster pipeline only)")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// Profiles section
	if len(r.Profiles) > 0 {
		fmt.Fprintln(w, "Device profiles")
		fmt.Fprintf(w, "  [OK] Available: %d\n", len(r.Profiles))
		fmt.Fprintln(w)
	}

	// System section
	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to optimize")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
