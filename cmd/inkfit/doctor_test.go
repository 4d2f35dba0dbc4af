package main

// Notes:
// - Tests use black-box approach: testing through runDoctorCmd() observable outputs
// - Container detection tests modify environment variables, cannot use t.Parallel()
// - Engine probing is injected through Environment.NewService, so tests never
//   depend on a Ghostscript install
// - Internal functions (isContainer, checkSystem) are not tested directly
//   as they are implementation details; behavior is verified through command output

import (
	"context"
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"testing"

	inkfit "github.com/alnah/go-inkfit"
)

// doctorEnv builds a test environment whose engine probe reports the given
// status.
func doctorEnv(status inkfit.EngineStatus) (*Environment, *mockOptimizer) {
	mock := newMockOptimizer()
	mock.probeStatus = status
	env, _, _ := newTestEnv(mock)
	return env, mock
}

func decodeDoctorJSON(t *testing.T, env *Environment) *doctorResult {
	t.Helper()
	buf, ok := env.Stdout.(interface{ String() string })
	if !ok {
		t.Fatal("test environment stdout is not a buffer")
	}
	var result doctorResult
	if err := json.Unmarshal([]byte(buf.String()), &result); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput was: %s", err, buf.String())
	}
	return &result
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - Verifies JSON output format and structure
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	t.Parallel()

	env, _ := doctorEnv(inkfit.EngineStatus{
		Available: true,
		Path:      "/usr/bin/gs",
		Version:   "10.03.1",
	})

	exitCode := runDoctorCmd(context.Background(), []string{"--json"}, env)
	result := decodeDoctorJSON(t, env)

	// Verify required fields are present
	if result.Env.OS == "" {
		t.Error("JSON should contain OS")
	}
	if result.Env.Arch == "" {
		t.Error("JSON should contain Arch")
	}
	if result.Status == "" {
		t.Error("JSON should contain status")
	}

	// Status must be one of the valid values
	validStatuses := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !validStatuses[result.Status] {
		t.Errorf("Invalid status %q, expected ready/warnings/errors", result.Status)
	}

	// Exit code should be consistent with status
	if result.Status == "errors" && exitCode != ExitGeneral {
		t.Errorf("Expected exit code %d for errors status, got %d", ExitGeneral, exitCode)
	}
	if result.Status != "errors" && exitCode != ExitSuccess {
		t.Errorf("Expected exit code %d for non-error status, got %d", ExitSuccess, exitCode)
	}

	// Platform should match runtime
	if result.Env.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", result.Env.OS, runtime.GOOS)
	}
	if result.Env.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", result.Env.Arch, runtime.GOARCH)
	}

	// Engine details from the probe
	if !result.Engine.Found {
		t.Error("Engine.Found should be true")
	}
	if result.Engine.Path != "/usr/bin/gs" {
		t.Errorf("Engine.Path = %q, want /usr/bin/gs", result.Engine.Path)
	}
	if result.Engine.Version != "10.03.1" {
		t.Errorf("Engine.Version = %q, want 10.03.1", result.Engine.Version)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Verifies human-readable output format
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	t.Parallel()

	mock := newMockOptimizer()
	mock.probeStatus = inkfit.EngineStatus{Available: true, Path: "/usr/bin/gs"}
	env, stdout, _ := newTestEnv(mock)

	runDoctorCmd(context.Background(), []string{}, env)

	output := stdout.String()

	// Should contain required section headers
	requiredSections := []string{
		"inkfit doctor",
		"Grayscale engine",
		"Environment",
		"Device profiles",
		"System",
		"Status:",
	}
	for _, section := range requiredSections {
		if !strings.Contains(output, section) {
			t.Errorf("Output should contain section %q", section)
		}
	}

	// Should contain platform info
	platformStr := runtime.GOOS + "/" + runtime.GOARCH
	if !strings.Contains(output, platformStr) {
		t.Errorf("Output should contain platform %q", platformStr)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_MissingEngine - A missing engine warns, never errors
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_MissingEngineIsWarning(t *testing.T) {
	// NO t.Parallel() - depends on INKFIT_GS being unset
	t.Setenv("INKFIT_GS", "")

	env, _ := doctorEnv(inkfit.EngineStatus{Available: false})

	exitCode := runDoctorCmd(context.Background(), []string{"--json"}, env)
	result := decodeDoctorJSON(t, env)

	if exitCode != ExitSuccess {
		t.Errorf("exit code = %d, want %d (missing engine is not fatal)", exitCode, ExitSuccess)
	}
	if result.Status != "warnings" {
		t.Errorf("Status = %q, want warnings", result.Status)
	}

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "raster pipeline") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want raster pipeline notice", result.Warnings)
	}
}

func TestRunDoctorCmd_BrokenEngineOverrideIsError(t *testing.T) {
	// NO t.Parallel() - modifies environment variables
	t.Setenv("INKFIT_GS", "/nonexistent/gs")

	env, _ := doctorEnv(inkfit.EngineStatus{Available: false})

	exitCode := runDoctorCmd(context.Background(), []string{"--json"}, env)
	result := decodeDoctorJSON(t, env)

	if exitCode != ExitGeneral {
		t.Errorf("exit code = %d, want %d", exitCode, ExitGeneral)
	}
	if result.Status != "errors" {
		t.Errorf("Status = %q, want errors", result.Status)
	}

	found := false
	for _, e := range result.Errors {
		if strings.Contains(e, "INKFIT_GS") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Errors = %v, want INKFIT_GS pointer", result.Errors)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_ContainerDetection - Verifies container environment detection
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ContainerDetection(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	tests := []struct {
		name          string
		envVar        string
		envVal        string
		wantContainer bool
		wantHint      string
	}{
		{
			name:          "explicit INKFIT_CONTAINER override",
			envVar:        "INKFIT_CONTAINER",
			envVal:        "1",
			wantContainer: true,
			wantHint:      "INKFIT_CONTAINER=1",
		},
		{
			name:          "kubernetes environment",
			envVar:        "KUBERNETES_SERVICE_HOST",
			envVal:        "10.0.0.1",
			wantContainer: true,
			wantHint:      "KUBERNETES_SERVICE_HOST",
		},
		{
			name:          "podman container",
			envVar:        "container",
			envVal:        "podman",
			wantContainer: true,
			wantHint:      "container=podman",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVar != "INKFIT_CONTAINER" {
				// /.dockerenv outranks these signals, so the hint would
				// differ when the tests themselves run in Docker.
				if _, err := os.Stat("/.dockerenv"); err == nil {
					t.Skip("running in Docker")
				}
			}
			cleanContainerEnv(t)
			t.Setenv(tt.envVar, tt.envVal)

			env, _ := doctorEnv(inkfit.EngineStatus{Available: true, Path: "/usr/bin/gs"})

			runDoctorCmd(context.Background(), []string{"--json"}, env)
			result := decodeDoctorJSON(t, env)

			if result.Env.Container != tt.wantContainer {
				t.Errorf("Container = %v, want %v", result.Env.Container, tt.wantContainer)
			}
			if result.Env.ContainerHint != tt.wantHint {
				t.Errorf("ContainerHint = %q, want %q", result.Env.ContainerHint, tt.wantHint)
			}
		})
	}
}

func TestRunDoctorCmd_ContainerPriority(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	cleanContainerEnv(t)

	// Set multiple container signals
	t.Setenv("INKFIT_CONTAINER", "1")
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")

	env, _ := doctorEnv(inkfit.EngineStatus{Available: true, Path: "/usr/bin/gs"})

	runDoctorCmd(context.Background(), []string{"--json"}, env)
	result := decodeDoctorJSON(t, env)

	// INKFIT_CONTAINER should have highest priority
	if result.Env.ContainerHint != "INKFIT_CONTAINER=1" {
		t.Errorf("INKFIT_CONTAINER should have priority, got hint %q", result.Env.ContainerHint)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_CIDetection - Verifies CI environment detection
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_CIDetection(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	tests := []struct {
		name   string
		envVar string
		envVal string
	}{
		{"CI generic", "CI", "true"},
		{"GitHub Actions", "GITHUB_ACTIONS", "true"},
		{"GitLab CI", "GITLAB_CI", "true"},
		{"Jenkins", "JENKINS_URL", "http://jenkins.local"},
		{"CircleCI", "CIRCLECI", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanCIEnv(t)
			t.Setenv(tt.envVar, tt.envVal)

			env, _ := doctorEnv(inkfit.EngineStatus{Available: true, Path: "/usr/bin/gs"})

			runDoctorCmd(context.Background(), []string{"--json"}, env)
			result := decodeDoctorJSON(t, env)

			if !result.Env.CI {
				t.Errorf("CI = false with %s set, want true", tt.envVar)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_Profiles - Verifies profile listing
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ListsProfiles(t *testing.T) {
	t.Parallel()

	env, _ := doctorEnv(inkfit.EngineStatus{Available: true, Path: "/usr/bin/gs"})

	runDoctorCmd(context.Background(), []string{"--json"}, env)
	result := decodeDoctorJSON(t, env)

	if len(result.Profiles) == 0 {
		t.Fatal("Profiles should list the embedded profiles")
	}
	found := false
	for _, name := range result.Profiles {
		if name == "scribe" {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Profiles = %v, want scribe included", result.Profiles)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_TempDirCheck - Verifies temp directory check
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_TempDirWritable(t *testing.T) {
	t.Parallel()

	env, _ := doctorEnv(inkfit.EngineStatus{Available: true, Path: "/usr/bin/gs"})

	runDoctorCmd(context.Background(), []string{"--json"}, env)
	result := decodeDoctorJSON(t, env)

	// In normal conditions, temp dir should be writable
	if !result.System.TempWritable {
		t.Error("Temp directory should be writable in normal conditions")
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_EnvironmentVariables - Verifies env var reporting
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ReportsEngineBin(t *testing.T) {
	// NO t.Parallel() - modifies environment variables

	testPath := "/custom/gs/path"
	t.Setenv("INKFIT_GS", testPath)

	// Probe succeeds, so the override is reported without an error.
	env, _ := doctorEnv(inkfit.EngineStatus{Available: true, Path: testPath})

	runDoctorCmd(context.Background(), []string{"--json"}, env)
	result := decodeDoctorJSON(t, env)

	if result.Env.EngineBin != testPath {
		t.Errorf("EngineBin = %q, want %q", result.Env.EngineBin, testPath)
	}
}

// cleanContainerEnv clears every container signal the detector looks at.
func cleanContainerEnv(t *testing.T) {
	t.Helper()
	t.Setenv("INKFIT_CONTAINER", "")
	t.Setenv("container", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "")
}

// cleanCIEnv clears every CI signal the detector looks at.
func cleanCIEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		t.Setenv(v, "")
	}
}
