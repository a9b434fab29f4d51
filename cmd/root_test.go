package cmd

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/flatgrass/retouch/internal/domain"
	domainmocks "github.com/flatgrass/retouch/internal/domain/mocks"
	m "github.com/flatgrass/retouch/internal/model"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_AppliesByDefault(t *testing.T) {
	// Setup mocks
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	// Create a new root command for testing
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	// Override the global workflow
	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	// Set expectations
	mockWorkflow.On("Apply", mock.MatchedBy(func(args domain.ApplyArgs) bool {
		return args.Config == m.Path("retouch.toml") &&
			args.Reports == m.Path(".retouch-reports") &&
			len(args.Exclude) == 0
	})).Return(nil)

	// Execute command without any flags
	cmd.SetArgs([]string{})
	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	mockWorkflow.AssertExpectations(t)
}

func TestRootCmd_DryRunFlag(t *testing.T) {
	// Setup mocks
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	// Create a new root command for testing
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	// Override the global workflow
	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	// Set expectations: dry-run must route to Plan, never Apply
	mockWorkflow.On("Plan", mock.MatchedBy(func(args domain.PlanArgs) bool {
		return args.Config == m.Path("retouch.toml")
	})).Return(nil)

	// Execute command with --dry-run flag
	cmd.SetArgs([]string{"--dry-run"})
	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	mockWorkflow.AssertExpectations(t)
}

func TestRootCmd_ConfigFlag(t *testing.T) {
	// Setup mocks
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	// Create a new root command for testing
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	// Override the global workflow
	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	// Set expectations
	mockWorkflow.On("Apply", mock.MatchedBy(func(args domain.ApplyArgs) bool {
		return args.Config == m.Path("fixes/auth.toml")
	})).Return(nil)

	// Execute command with a custom patch set
	cmd.SetArgs([]string{"--config", "fixes/auth.toml"})
	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	mockWorkflow.AssertExpectations(t)
}

func TestRootCmd_WithExcludePatterns(t *testing.T) {
	// Setup mocks
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	// Create a new root command for testing
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	// Override the global workflow
	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	// Set expectations
	mockWorkflow.On("Apply", mock.MatchedBy(func(args domain.ApplyArgs) bool {
		return len(args.Exclude) == 2 &&
			args.Exclude[0] == "^generated_" &&
			args.Exclude[1] == "_gen\\.tsx$"
	})).Return(nil)

	// Execute command with repeated exclude flags
	cmd.SetArgs([]string{"-x", "^generated_", "-x", "_gen\\.tsx$"})
	err := cmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	mockWorkflow.AssertExpectations(t)
}

func TestRootCmd_PropagatesWorkflowError(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	errOut := &bytes.Buffer{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(errOut)

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()

	mockWorkflow.On("Apply", mock.Anything).Return(fmt.Errorf("2 file(s) failed"))

	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, errOut.String(), "2 file(s) failed")
}

func TestRootCmd_RejectsPositionalArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	cmd.SetArgs([]string{"./src"})
	err := cmd.Execute()
	require.Error(t, err)
}

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()
	if cmd.Use != "retouch" {
		t.Errorf("newRootCmd() Use = %v, want %v", cmd.Use, "retouch")
	}
	if cmd.Short == "" {
		t.Error("newRootCmd() Short should not be empty")
	}
	if cmd.Long == "" {
		t.Error("newRootCmd() Long should not be empty")
	}

	// Check flags
	configFlag := cmd.PersistentFlags().Lookup("config")
	if configFlag == nil {
		t.Error("newRootCmd() missing --config flag")
	}
	reportsFlag := cmd.PersistentFlags().Lookup("reports")
	if reportsFlag == nil {
		t.Error("newRootCmd() missing --reports flag")
	}
	dryRunFlag := cmd.Flags().Lookup("dry-run")
	if dryRunFlag == nil {
		t.Error("newRootCmd() missing --dry-run flag")
	}
	excludeFlag := cmd.Flags().Lookup("exclude")
	if excludeFlag == nil {
		t.Error("newRootCmd() missing --exclude flag")
	}
}

func TestInit(t *testing.T) {
	// Test that init() created all the necessary instances
	if ui == nil {
		t.Error("init() ui is nil")
	}
	if fileStore == nil {
		t.Error("init() fileStore is nil")
	}
	if reportStore == nil {
		t.Error("init() reportStore is nil")
	}
	if workflow == nil {
		t.Error("init() workflow is nil")
	}
}

func TestExecute(t *testing.T) {
	// Save original rootCmd
	originalRootCmd := rootCmd

	// Create a mock command that succeeds
	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// Execute should not panic or exit
	// We can't easily test os.Exit, but we can verify no error path
	Execute()

	// Restore
	rootCmd = originalRootCmd
}

func TestExecute_WithError(t *testing.T) {
	// Save original rootCmd
	originalRootCmd := rootCmd
	defer func() {
		rootCmd = originalRootCmd
	}()

	// Create a mock command that fails
	mockCmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("command failed")
		},
	}
	mockCmd.SetOut(&bytes.Buffer{})
	mockCmd.SetErr(&bytes.Buffer{})

	rootCmd = mockCmd

	// This will cause os.Exit(1) to be called, which we can't intercept
	// So we just verify the command itself errors
	err := rootCmd.Execute()
	if err == nil {
		t.Error("Expected command to return an error")
	}
}

func TestExecute_ProcessLevel_Success(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS") == "1" {
		// This runs in the subprocess
		// Mock successful command
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Println("success")
				return nil
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute()
		return
	}

	// Parent process: spawn subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Success")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS=1")
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("Process exited with error: %v, output: %s", err, output)
	}

	if !strings.Contains(string(output), "success") {
		t.Errorf("Expected 'success' in output, got: %s", output)
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() != 0 {
			t.Errorf("Expected exit code 0, got %d", exitErr.ExitCode())
		}
	}
}

func TestExecute_ProcessLevel_Failure(t *testing.T) {
	if os.Getenv("TEST_EXECUTE_SUBPROCESS_FAIL") == "1" {
		// This runs in the subprocess
		// Mock failing command
		originalRootCmd := rootCmd
		mockCmd := &cobra.Command{
			Use: "test",
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(os.Stderr, "error occurred")
				return fmt.Errorf("command failed")
			},
		}
		mockCmd.SetOut(os.Stdout)
		mockCmd.SetErr(os.Stderr)
		rootCmd = mockCmd
		defer func() { rootCmd = originalRootCmd }()

		Execute() // This should call os.Exit(1)
		return
	}

	// Parent process: spawn subprocess
	cmd := exec.Command(os.Args[0], "-test.run=TestExecute_ProcessLevel_Failure")
	cmd.Env = append(os.Environ(), "TEST_EXECUTE_SUBPROCESS_FAIL=1")
	output, err := cmd.CombinedOutput()

	if err == nil {
		t.Error("Expected process to exit with error")
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		if exitErr.ExitCode() != 1 {
			t.Errorf("Expected exit code 1, got %d", exitErr.ExitCode())
		}
	} else {
		t.Errorf("Expected exec.ExitError, got %T", err)
	}

	if !strings.Contains(string(output), "error occurred") {
		t.Logf("Output: %s", output)
	}
}
