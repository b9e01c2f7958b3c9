package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExecutablePath resolves the engine binary inside the install path,
// applying the platform suffix. The binary must exist on disk.
func (c *Client) ExecutablePath() (string, error) {
	exe := filepath.Join(c.installPath, c.plat.ExecutableName(engineFile))
	if _, err := os.Stat(exe); err != nil {
		return "", &ExecutableNotFoundError{InstallPath: c.installPath}
	}
	return exe, nil
}

// Execute spawns the engine with the built command string in workDir. The
// child inherits stdio; its exit code is returned untransformed. When no
// child ran, the exit code is -1 and the error explains why.
func (c *Client) Execute(ctx context.Context, command, workDir string) (int, error) {
	exe, err := c.ExecutablePath()
	if err != nil {
		return -1, err
	}
	if err := c.v.preExecute(ctx, workDir); err != nil {
		return -1, err
	}
	slog.Debug("Executing Bridge CLI", "executable", exe, "command", command)

	cmd := exec.CommandContext(ctx, exe, strings.Fields(command)...)
	cmd.Dir = workDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	runErr := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if runErr != nil {
		return -1, fmt.Errorf("running Bridge CLI: %w", runErr)
	}
	return 0, nil
}

// runTool runs an auxiliary engine invocation with inherited stdio.
func runTool(ctx context.Context, exe string, args ...string) (int, error) {
	return runToolInDir(ctx, exe, "", args...)
}

func runToolInDir(ctx context.Context, exe, dir string, args ...string) (int, error) {
	if _, err := os.Stat(exe); err != nil {
		return -1, &ExecutableNotFoundError{InstallPath: filepath.Dir(exe)}
	}
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("running %s: %w", exe, err)
	}
	return 0, nil
}
