// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/eectl/eectl/internal/log"
)

// Runner executes one container engine command and returns its stdout.
type Runner interface {
	Binary() string
	Run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error)
}

// lookPath resolves engine binaries. Tests replace it.
var lookPath = exec.LookPath

// DetectBinary returns the preferred container engine on PATH. An explicit
// name is checked as given; otherwise podman is preferred over docker.
func DetectBinary(preferred string) (string, error) {
	candidates := []string{"podman", "docker"}
	if preferred != "" {
		candidates = []string{preferred}
	}
	for _, c := range candidates {
		if _, err := lookPath(c); err == nil {
			return c, nil
		}
	}
	return "", fmt.Errorf("no container engine found (%s)", strings.Join(candidates, " or "))
}

// ExecRunner runs the engine binary as a child process.
type ExecRunner struct {
	binary string
}

// NewExecRunner returns a runner for binary, detecting one when empty.
func NewExecRunner(binary string) (*ExecRunner, error) {
	b, err := DetectBinary(binary)
	if err != nil {
		return nil, err
	}
	return &ExecRunner{binary: b}, nil
}

// Binary returns the engine binary name.
func (r *ExecRunner) Binary() string { return r.binary }

// Run executes the engine. Stderr is attached to the returned error.
func (r *ExecRunner) Run(ctx context.Context, stdin io.Reader, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	cmd.Stdin = stdin
	return runCommand(cmd)
}

// runCommand executes cmd and returns stdout.
func runCommand(cmd *exec.Cmd) ([]byte, error) {
	log.Debugf("running: %s", redact(cmd.Args))

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stderr.Len() == 0 {
			stderr.Write(exitErr.Stderr)
		}
		return output, fmt.Errorf("%s %s failed: %w: %s", cmd.Args[0], firstArg(cmd.Args), err, strings.TrimSpace(stderr.String()))
	}

	log.Tracef("output (%d bytes)", len(output))
	return output, nil
}

func firstArg(args []string) string {
	if len(args) < 2 {
		return ""
	}
	return args[1]
}

// redact hides the value following a --password flag.
func redact(args []string) string {
	out := make([]string, len(args))
	copy(out, args)
	for i := range out {
		if out[i] == "--password" && i+1 < len(out) {
			out[i+1] = "****"
		}
	}
	return strings.Join(out, " ")
}
