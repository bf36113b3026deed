// Package launcher runs the external programs items hand off to: detached
// applications for desktop entries and short-lived helpers like swaymsg.
package launcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oakwood-commons/ilia/pkg/logger"
)

// ErrEmptyCommand is returned for a command without a program.
var ErrEmptyCommand = errors.New("empty command")

// Command is a program invocation.
type Command struct {
	Argv []string
	// Dir is the working directory. Empty keeps the launcher's.
	Dir string
}

func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Starter starts a program without waiting for it.
type Starter interface {
	Start(ctx context.Context, cmd Command) error
}

// Runner runs a program to completion and returns its stdout.
type Runner interface {
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// Exec implements Starter and Runner with os/exec.
type Exec struct{}

var _ interface {
	Starter
	Runner
} = Exec{}

// Start spawns cmd in its own session so it outlives the launcher. It
// returns once the process exists.
func (Exec) Start(ctx context.Context, cmd Command) error {
	if len(cmd.Argv) == 0 {
		return ErrEmptyCommand
	}
	path, err := exec.LookPath(cmd.Argv[0])
	if err != nil {
		return fmt.Errorf("find %s: %w", cmd.Argv[0], err)
	}
	// Not CommandContext: cancelling ctx must not kill the launched program.
	c := exec.Command(path, cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	detach(c)
	if err := c.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Argv[0], err)
	}
	logger.FromContext(ctx).V(1).Info("started process", "command", cmd.String(), "pid", c.Process.Pid)
	return c.Process.Release()
}

// Output runs cmd and returns its stdout. A non-zero exit is reported with
// the program's stderr.
func (Exec) Output(ctx context.Context, cmd Command) ([]byte, error) {
	if len(cmd.Argv) == 0 {
		return nil, ErrEmptyCommand
	}
	var stderr bytes.Buffer
	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	c.Stderr = &stderr
	out, err := c.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", cmd.Argv[0], err, msg)
		}
		return out, fmt.Errorf("%s: %w", cmd.Argv[0], err)
	}
	return out, nil
}
