package oscore

import (
	"bytes"
	"context"
	"log"
	"os"
	"os/exec"

	"github.com/pkg/errors"
)

func ExecCommand(ctx context.Context, command string, args ...string) error {
	return ExecCommandInDir(ctx, "", command, args...)
}

func ExecCommandInDir(ctx context.Context, dir string, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir

	cmd.Stdout = log.Writer()
	cmd.Stderr = log.Writer()
	log.Println('\n', cmd.String())

	return cmd.Run()
}

// ExecCommandWithEnv runs command with extra environment variables appended
// to the current process environment.
func ExecCommandWithEnv(ctx context.Context, env []string, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Env = append(os.Environ(), env...)

	cmd.Stdout = log.Writer()
	cmd.Stderr = log.Writer()
	log.Println('\n', cmd.String())

	return cmd.Run()
}

func ExecCommandWithOutput(ctx context.Context, command string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, command, args...)

	buf := &bytes.Buffer{}
	buf.Grow(1024) //nolint:mnd
	cmd.Stdout = buf
	cmd.Stderr = buf
	log.Println('\n', cmd.String())
	err := cmd.Run()
	log.Print(buf.String())
	if err != nil {
		return "", errors.Wrapf(err, "failed to run command %s", command)
	}

	return buf.String(), nil
}

// ExecCommandInteractive attaches the command to the terminal of the current
// process. Used for commands whose output is meant for the operator.
func ExecCommandInteractive(ctx context.Context, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Println('\n', cmd.String())

	return cmd.Run()
}
