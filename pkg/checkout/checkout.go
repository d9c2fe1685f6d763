// Package checkout keeps a git working tree in sync with one remote branch.
package checkout

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/pkg/utils"
)

type State string

const (
	StateAbsent  State = "absent"
	StatePresent State = "present"
)

// Runner executes command in dir. Callers pass a runner that carries the
// identity of the tree owner, so git never acts on a tree owned by someone else.
type Runner func(ctx context.Context, dir string, command string, args ...string) error

type Options struct {
	RepoURL string
	Branch  string
	Dir     string
}

type NotFastForwardError struct {
	Branch string
	Err    error
}

func (e *NotFastForwardError) Error() string {
	return fmt.Sprintf("local branch %s cannot be fast-forwarded to origin/%s: %s", e.Branch, e.Branch, e.Err)
}

func (e *NotFastForwardError) Unwrap() error {
	return e.Err
}

func Detect(dir string) State {
	if utils.IsFileExists(filepath.Join(dir, ".git")) {
		return StatePresent
	}

	return StateAbsent
}

// Sync clones the branch when dir holds no checkout, otherwise fetches it
// and fast-forwards. It returns the state found before syncing.
func Sync(ctx context.Context, run Runner, opts Options) (State, error) {
	state := Detect(opts.Dir)

	switch state {
	case StatePresent:
		return state, update(ctx, run, opts)
	default:
		err := run(ctx, opts.Dir, "git", "clone", "--branch", opts.Branch, opts.RepoURL, opts.Dir)
		if err != nil {
			return state, errors.WithMessage(err, "failed to clone repository")
		}

		return state, nil
	}
}

func update(ctx context.Context, run Runner, opts Options) error {
	git := func(args ...string) error {
		return run(ctx, opts.Dir, "git", args...)
	}

	if err := git("fetch", "origin", opts.Branch); err != nil {
		return errors.WithMessage(err, "failed to fetch")
	}

	if err := git("checkout", opts.Branch); err != nil {
		return errors.WithMessagef(err, "failed to checkout %s", opts.Branch)
	}

	if err := git("pull", "--ff-only", "origin", opts.Branch); err != nil {
		return &NotFastForwardError{Branch: opts.Branch, Err: err}
	}

	return nil
}
