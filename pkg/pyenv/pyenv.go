package pyenv

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/pkg/utils"
)

const (
	DefaultVenvDir      = "venv"
	RequirementsFile    = "requirements.txt"
	venvMarkerFile      = "pyvenv.cfg"
	venvInterpreterPath = "bin/python"
)

// Runner executes command in dir under the identity of the service user.
type Runner func(ctx context.Context, dir string, command string, args ...string) error

type Options struct {
	PythonBin        string
	AppDir           string
	FallbackPackages []string
}

type Result struct {
	Created      bool
	FromManifest bool
}

func VenvDir(appDir string) string {
	return filepath.Join(appDir, DefaultVenvDir)
}

// Interpreter is the python binary inside the venv of appDir.
func Interpreter(appDir string) string {
	return filepath.Join(VenvDir(appDir), venvInterpreterPath)
}

func Exists(appDir string) bool {
	return utils.IsFileExists(filepath.Join(VenvDir(appDir), venvMarkerFile))
}

// Provision creates the venv when it is missing, upgrades pip and installs
// requirements.txt or, without one, the fallback packages.
func Provision(ctx context.Context, run Runner, opts Options) (Result, error) {
	result := Result{}

	if !Exists(opts.AppDir) {
		err := run(ctx, opts.AppDir, opts.PythonBin, "-m", "venv", VenvDir(opts.AppDir))
		if err != nil {
			return result, errors.WithMessage(err, "failed to create virtual environment")
		}
		result.Created = true
	}

	python := Interpreter(opts.AppDir)

	err := run(ctx, opts.AppDir, python, "-m", "pip", "install", "--upgrade", "pip")
	if err != nil {
		return result, errors.WithMessage(err, "failed to upgrade pip")
	}

	requirements := filepath.Join(opts.AppDir, RequirementsFile)
	if utils.IsFileExists(requirements) {
		result.FromManifest = true

		err = run(ctx, opts.AppDir, python, "-m", "pip", "install", "-r", requirements)
		if err != nil {
			return result, errors.WithMessage(err, "failed to install requirements")
		}

		return result, nil
	}

	if len(opts.FallbackPackages) == 0 {
		return result, nil
	}

	args := append([]string{"-m", "pip", "install"}, opts.FallbackPackages...)
	if err = run(ctx, opts.AppDir, python, args...); err != nil {
		return result, errors.WithMessage(err, "failed to install fallback packages")
	}

	return result, nil
}
