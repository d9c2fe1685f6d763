package pyenv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	lines  []string
	failOn string
}

func (f *fakeRunner) run(_ context.Context, _ string, command string, args ...string) error {
	line := command + " " + strings.Join(args, " ")
	f.lines = append(f.lines, line)

	if f.failOn != "" && strings.Contains(line, f.failOn) {
		return errors.New("exit status 1")
	}

	return nil
}

func TestProvision_freshWithoutManifest(t *testing.T) {
	appDir := t.TempDir()
	r := &fakeRunner{}

	result, err := Provision(context.Background(), r.run, Options{
		PythonBin:        "python3",
		AppDir:           appDir,
		FallbackPackages: []string{"aiogram", "python-dotenv"},
	})

	require.NoError(t, err)
	assert.Equal(t, Result{Created: true, FromManifest: false}, result)
	python := filepath.Join(appDir, "venv", "bin", "python")
	assert.Equal(t, []string{
		"python3 -m venv " + filepath.Join(appDir, "venv"),
		python + " -m pip install --upgrade pip",
		python + " -m pip install aiogram python-dotenv",
	}, r.lines)
}

func TestProvision_existingVenvWithManifest(t *testing.T) {
	appDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(appDir, "venv"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "venv", "pyvenv.cfg"), []byte("home = /usr/bin\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(appDir, "requirements.txt"), []byte("aiogram==3.4.1\n"), 0644))
	r := &fakeRunner{}

	result, err := Provision(context.Background(), r.run, Options{
		PythonBin:        "python3",
		AppDir:           appDir,
		FallbackPackages: []string{"aiogram"},
	})

	require.NoError(t, err)
	assert.Equal(t, Result{Created: false, FromManifest: true}, result)
	python := filepath.Join(appDir, "venv", "bin", "python")
	assert.Equal(t, []string{
		python + " -m pip install --upgrade pip",
		python + " -m pip install -r " + filepath.Join(appDir, "requirements.txt"),
	}, r.lines)
}

func TestProvision_noFallbackPackages(t *testing.T) {
	appDir := t.TempDir()
	r := &fakeRunner{}

	_, err := Provision(context.Background(), r.run, Options{PythonBin: "python3", AppDir: appDir})

	require.NoError(t, err)
	assert.Len(t, r.lines, 2)
}

func TestProvision_stopsOnFailure(t *testing.T) {
	r := &fakeRunner{failOn: "--upgrade pip"}

	_, err := Provision(context.Background(), r.run, Options{
		PythonBin:        "python3",
		AppDir:           t.TempDir(),
		FallbackPackages: []string{"aiogram"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upgrade pip")
	assert.Len(t, r.lines, 2)
}

func Test_parsePythonVersion(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "3.11", input: "Python 3.11.2\n", want: "3.11.2"},
		{name: "release candidate", input: "Python 3.13.0rc1", want: "3.13.0"},
		{name: "without patch", input: "Python 3.9", want: "3.9.0"},
		{name: "with preamble", input: "warning: something\nPython 3.8.10\n", want: "3.8.10"},
		{name: "garbage", input: "command not found", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			v, err := parsePythonVersion(test.input)

			if test.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, v)
		})
	}
}

func TestCheckVersion(t *testing.T) {
	output := func(version string) OutputFunc {
		return func(_ context.Context, _ string, _ ...string) (string, error) {
			return version, nil
		}
	}

	v, err := CheckVersion(context.Background(), output("Python 3.12.1"), "python3", MinimumVersion)
	require.NoError(t, err)
	assert.Equal(t, "3.12.1", v)

	_, err = CheckVersion(context.Background(), output("Python 3.6.9"), "python3.6", MinimumVersion)
	var unsupported *UnsupportedVersionError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "python3.6 version 3.6.9 is older than required 3.8.0", err.Error())
}
