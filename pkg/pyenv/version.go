package pyenv

import (
	"context"
	"fmt"
	"regexp"

	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// MinimumVersion is the oldest interpreter the bot dependencies support.
const MinimumVersion = "3.8.0"

var versionRegexp = regexp.MustCompile(`Python\s+(\d+)\.(\d+)(?:\.(\d+))?`)

type UnsupportedVersionError struct {
	PythonBin string
	Version   string
	Minimum   string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%s version %s is older than required %s", e.PythonBin, e.Version, e.Minimum)
}

// OutputFunc runs command and returns its combined output.
type OutputFunc func(ctx context.Context, command string, args ...string) (string, error)

// CheckVersion runs `pythonBin --version` and fails when the interpreter is
// older than minimum.
func CheckVersion(ctx context.Context, output OutputFunc, pythonBin string, minimum string) (string, error) {
	out, err := output(ctx, pythonBin, "--version")
	if err != nil {
		return "", errors.WithMessage(err, "failed to check python version")
	}

	version, err := parsePythonVersion(out)
	if err != nil {
		return "", err
	}

	if semver.Compare("v"+version, "v"+minimum) < 0 {
		return version, &UnsupportedVersionError{
			PythonBin: pythonBin,
			Version:   version,
			Minimum:   minimum,
		}
	}

	return version, nil
}

func parsePythonVersion(s string) (string, error) {
	matches := versionRegexp.FindStringSubmatch(s)
	if matches == nil {
		return "", errors.Errorf("failed to parse python version from %q", s)
	}

	patch := matches[3]
	if patch == "" {
		patch = "0"
	}

	return matches[1] + "." + matches[2] + "." + patch, nil
}
