//go:build linux || darwin

package runhelper

import (
	"context"
	"log"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"
)

const (
	InitUnknown = "unknown"
	InitSystemd = "systemd"
)

// DetectInit inspects the executable of pid 1.
func DetectInit(ctx context.Context) (string, error) {
	p, err := process.NewProcessWithContext(ctx, 1)
	if err != nil {
		return InitUnknown, errors.WithMessage(err, "failed to load process with pid 1")
	}

	processName, _ := p.NameWithContext(ctx)
	log.Println("Found process name:", processName)

	exe, err := p.ExeWithContext(ctx)
	if err != nil {
		// Unprivileged processes cannot read /proc/1/exe, the name is still a hint.
		log.Println(errors.WithMessage(err, "failed to get executable path of the process"))

		return initFromExecutable(processName), nil
	}

	originalExe, err := filepath.EvalSymlinks(exe)
	if err != nil {
		log.Println(errors.WithMessage(err, "failed to evaluate symlink"))
	}

	filename := originalExe
	if filename == "" {
		filename = exe
	}

	result := initFromExecutable(filename)
	if result == InitUnknown {
		log.Println("Unsupported init:", filename)
	}

	return result, nil
}

func initFromExecutable(path string) string {
	if path == "" {
		return InitUnknown
	}

	switch filepath.Base(path) {
	case "systemd":
		return InitSystemd
	default:
		return InitUnknown
	}
}
