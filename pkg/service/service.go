package service

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/pkg/errors"
	"github.com/ramadan-bot/botctl/pkg/oscore"
	"github.com/ramadan-bot/botctl/pkg/runhelper"
)

type Service interface {
	DaemonReload(ctx context.Context) error
	Enable(ctx context.Context, serviceName string) error
	Start(ctx context.Context, serviceName string) error
	Stop(ctx context.Context, serviceName string) error
	Restart(ctx context.Context, serviceName string) error
	Status(ctx context.Context, serviceName string) error
	Logs(ctx context.Context, serviceName string, lines int) error
}

//nolint:ireturn,nolintlint
func Load(ctx context.Context) (Service, error) {
	initName, err := runhelper.DetectInit(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to detect init", slog.String("err", err.Error()))
	}

	if initName == runhelper.InitSystemd {
		return NewSystemd(), nil
	}

	if _, lookErr := exec.LookPath("systemctl"); lookErr == nil {
		slog.WarnContext(ctx, "pid 1 is not systemd, using systemctl anyway", slog.String("init", initName))

		return NewSystemd(), nil
	}

	return nil, NewUnsupportedInitError(initName)
}

type execFunc func(ctx context.Context, command string, args ...string) error

type Systemd struct {
	exec execFunc
	// show is used for commands whose output the operator reads.
	show execFunc
}

func NewSystemd() *Systemd {
	return &Systemd{
		exec: oscore.ExecCommand,
		show: oscore.ExecCommandInteractive,
	}
}

func (s *Systemd) DaemonReload(ctx context.Context) error {
	return s.exec(ctx, "systemctl", "daemon-reload")
}

func (s *Systemd) Enable(ctx context.Context, serviceName string) error {
	return s.exec(ctx, "systemctl", "enable", serviceName)
}

func (s *Systemd) Start(ctx context.Context, serviceName string) error {
	return s.exec(ctx, "systemctl", "start", serviceName)
}

func (s *Systemd) Stop(ctx context.Context, serviceName string) error {
	return s.exec(ctx, "systemctl", "stop", serviceName)
}

func (s *Systemd) Restart(ctx context.Context, serviceName string) error {
	return s.exec(ctx, "systemctl", "restart", serviceName)
}

const (
	systemDStatusInactive = 3
	systemDStatusNotFound = 4
)

func (s *Systemd) Status(ctx context.Context, serviceName string) error {
	err := s.show(ctx, "systemctl", "--no-pager", "status", serviceName)
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return errors.WithMessage(err, "service status command failed")
	}

	switch exitErr.ExitCode() {
	case systemDStatusInactive:
		return ErrInactiveService
	case systemDStatusNotFound:
		return NewNotFoundError(serviceName)
	default:
		return errors.Wrapf(err, "service status command failed with exit code %d", exitErr.ExitCode())
	}
}

func (s *Systemd) Logs(ctx context.Context, serviceName string, lines int) error {
	return s.show(ctx, "journalctl", "-u", serviceName, "-n", strconv.Itoa(lines), "--no-pager")
}
