package packagemanager

import (
	"context"

	"github.com/ramadan-bot/botctl/pkg/oscore"
)

var aptEnv = []string{"DEBIAN_FRONTEND=noninteractive"}

type apt struct{}

func (apt *apt) Name() string {
	return ManagerAPT
}

// CheckForUpdates runs an apt update to retrieve new packages available
// from the repositories.
func (apt *apt) CheckForUpdates(ctx context.Context) error {
	return oscore.ExecCommandWithEnv(ctx, aptEnv, "apt-get", "update", "-q")
}

// Install installs a set of packages.
func (apt *apt) Install(ctx context.Context, packs ...string) error {
	args := append([]string{"install", "-y", "-q"}, normalizePackages(packs)...)

	return oscore.ExecCommandWithEnv(ctx, aptEnv, "apt-get", args...)
}
