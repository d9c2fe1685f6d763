package packagemanager

import (
	"context"

	"github.com/ramadan-bot/botctl/pkg/oscore"
)

// dnf drives dnf or its yum predecessor; both accept the same arguments
// for the operations used here.
type dnf struct {
	binary string
}

func (d *dnf) Name() string {
	return d.binary
}

func (d *dnf) CheckForUpdates(ctx context.Context) error {
	return oscore.ExecCommand(ctx, d.binary, "makecache", "-y", "-q")
}

func (d *dnf) Install(ctx context.Context, packs ...string) error {
	args := append([]string{"install", "-y", "-q"}, normalizePackages(packs)...)

	return oscore.ExecCommand(ctx, d.binary, args...)
}
