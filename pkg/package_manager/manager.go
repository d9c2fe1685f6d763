package packagemanager

import (
	"context"
	"log"
	"os/exec"

	"github.com/pkg/errors"
	contextInternal "github.com/ramadan-bot/botctl/internal/context"
	osinfo "github.com/ramadan-bot/botctl/pkg/os_info"
	"github.com/samber/lo"
)

type PackageManager interface {
	Name() string
	CheckForUpdates(ctx context.Context) error
	Install(ctx context.Context, packs ...string) error
}

type candidate struct {
	binary string
	build  func() PackageManager
}

var (
	aptCandidate = candidate{binary: "apt-get", build: func() PackageManager { return &apt{} }}
	dnfCandidate = candidate{binary: "dnf", build: func() PackageManager { return &dnf{binary: "dnf"} }}
	yumCandidate = candidate{binary: "yum", build: func() PackageManager { return &dnf{binary: "yum"} }}
)

// Load returns the package manager available on the host, wrapped so that
// package names are translated through the alias table. The distribution
// family stored in ctx decides which manager is probed first.
//
//nolint:ireturn,nolintlint
func Load(ctx context.Context) (PackageManager, error) {
	return load(ctx, exec.LookPath)
}

//nolint:ireturn,nolintlint
func load(ctx context.Context, lookPath func(string) (string, error)) (PackageManager, error) {
	osInfo := contextInternal.OSInfoFromContext(ctx)

	candidates := []candidate{aptCandidate, dnfCandidate, yumCandidate}
	if osInfo.Family() == osinfo.FamilyRHEL {
		candidates = []candidate{dnfCandidate, yumCandidate, aptCandidate}
	}

	for _, c := range candidates {
		if _, err := lookPath(c.binary); err != nil {
			continue
		}

		pm := c.build()
		log.Printf("Using %s package manager\n", pm.Name())

		aliases, err := LoadAliases(pm.Name())
		if err != nil {
			return nil, errors.WithMessage(err, "failed to load package aliases")
		}

		return newAliased(pm, aliases), nil
	}

	return nil, ErrNoPackageManager
}

// normalizePackages drops blank names and duplicates, keeping order.
func normalizePackages(packs []string) []string {
	return lo.Uniq(lo.Filter(packs, func(pack string, _ int) bool {
		return pack != "" && pack != " "
	}))
}
