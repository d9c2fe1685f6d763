//go:build linux || darwin

package oscore

import (
	"context"
	"log"
	"os"
	"os/exec"
	"syscall"

	"github.com/samber/lo"
)

// ExecCommandAs runs command with the credentials of id, including its group
// list, so nothing of the caller's groups is inherited. The child gets
// HOME, USER and LOGNAME of the target account so tools that cache into the
// home directory (pip) do not write into root's home.
func ExecCommandAs(ctx context.Context, id Identity, dir string, command string, args ...string) error {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Dir = dir
	cmd.Env = append(
		os.Environ(),
		"HOME="+id.HomeDir,
		"USER="+id.Username,
		"LOGNAME="+id.Username,
	)

	if id.UID != os.Geteuid() {
		cmd.SysProcAttr = &syscall.SysProcAttr{
			Credential: &syscall.Credential{
				Uid:    uint32(id.UID), //nolint:gosec
				Gid:    uint32(id.GID), //nolint:gosec
				Groups: supplementaryGroups(id),
			},
		}
	}

	cmd.Stdout = log.Writer()
	cmd.Stderr = log.Writer()
	log.Printf("\n %s (as %s)\n", cmd.String(), id.Username)

	return cmd.Run()
}

func supplementaryGroups(id Identity) []uint32 {
	if len(id.Groups) == 0 {
		return []uint32{uint32(id.GID)} //nolint:gosec
	}

	return lo.Map(id.Groups, func(gid int, _ int) uint32 {
		return uint32(gid) //nolint:gosec
	})
}
