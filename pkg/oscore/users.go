package oscore

import (
	"log"
	"os/user"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Identity is a resolved system account together with its primary group.
type Identity struct {
	Username string
	Group    string
	UID      int
	GID      int
	// Groups holds the primary and supplementary group ids.
	Groups  []int
	HomeDir string
}

// LookupIdentity resolves userName and its primary group. A missing account
// is reported as *UserNotFoundError.
func LookupIdentity(userName string) (Identity, error) {
	u, err := user.Lookup(userName)
	if err != nil {
		var unknownUserError user.UnknownUserError
		if errors.As(err, &unknownUserError) {
			return Identity{}, NewUserNotFoundError(userName)
		}

		return Identity{}, errors.WithMessage(err, "failed to lookup user")
	}

	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Identity{}, errors.WithMessage(err, "failed to convert uid to int")
	}

	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Identity{}, errors.WithMessage(err, "failed to convert gid to int")
	}

	groupName := u.Gid
	g, err := user.LookupGroupId(u.Gid)
	if err == nil {
		groupName = g.Name
	}

	return Identity{
		Username: u.Username,
		Group:    groupName,
		UID:      uid,
		GID:      gid,
		Groups:   groupIDs(u, gid),
		HomeDir:  u.HomeDir,
	}, nil
}

func groupIDs(u *user.User, gid int) []int {
	result := []int{gid}

	ids, err := u.GroupIds()
	if err != nil {
		log.Println(errors.WithMessage(err, "failed to lookup supplementary groups"))

		return result
	}

	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		result = append(result, n)
	}

	return lo.Uniq(result)
}
