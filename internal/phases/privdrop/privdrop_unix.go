//go:build !windows

package privdrop

import (
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"strconv"
	"strings"
	"syscall"
)

// resolve turns a user[:group] spec into a concrete identity. Names go
// through the system user database; unknown numeric uids follow
// docker --user semantics (gid 0, home /, no passwd entry required).
func resolve(spec string) (identity, error) {
	userPart, groupPart, hasGroup := strings.Cut(spec, ":")

	id := identity{home: "/"}

	if u, err := user.Lookup(userPart); err == nil {
		id.uid = atoiID(u.Uid)
		id.gid = atoiID(u.Gid)
		id.username = u.Username
		if u.HomeDir != "" {
			id.home = u.HomeDir
		}
	} else {
		uid, convErr := strconv.Atoi(userPart)
		if convErr != nil {
			return identity{}, fmt.Errorf("%w %q: %w", ErrUnknownUser, userPart, err)
		}
		id.uid = uid
		id.username = userPart
		if byID, idErr := user.LookupId(userPart); idErr == nil {
			id.gid = atoiID(byID.Gid)
			id.username = byID.Username
			if byID.HomeDir != "" {
				id.home = byID.HomeDir
			}
		}
	}

	if hasGroup {
		if g, err := user.LookupGroup(groupPart); err == nil {
			id.gid = atoiID(g.Gid)
		} else {
			gid, convErr := strconv.Atoi(groupPart)
			if convErr != nil {
				return identity{}, fmt.Errorf("%w %q: %w", ErrUnknownGroup, groupPart, err)
			}
			id.gid = gid
		}
	}

	if id.uid == 0 {
		return identity{}, ErrRootTarget
	}
	return id, nil
}

// atoiID converts a uid/gid string from the user database. Those are
// always numeric on POSIX systems.
func atoiID(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// drop applies setgroups, setgid, setuid in that order and verifies
// the result. The order matters: changing groups requires privileges
// that setuid discards.
func drop(spec string, logger *slog.Logger) (identity, error) {
	id, err := resolve(spec)
	if err != nil {
		return identity{}, err
	}

	if os.Getuid() == id.uid && os.Geteuid() == id.uid &&
		os.Getgid() == id.gid && os.Getegid() == id.gid {
		logger.Debug("Already running as target identity", "uid", id.uid, "gid", id.gid)
		return id, nil
	}

	if err := syscall.Setgroups([]int{id.gid}); err != nil {
		return identity{}, fmt.Errorf("setgroups(%d): %w", id.gid, err)
	}
	if err := syscall.Setgid(id.gid); err != nil {
		return identity{}, fmt.Errorf("setgid(%d): %w", id.gid, err)
	}
	if err := syscall.Setuid(id.uid); err != nil {
		return identity{}, fmt.Errorf("setuid(%d): %w", id.uid, err)
	}

	if err := verify(id); err != nil {
		return identity{}, err
	}
	logger.Info("Dropped privileges", "uid", id.uid, "gid", id.gid, "user", id.username)
	return id, nil
}

// verify rereads the process ids after the drop. A partial transition
// must never reach the server start.
func verify(id identity) error {
	if uid, euid := os.Getuid(), os.Geteuid(); uid != id.uid || euid != id.uid {
		return fmt.Errorf("%w: uid=%d euid=%d, want %d", ErrVerifyFailed, uid, euid, id.uid)
	}
	if gid, egid := os.Getgid(), os.Getegid(); gid != id.gid || egid != id.gid {
		return fmt.Errorf("%w: gid=%d egid=%d, want %d", ErrVerifyFailed, gid, egid, id.gid)
	}
	return nil
}
