// Package privdrop switches the process to an unprivileged identity
// before the server starts. The drop is one-way: after setuid there is
// no path back to root, which is the point.
package privdrop

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/J0Ysutradhar/pilot/internal/bootstrap"
	"github.com/J0Ysutradhar/pilot/internal/bootstrap/finitestate"
	"github.com/J0Ysutradhar/pilot/internal/exitcode"
)

// identity is a resolved run-as target.
type identity struct {
	uid      int
	gid      int
	username string
	home     string
}

// Dropper is the privilege drop phase of the boot sequence.
type Dropper struct {
	spec   string
	logger *slog.Logger
}

var _ bootstrap.Phase = (*Dropper)(nil)

// New builds a Dropper for a user[:group] spec. Names are resolved
// through the system user database, numeric ids are taken as-is. An
// empty spec turns the phase into a skip.
func New(spec string, opts ...Option) *Dropper {
	d := &Dropper{
		spec:   spec,
		logger: slog.Default().WithGroup("privdrop"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dropper) Name() string { return finitestate.StateDroppingPrivileges }

// Run resolves the target identity and applies the drop. The server
// must never start as root because a drop failed, so every error here
// is fatal.
func (d *Dropper) Run(ctx context.Context) bootstrap.Result {
	start := time.Now()
	if d.spec == "" {
		if os.Geteuid() == 0 {
			d.logger.Warn("No run-as user configured, the server will run as root")
		}
		return bootstrap.Success(time.Since(start), "no run-as user configured")
	}

	id, err := drop(d.spec, d.logger)
	if err != nil {
		return bootstrap.Failed(
			exitcode.PrivilegeDropFailed,
			time.Since(start),
			fmt.Sprintf("privilege drop to %q: %v", d.spec, err),
		)
	}

	exportIdentity(id)
	return bootstrap.Success(
		time.Since(start),
		fmt.Sprintf("running as uid=%d gid=%d", id.uid, id.gid),
	)
}

// exportIdentity mirrors what login(1) would have set, so frameworks
// that consult USER or HOME behave as under su-exec. The server
// process inherits these.
func exportIdentity(id identity) {
	_ = os.Setenv("USER", id.username)
	_ = os.Setenv("LOGNAME", id.username)
	_ = os.Setenv("HOME", id.home)
}
