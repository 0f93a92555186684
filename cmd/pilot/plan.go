package main

import (
	"context"
	"fmt"

	"github.com/J0Ysutradhar/pilot/internal/exitcode"
	"github.com/urfave/cli/v3"
)

var planCmd = &cli.Command{
	Name:  "plan",
	Usage: "Print the resolved boot plan without executing anything",
	Description: `Resolves the configuration the same way run does (file, environment,
flags, interpolation), validates it, and prints the boot plan as a
tree. Nothing is probed, executed, or spawned.`,
	ArgsUsage: "-- SERVER_CMD [ARG...]",
	Flags:     append(configFlags(), logFlags()...),
	Action:    planAction,
}

func planAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), exitcode.ConfigInvalid)
	}

	// The Stringer renders the fancy tree representation of the plan.
	fmt.Println(cfg)
	return nil
}
