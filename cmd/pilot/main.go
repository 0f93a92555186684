package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	app := &cli.Command{
		Name:    "pilot",
		Version: Version,
		Usage:   "Container entrypoint that boots an application server in order",
		Description: `pilot runs as PID 1 inside an application container. It waits for the
services the application depends on, applies schema migrations,
prepares static assets, drops root privileges, and only then starts
the server process, forwarding termination signals to it and
reporting its exit code as pilot's own.`,
		Commands: []*cli.Command{
			runCmd,
			checkCmd,
			planCmd,
			versionCmd,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
