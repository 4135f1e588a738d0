// Command rollcall computes virtual-scrolling windows and browses large rosters in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/rollcall/internal/cli"
	"github.com/rshade/rollcall/pkg/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return exitCode(err)
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	return cli.ExitCode(err)
}
