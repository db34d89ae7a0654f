// Package main is the entry point for the fmgr CLI application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/eykd/fmgr-go/cmd"
)

func main() {
	// Create a context that is cancelled on SIGINT (Ctrl+C). A pending
	// conflict prompt answers Cancel; a second Ctrl+C kills the process.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		stop()
	}()

	rt := cmd.NewRuntime()
	code := cmd.RunCLI(ctx, cmd.BuildCommandTree(rt), os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err := rt.Close(); err != nil {
		fmt.Fprint(os.Stderr, cmd.FormatError(err))
		if code == 0 {
			code = 1
		}
	}
	stop()
	os.Exit(code)
}
