// File: cmd/keysim/main.go
/*
Copyright © 2025 Kyle McAllister (xkilldash9x@proton.me)
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/keysim/cmd"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

// Function variables for dependency injection in tests.
var (
	osExit            = os.Exit
	execute           = cmd.Execute
	stderr  io.Writer = os.Stderr
)

func main() {
	// Ctrl-C cancels the run between keystrokes.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := run(ctx)
	stop()
	osExit(code)
}

// run executes the root command and maps its outcome to an exit code.
func run(ctx context.Context) int {
	err := execute(ctx)
	if err == nil {
		return exitOK
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	if errors.Is(err, context.Canceled) {
		return exitInterrupted
	}
	return exitFailure
}
