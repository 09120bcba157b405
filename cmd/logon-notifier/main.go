// Package main is the entry point for logon-notifier.
package main

import (
	"os"

	"github.com/sharkusmanch/logon-notifier/internal/cli"
	"github.com/sharkusmanch/logon-notifier/internal/platform"
)

func main() {
	args := os.Args[1:]

	// The service control manager starts the binary with the arguments given at
	// install time; fall back to serve when none were recorded.
	if platform.IsRunningAsService() && len(args) == 0 {
		args = []string{"serve"}
	}

	cli.Execute(args)
}
