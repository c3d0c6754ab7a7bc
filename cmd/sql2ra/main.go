// Command sql2ra translates SQL queries to relational algebra.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sql2ra/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Commands report their own failures; anything else comes from cobra
	// (unknown command, bad flags, wrong argument count).
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.GetExitCode(err))
}
