// Package main provides the dloc binary, which exports and imports the
// localized text of Decima core files.
package main

import (
	"fmt"
	"os"

	"github.com/cory-johannsen/dloc/internal/cli"
)

func main() {
	if err := cli.NewRootCommand(os.Stdout, nil).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
