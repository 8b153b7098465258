// ABOUTME: Entry point for the friendlog CLI, terminal UI, web UI and MCP server
// ABOUTME: Hands off to the cobra command tree and maps errors to a non-zero exit
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/harperreed/friendlog/cli"
)

const version = "0.2.0"

func main() {
	root := cli.NewRootCommand(cli.Options{
		Version: version,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
