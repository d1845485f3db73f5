// Command classdict checks, converts and describes documents against
// classdict schema types declared in a schema file.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), color.RedString("error: %s", err))
		os.Exit(1)
	}
}
