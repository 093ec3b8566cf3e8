// igo-local watches two random players play Go in the terminal.
package main

import (
	"fmt"
	"os"

	"igo-local/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
