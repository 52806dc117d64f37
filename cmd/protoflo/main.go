// Command protoflo runs a NoFlo-compatible flow-based-programming runtime:
// registering it with flowhub, serving its control protocol over
// WebSocket, or running a single graph file to completion.
package main

import (
	"fmt"
	"os"

	"github.com/protoflo/protoflo/cmd/protoflo/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
