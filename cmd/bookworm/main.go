// Command bookworm browses the Project Gutenberg catalog from the terminal.
package main

import (
	"os"

	"github.com/jmgilman/bookworm/internal/cmd"
)

func main() {
	os.Exit(cmd.Main())
}
