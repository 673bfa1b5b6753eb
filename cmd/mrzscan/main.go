package main

import (
	"os"

	"github.com/tsawler/mrzscan/cmd/mrzscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
