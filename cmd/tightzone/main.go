package main

import (
	"os"

	"github.com/kitkwok/tightzone/cmd/tightzone/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
