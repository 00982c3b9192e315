package main

import (
	"os"

	"domainnav/cmd/domainnav/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
