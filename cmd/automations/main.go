package main

import (
	"os"

	"github.com/schoolpass-automations/automations/cmd/automations/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
