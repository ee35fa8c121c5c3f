package main

import (
	"os"

	"github.com/kaybrian/Water-Quality-Model/cmd/potability/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
