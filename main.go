package main

import (
	"os"

	"github.com/barbaramelovalor031/expenses-valor/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
