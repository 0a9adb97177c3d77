package main

import (
	"os"

	"github.com/ougirez/mothertongue/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
