package main

import (
	"os"

	"github.com/futig/docs-assistant/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
