package main

import (
	"os"

	"github.com/modguard/modguard/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
