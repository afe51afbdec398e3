package main

import (
	"os"

	"github.com/Z-vren/brand-value-actor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
