package main

import (
	"os"

	"github.com/kheireddine-anas/busbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
