package main

import (
	"os"

	"github.com/wezkeep/wezkeep/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
