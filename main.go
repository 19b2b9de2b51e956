package main

import (
	"os"

	"github.com/ShantanuRaghuwanshi/JobGPT-sub000/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
