package main

import (
	"os"

	"github.com/olix3001/ccash/cmd/ccash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
