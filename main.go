package main

import (
	"os"

	"github.com/pkozlov/blackoutcal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
