package main

import (
	"os"

	"github.com/set-night/chatexport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
