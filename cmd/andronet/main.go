package main

import (
	"os"

	"github.com/andronet-dev/andronet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
