package main

import (
	"os"

	"github.com/famomatic/yt2av/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
