package main

import (
	"os"

	"github.com/roach88/serress/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand(), os.Args[1:]))
}
