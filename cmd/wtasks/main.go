// Package main is the entry point for the wtasks CLI.
package main

import (
	"os"

	"github.com/leeovery/wtasks/internal/cli"
)

func main() {
	dir := "."
	if wd, err := os.Getwd(); err == nil {
		dir = wd
	}

	app := cli.NewApp(os.Stdout, os.Stderr)
	os.Exit(app.Run(os.Args, dir))
}
