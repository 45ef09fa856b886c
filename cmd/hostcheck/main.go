package main

import (
	_ "embed"
	"os"
	"strings"

	"hostcheck/pkg/cli"
)

//go:embed VERSION
var Version string

func main() {
	os.Exit(cli.Execute(os.Args[1:], cli.Deps{
		Version: strings.TrimSpace(Version),
	}))
}
