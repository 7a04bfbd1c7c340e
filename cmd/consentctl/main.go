package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
)

var (
	version = "dev"
	commit  string
)

func main() {
	app := newApp(afero.NewOsFs(), os.Stdout)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "consentctl: %s\n", err.Error())
		os.Exit(1)
	}
}
