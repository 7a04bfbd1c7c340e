package main

import (
	"io"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

const description = `consentctl runs the cookie consent service and inspects manifests.

   serve     starts the HTTP service with the banner, preferences page and
             consent endpoints mounted
   evaluate  prints the keep or delete decision for a set of cookies
   validate  checks a manifest file`

// newApp builds the command tree. Manifest files are read from fs and
// command output goes to out.
func newApp(fs afero.Fs, out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "consentctl"
	app.HelpName = "consentctl"
	app.Usage = "cookie consent service and manifest tooling"
	app.UsageText = "consentctl <command> [arguments...]"
	app.Description = description
	app.Version = version
	if commit != "" {
		app.Version += "-" + commit
	}
	app.Writer = out
	app.Commands = []cli.Command{
		{
			Name:   "serve",
			Usage:  "start the consent HTTP service",
			Flags:  serveFlags,
			Action: serveAction(fs),
		},
		{
			Name:                   "evaluate",
			Aliases:                []string{"e"},
			Usage:                  "print keep/delete decisions for cookies",
			ArgsUsage:              "[name=value ...]",
			Flags:                  evaluateFlags,
			UseShortOptionHandling: true,
			Action:                 evaluateAction(fs),
		},
		{
			Name:      "validate",
			Aliases:   []string{"v"},
			Usage:     "check a manifest file",
			ArgsUsage: "<manifest>",
			Action:    validateAction(fs),
		},
	}
	return app
}
