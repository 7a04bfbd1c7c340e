package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/dmitrymomot/consentkit/pkg/consent"
)

func validateAction(fs afero.Fs) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		path := ctx.Args().First()
		if path == "" {
			return errNoManifest
		}
		return validate(fs, ctx.App.Writer, path)
	}
}

// validate loads the manifest at path and prints its categories. Duplicate
// category names are reported as warnings.
func validate(fs afero.Fs, out io.Writer, path string) error {
	m, err := consent.LoadManifest(fs, path)
	if err != nil {
		return err
	}

	var warnings []string
	seen := make(map[string]bool, len(m))
	for _, c := range m {
		kind := "essential"
		if c.Optional {
			kind = "optional"
		}
		fmt.Fprintf(out, "%s (%s): %s\n", c.Name, kind, strings.Join(c.Prefixes, ", "))
		if seen[c.Name] {
			warnings = append(warnings, fmt.Sprintf("category %q is declared more than once, the first entry wins", c.Name))
		}
		seen[c.Name] = true
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	_, err = fmt.Fprintf(out, "%s: %d categories, %d optional\n", path, len(m), len(m.Optional()))
	return err
}
