package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/dmitrymomot/consentkit/pkg/consent"
)

var errNoManifest = errors.New("consentctl.manifest_required")

var evaluateFlags = []cli.Flag{
	cli.StringFlag{
		Name:     "manifest, m",
		Usage:    "path to the cookie manifest (yaml or json)",
		Required: true,
	},
	cli.StringSliceFlag{
		Name:  "cookie, c",
		Usage: "cookie present in the browser, as name=value (repeatable)",
	},
	cli.StringFlag{
		Name:  "header",
		Usage: "raw Cookie request header to read cookies from",
	},
	cli.StringFlag{
		Name:  "consent",
		Usage: "stored consent record, e.g. '{\"analytics\":\"on\"}'",
	},
	cli.StringFlag{
		Name:  "consent-cookie",
		Usage: "name of the consent record cookie",
		Value: consent.DefaultCookieName,
	},
	cli.BoolFlag{
		Name:  "keep-undefined, k",
		Usage: "keep cookies that match no manifest category",
	},
	cli.BoolFlag{
		Name:  "json",
		Usage: "print decisions as json",
	},
}

type evaluateInput struct {
	manifestPath  string
	cookies       []string
	header        string
	record        string
	consentCookie string
	keepUndefined bool
	json          bool
}

func evaluateAction(fs afero.Fs) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		in := evaluateInput{
			manifestPath:  ctx.String("manifest"),
			cookies:       append(ctx.StringSlice("cookie"), ctx.Args()...),
			header:        ctx.String("header"),
			record:        ctx.String("consent"),
			consentCookie: ctx.String("consent-cookie"),
			keepUndefined: ctx.Bool("keep-undefined"),
			json:          ctx.Bool("json"),
		}
		return evaluate(context.Background(), fs, ctx.App.Writer, in)
	}
}

type decisionOutput struct {
	Cookie   string         `json:"cookie"`
	Action   consent.Action `json:"action"`
	Reason   consent.Reason `json:"reason"`
	Category string         `json:"category,omitempty"`
}

type evaluateOutput struct {
	Decisions     []decisionOutput `json:"decisions"`
	BannerVisible bool             `json:"banner_visible"`
	RecordError   string           `json:"record_error,omitempty"`
}

// evaluate runs the engine against an in-memory cookie jar built from the
// input and prints one decision per cookie.
func evaluate(ctx context.Context, fs afero.Fs, out io.Writer, in evaluateInput) error {
	if in.manifestPath == "" {
		return errNoManifest
	}
	manifest, err := consent.LoadManifest(fs, in.manifestPath)
	if err != nil {
		return err
	}

	mgr, err := consent.New(
		consent.WithManifest(manifest),
		consent.WithCookieName(in.consentCookie),
		consent.WithDeleteUndefined(!in.keepUndefined),
	)
	if err != nil {
		return err
	}

	jar, err := buildJar(in, mgr.CookieName())
	if err != nil {
		return err
	}
	store := consent.NewMemoryStore(jar...)

	res := mgr.Resolve(ctx, store, false)
	result := evaluateOutput{
		Decisions:     make([]decisionOutput, 0, len(res.Decisions)),
		BannerVisible: res.BannerVisible,
	}
	if in.record != "" {
		if _, err := consent.DecodeRecord(in.record); err != nil {
			result.RecordError = err.Error()
		}
	}
	for _, d := range res.Decisions {
		result.Decisions = append(result.Decisions, decisionOutput{
			Cookie:   d.Cookie.Name,
			Action:   d.Action,
			Reason:   d.Reason,
			Category: d.Category,
		})
	}

	if in.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printDecisions(out, result)
}

func buildJar(in evaluateInput, consentCookie string) ([]consent.Cookie, error) {
	var jar []consent.Cookie
	if in.record != "" {
		jar = append(jar, consent.Cookie{Name: consentCookie, Value: in.record})
	}
	if in.header != "" {
		parsed, err := http.ParseCookie(in.header)
		if err != nil {
			return nil, fmt.Errorf("parse cookie header: %w", err)
		}
		for _, c := range parsed {
			jar = append(jar, consent.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	for _, raw := range in.cookies {
		name, value, _ := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid cookie %q: empty name", raw)
		}
		jar = append(jar, consent.Cookie{Name: name, Value: value})
	}
	return jar, nil
}

func printDecisions(out io.Writer, res evaluateOutput) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COOKIE\tACTION\tREASON\tCATEGORY")
	for _, d := range res.Decisions {
		category := d.Category
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.Cookie, d.Action, d.Reason, category)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if res.RecordError != "" {
		fmt.Fprintf(out, "\nconsent record ignored: %s\n", res.RecordError)
	}
	_, err := fmt.Fprintf(out, "\nbanner visible: %t\n", res.BannerVisible)
	return err
}
