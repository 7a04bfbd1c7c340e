package consentview

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/consentkit/pkg/consent"
)

// DataStarScriptURL is the client bundle loaded by Page.
const DataStarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// Text is the copy rendered by the views.
type Text struct {
	BannerMessage string
	AcceptAll     string
	RejectAll     string
	Manage        string
	Save          string
	Enabled       string
	Disabled      string
	AlwaysActive  string
}

// DefaultText returns the English copy.
func DefaultText() Text {
	return Text{
		BannerMessage: "We use cookies to run this site and, with your permission, to measure and improve it.",
		AcceptAll:     "Accept all",
		RejectAll:     "Reject all",
		Manage:        "Manage preferences",
		Save:          "Save preferences",
		Enabled:       "On",
		Disabled:      "Off",
		AlwaysActive:  "Always active",
	}
}

// View renders the consent banner and the preferences form. It implements
// consent.View.
type View struct {
	formID          string
	bannerID        string
	hiddenClass     string
	prefill         bool
	actionPath      string
	preferencesPath string
	text            Text
	labels          map[string]string
}

var _ consent.View = (*View)(nil)

// New creates a View with default ids and copy.
func New(opts ...Option) *View {
	v := &View{
		formID:          DefaultFormID,
		bannerID:        DefaultBannerID,
		hiddenClass:     DefaultHiddenClass,
		prefill:         false,
		actionPath:      DefaultActionPath,
		preferencesPath: "/cookies",
		text:            DefaultText(),
		labels:          make(map[string]string),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// BannerID returns the id of the banner element.
func (v *View) BannerID() string { return v.bannerID }

// FormID returns the id of the preferences form.
func (v *View) FormID() string { return v.formID }

// Banner renders the banner element. When hidden the configured class is
// added instead of removing the element, so later patches can reveal it.
// Without a banner id nothing is rendered.
func (v *View) Banner(visible bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if v.bannerID == "" {
			return nil
		}

		b := &builder{}
		class := "cm-banner"
		if !visible {
			class += " " + v.hiddenClass
		}
		b.open("div", "id", v.bannerID, "class", class, "role", "region", "aria-label", "Cookie consent")
		if !visible {
			b.raw(` aria-hidden="true"`)
		}
		b.raw(">")

		b.raw(`<p class="cm-banner__text">`).text(v.text.BannerMessage).raw("</p>")
		b.raw(`<div class="cm-banner__actions">`)
		v.actionButton(b, consent.RouteAcceptAll, "cm-accept-all", v.text.AcceptAll)
		v.actionButton(b, consent.RouteRejectAll, "cm-reject-all", v.text.RejectAll)
		b.open("a", "class", "cm-manage", "href", v.preferencesPath).raw(">").text(v.text.Manage).raw("</a>")
		b.raw("</div></div>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func (v *View) actionButton(b *builder, route, class, label string) {
	action := v.actionPath + route
	b.open("form", "method", "post", "action", action, "data-on:submit__prevent", post(action)).raw(">")
	b.open("button", "type", "submit", "class", class).raw(">").text(label).raw("</button>")
	b.raw("</form>")
}

// PreferencesForm renders one fieldset per manifest category. Optional
// categories get an on/off radio group named after the category; with prefill
// enabled the radio matching the stored marker is checked. Without a form id
// nothing is rendered.
func (v *View) PreferencesForm(m consent.Manifest, rec consent.Record) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if v.formID == "" {
			return nil
		}

		action := v.actionPath + consent.RoutePreferences
		b := &builder{}
		b.open("form", "id", v.formID, "class", "cm-preferences", "method", "post", "action", action,
			"data-on:submit__prevent", post(action)).raw(">")
		b.open("input", "type", "hidden", "name", consent.FieldRedirect, "value", v.preferencesPath).raw(">")

		seen := make(map[string]bool, len(m))
		for _, c := range m {
			if seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			v.categoryFieldset(b, c, rec)
		}

		b.open("button", "type", "submit", "class", "cm-save").raw(">").text(v.text.Save).raw("</button>")
		b.raw("</form>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func (v *View) categoryFieldset(b *builder, c consent.Category, rec consent.Record) {
	b.open("fieldset", "class", "cm-category", "data-category", c.Name).raw(">")
	b.raw("<legend>").text(v.label(c.Name)).raw("</legend>")

	if !c.Optional {
		b.raw(`<p class="cm-category__essential">`).text(v.text.AlwaysActive).raw("</p></fieldset>")
		return
	}

	stored, ok := "", false
	if v.prefill {
		stored, ok = rec[c.Name]
	}
	v.radio(b, c.Name, consent.Granted, v.text.Enabled, ok && stored == consent.Granted)
	v.radio(b, c.Name, consent.Denied, v.text.Disabled, ok && consent.IsDenial(stored))
	b.raw("</fieldset>")
}

func (v *View) radio(b *builder, name, value, label string, checked bool) {
	b.raw("<label>")
	b.open("input", "type", "radio", "name", name, "value", value)
	if checked {
		b.raw(" checked")
	}
	b.raw("> ").text(label).raw("</label>")
}

func (v *View) label(category string) string {
	if l, ok := v.labels[category]; ok && l != "" {
		return l
	}
	return category
}

// Page wraps body in a minimal HTML document that loads the DataStar client.
func Page(title string, body ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := &builder{}
		head.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		head.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		head.raw("<title>").text(title).raw("</title>")
		head.open("script", "type", "module", "src", DataStarScriptURL).raw("></script>")
		head.raw("<style>.hidden{display:none}</style></head><body>")
		if _, err := io.WriteString(w, head.String()); err != nil {
			return err
		}

		for _, c := range body {
			if c == nil {
				continue
			}
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, "</body></html>")
		return err
	})
}

func post(action string) string {
	return "@post('" + action + "', {contentType: 'form'})"
}

type builder struct {
	strings.Builder
}

// open writes "<tag" followed by escaped key/value attribute pairs. The
// caller closes the tag.
func (b *builder) open(tag string, attrs ...string) *builder {
	b.WriteString("<" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		b.WriteString(" " + attrs[i] + `="` + templ.EscapeString(attrs[i+1]) + `"`)
	}
	return b
}

func (b *builder) text(s string) *builder {
	b.WriteString(templ.EscapeString(s))
	return b
}

func (b *builder) raw(s string) *builder {
	b.WriteString(s)
	return b
}
