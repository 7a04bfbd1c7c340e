package consent

// Action is the outcome of evaluating one cookie.
type Action string

const (
	Keep   Action = "keep"
	Delete Action = "delete"
)

// Reason explains why an Action was chosen.
type Reason string

const (
	ReasonConsentCookie    Reason = "consent_cookie"
	ReasonUndefined        Reason = "undefined"
	ReasonUndefinedAllowed Reason = "undefined_allowed"
	ReasonEssential        Reason = "essential"
	ReasonNoConsent        Reason = "no_consent"
	ReasonCategoryMissing  Reason = "category_missing"
	ReasonOptedOut         Reason = "opted_out"
	ReasonOptedIn          Reason = "opted_in"
)

// Cookie is a cookie present in the store. Only the name takes part in
// decisions.
type Cookie struct {
	Name  string
	Value string
}

// Decision is the evaluated action for a single cookie. Category is empty
// when the cookie matched no manifest entry.
type Decision struct {
	Cookie   Cookie
	Action   Action
	Reason   Reason
	Category string
}

// Evaluate decides keep or delete for every cookie, independently and in
// input order. The consent cookie is always kept. Cookies outside the
// manifest follow deleteUndefined. Essential categories are always kept.
// Optional categories are kept only when rec is valid, has an entry for the
// category and that entry is not a denial marker.
func Evaluate(cookies []Cookie, m Manifest, rec Record, consentCookieName string, deleteUndefined bool) []Decision {
	decisions := make([]Decision, 0, len(cookies))
	for _, c := range cookies {
		decisions = append(decisions, evaluateOne(c, m, rec, consentCookieName, deleteUndefined))
	}
	return decisions
}

func evaluateOne(c Cookie, m Manifest, rec Record, consentCookieName string, deleteUndefined bool) Decision {
	d := Decision{Cookie: c}

	if c.Name == consentCookieName {
		d.Action, d.Reason = Keep, ReasonConsentCookie
		return d
	}

	category, ok := Classify(c.Name, m)
	if !ok {
		if deleteUndefined {
			d.Action, d.Reason = Delete, ReasonUndefined
		} else {
			d.Action, d.Reason = Keep, ReasonUndefinedAllowed
		}
		return d
	}
	d.Category = category.Name

	switch {
	case !category.Optional:
		d.Action, d.Reason = Keep, ReasonEssential
	case !rec.Valid():
		d.Action, d.Reason = Delete, ReasonNoConsent
	case !rec.Has(category.Name):
		d.Action, d.Reason = Delete, ReasonCategoryMissing
	case rec.Denied(category.Name):
		d.Action, d.Reason = Delete, ReasonOptedOut
	default:
		d.Action, d.Reason = Keep, ReasonOptedIn
	}
	return d
}

// Deleted returns the names of cookies whose decision is Delete.
func Deleted(decisions []Decision) []string {
	var names []string
	for _, d := range decisions {
		if d.Action == Delete {
			names = append(names, d.Cookie.Name)
		}
	}
	return names
}
