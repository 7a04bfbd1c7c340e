package consent

import (
	"errors"
	"fmt"
	"strings"
)

// Category groups the cookie-name prefixes that share one consent decision.
// Non-optional categories are essential and never checked against consent.
type Category struct {
	Name     string   `json:"category-name" yaml:"category-name"`
	Optional bool     `json:"optional" yaml:"optional"`
	Prefixes []string `json:"cookies" yaml:"cookies"`
}

// Manifest is the ordered list of categories supplied by the site.
// When a cookie matches prefixes of several categories the first one wins.
type Manifest []Category

// Validate reports every category with an empty name or an empty prefix.
// Duplicate names are allowed; the first occurrence takes precedence.
func (m Manifest) Validate() error {
	var errs []error
	for i, c := range m {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: category %d has no name", ErrInvalidManifest, i))
		}
		for j, p := range c.Prefixes {
			if p == "" {
				errs = append(errs, fmt.Errorf("%w: category %q prefix %d is empty", ErrInvalidManifest, c.Name, j))
			}
		}
	}
	return errors.Join(errs...)
}

// Optional returns the optional categories in manifest order.
func (m Manifest) Optional() []Category {
	out := make([]Category, 0, len(m))
	for _, c := range m {
		if c.Optional {
			out = append(out, c)
		}
	}
	return out
}

// Lookup returns the first category with the given name.
func (m Manifest) Lookup(name string) (Category, bool) {
	for _, c := range m {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
