package domain

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// UnsetValue matches attributes that are absent, empty, or nil when used
// as the value of a key filter.
const UnsetValue = "<unset>"

// Filter is a single "key=value" condition. The value is compared by
// equality and, when it compiles, as an anchored regular expression.
// Pseudo keys (type, make, model, serial) are matched against the
// identity token without loading attributes.
type Filter struct {
	Key   string
	Value string
	re    *regexp.Regexp
}

// ParseFilter splits a "key=value" argument at the first equals sign.
func ParseFilter(arg string) (Filter, error) {
	key, value, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return Filter{}, fmt.Errorf("filter must be formatted as key=value: %q", arg)
	}
	f := Filter{Key: key, Value: value}
	if re, err := regexp.Compile("^(?:" + value + ")$"); err == nil {
		f.re = re
	}
	return f, nil
}

// Match reports whether the asset satisfies the filter.
func (f Filter) Match(a *Asset) bool {
	v, ok := a.Get(f.Key)
	if f.Value == UnsetValue {
		return !ok || v == nil || v == ""
	}
	if !ok {
		return false
	}
	text := fmt.Sprintf("%v", v)
	if text == f.Value {
		return true
	}
	return f.re != nil && f.re.MatchString(text)
}

// Selector matches assets and containers for batch operations. The
// pattern is a slash-separated glob over the path relative to the vault
// root; "*" matches within one path segment and "**" spans any number
// of segments. Key filters narrow the asset matches further.
type Selector struct {
	Pattern string
	Filters []Filter
}

// NewSelector builds a selector from a path pattern and raw key=value
// filter arguments.
func NewSelector(pattern string, filterArgs []string) (Selector, error) {
	s := Selector{Pattern: path.Clean(strings.Trim(pattern, "/"))}
	if s.Pattern == "." {
		s.Pattern = "**"
	}
	for _, arg := range filterArgs {
		f, err := ParseFilter(arg)
		if err != nil {
			return Selector{}, err
		}
		s.Filters = append(s.Filters, f)
	}
	return s, nil
}

// MatchAsset reports whether the asset's path and attributes match.
func (s Selector) MatchAsset(a *Asset) bool {
	if !matchGlob(s.Pattern, a.Path()) {
		return false
	}
	for _, f := range s.Filters {
		if !f.Match(a) {
			return false
		}
	}
	return true
}

// MatchContainer reports whether the container path matches the pattern.
// Key filters never match containers.
func (s Selector) MatchContainer(containerPath string) bool {
	if len(s.Filters) > 0 {
		return false
	}
	return matchGlob(s.Pattern, containerPath)
}

// IsLiteral reports whether the pattern contains no glob metacharacters,
// i.e. names exactly one path.
func (s Selector) IsLiteral() bool {
	return !strings.ContainsAny(s.Pattern, "*?[")
}

// matchGlob matches a slash-separated pattern segment-wise against a
// relative path. "**" matches zero or more whole segments.
func matchGlob(pattern, target string) bool {
	return matchSegments(splitPath(pattern), splitPath(target))
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, target []string) bool {
	if len(pattern) == 0 {
		return len(target) == 0
	}
	if pattern[0] == "**" {
		// Zero segments, or consume one and keep the doublestar active.
		if matchSegments(pattern[1:], target) {
			return true
		}
		return len(target) > 0 && matchSegments(pattern, target[1:])
	}
	if len(target) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], target[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pattern[1:], target[1:])
}
