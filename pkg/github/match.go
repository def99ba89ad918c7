package github

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchRule is one glob rule for selecting repositories by name. Every
// pattern in All must match; at least one pattern in Any must match. A
// leading "!" negates that single pattern's result. A rule with neither
// list is vacuously true.
type MatchRule struct {
	Any []string `yaml:"any,omitempty" json:"any,omitempty"`
	All []string `yaml:"all,omitempty" json:"all,omitempty"`
}

// Matches evaluates the rule against a plain repository name (no owner
// prefix). Glob semantics cover *, **, ? and bracket classes.
func (r MatchRule) Matches(name string) (bool, error) {
	for _, pattern := range r.All {
		ok, err := matchPattern(name, pattern)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	if len(r.Any) == 0 {
		return true, nil
	}

	for _, pattern := range r.Any {
		ok, err := matchPattern(name, pattern)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// MatchesAny reports whether the name satisfies at least one rule in the list.
// An empty rule list matches nothing.
func MatchesAny(name string, rules []MatchRule) (bool, error) {
	for _, rule := range rules {
		ok, err := rule.Matches(name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// matchPattern evaluates a single glob pattern, honoring a leading "!"
func matchPattern(name, pattern string) (bool, error) {
	raw := pattern
	negate := strings.HasPrefix(pattern, "!")
	if negate {
		pattern = pattern[1:]
	}

	ok, err := doublestar.Match(pattern, name)
	if err != nil {
		return false, &GlobSyntaxError{Pattern: raw, Cause: err}
	}
	if negate {
		return !ok, nil
	}
	return ok, nil
}

// ValidatePatterns checks every pattern of a rule for glob syntax errors
// without evaluating it against any name. Used by offline validation.
func (r MatchRule) ValidatePatterns() error {
	for _, pattern := range append(append([]string{}, r.All...), r.Any...) {
		stripped := strings.TrimPrefix(pattern, "!")
		if !doublestar.ValidatePattern(stripped) {
			return &GlobSyntaxError{Pattern: pattern, Cause: doublestar.ErrBadPattern}
		}
	}
	return nil
}
