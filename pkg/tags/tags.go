// Package tags implements the rule language that decides which manifest
// steps run.
//
// A rule is an optionally negated union of labels. "linux,macos" is
// satisfied by a step tagged with either label, "^work" by a step not
// tagged work. A step runs only if its tag set satisfies every rule.
package tags

import (
	"slices"
	"strings"
)

const (
	// NegationMarker prefixes a rule whose result is inverted
	NegationMarker = "^"

	// UnionSeparator joins alternative labels within one rule
	UnionSeparator = ","
)

// Rule is a single parsed tag rule.
type Rule struct {
	// Raw is the rule exactly as supplied on the command line. It is kept
	// for substitution into run commands.
	Raw string

	// Labels are the alternative labels; any one of them satisfies the rule.
	Labels []string

	// Negated inverts the result of the label lookup.
	Negated bool
}

// Parse parses a single rule string. Labels are matched with exact,
// case-sensitive string equality; no trimming or normalization occurs.
func Parse(raw string) Rule {
	text, negated := strings.CutPrefix(raw, NegationMarker)
	return Rule{
		Raw:     raw,
		Labels:  strings.Split(text, UnionSeparator),
		Negated: negated,
	}
}

// ParseAll parses a list of rule strings in order.
func ParseAll(raw []string) []Rule {
	rules := make([]Rule, 0, len(raw))
	for _, r := range raw {
		rules = append(rules, Parse(r))
	}
	return rules
}

// Matches reports whether a tag set satisfies the rule: at least one label
// must be present in tags, or absent for a negated rule.
func (r Rule) Matches(tags []string) bool {
	found := false
	for _, label := range r.Labels {
		if slices.Contains(tags, label) {
			found = true
			break
		}
	}
	return found != r.Negated
}

// Match reports whether a tag set satisfies every rule. An empty rule list
// matches any tag set, including an empty one.
func Match(rules []Rule, tags []string) bool {
	for _, rule := range rules {
		if !rule.Matches(tags) {
			return false
		}
	}
	return true
}

// Raw returns the original rule strings, in order.
func Raw(rules []Rule) []string {
	raw := make([]string, 0, len(rules))
	for _, rule := range rules {
		raw = append(raw, rule.Raw)
	}
	return raw
}
