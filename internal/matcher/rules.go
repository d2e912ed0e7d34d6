package matcher

import (
	"regexp"
	"strings"
)

// Rule decides whether a non-empty title qualifies on one criterion.
type Rule interface {
	Name() string
	Match(title string) bool
}

// CapacityRule requires a whole-word capacity token such as "4TB" or "4 TB".
type CapacityRule struct {
	pattern *regexp.Regexp
}

// NewCapacityRule builds a rule for the given terabyte count.
func NewCapacityRule(terabytes string) CapacityRule {
	return CapacityRule{pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(terabytes) + `\s*TB\b`)}
}

func (r CapacityRule) Name() string { return "capacity" }

func (r CapacityRule) Match(title string) bool {
	return r.pattern != nil && r.pattern.MatchString(title)
}

// InterfaceRule requires at least one interface or form-factor token.
type InterfaceRule struct {
	Tokens []string
}

func (r InterfaceRule) Name() string { return "interface" }

func (r InterfaceRule) Match(title string) bool {
	return containsAny(title, r.Tokens)
}

// ExclusionRule rejects titles naming an accessory rather than a drive.
type ExclusionRule struct {
	Tokens []string
}

func (r ExclusionRule) Name() string { return "exclusion" }

func (r ExclusionRule) Match(title string) bool {
	return !containsAny(title, r.Tokens)
}

var (
	defaultInterfaceTokens = []string{"nvme", "m.2", "pcie"}
	defaultExclusionTokens = []string{"enclosure", "heatsink", "case", "adapter", "kit", "external"}
)

// DefaultRules returns the bare 4TB NVMe rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		NewCapacityRule("4"),
		InterfaceRule{Tokens: defaultInterfaceTokens},
		ExclusionRule{Tokens: defaultExclusionTokens},
	}
}

func containsAny(title string, tokens []string) bool {
	lower := strings.ToLower(title)
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}
