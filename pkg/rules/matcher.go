// Package rules applies user-defined rewrite rules to incoming
// submissions before they are persisted.
package rules

import (
	"regexp"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/vpnda/ledgerbook/pkg/models"
)

// Fields is the mutable snapshot of a submission that rules may rewrite.
type Fields struct {
	Payee    string
	Note     string
	Accounts []string
}

// Matcher holds an ordered rule set for one user. Rules are tried from
// the longest payee pattern down (note pattern length breaks ties); the
// first rule whose declared conditions all match wins and no further
// rules are evaluated.
type Matcher struct {
	defaultAccount string
	rules          []models.Rule
}

// NewMatcher orders the rule set by descending pattern length. Longer
// patterns are assumed more specific and are checked first.
func NewMatcher(defaultAccount string, ruleSet []models.Rule) *Matcher {
	ordered := make([]models.Rule, len(ruleSet))
	copy(ordered, ruleSet)
	sort.SliceStable(ordered, func(i, j int) bool {
		if len(ordered[i].Payee) != len(ordered[j].Payee) {
			return len(ordered[i].Payee) > len(ordered[j].Payee)
		}
		return len(ordered[i].Note) > len(ordered[j].Note)
	})
	return &Matcher{
		defaultAccount: defaultAccount,
		rules:          ordered,
	}
}

// Apply finds the best-matching rule and rewrites the fields in place.
// Returns true if a rule matched. A submission matching no rule is left
// untouched.
func (m *Matcher) Apply(fields *Fields) bool {
	for _, rule := range m.rules {
		if m.applyRule(fields, &rule) {
			return true
		}
	}
	return false
}

func (m *Matcher) applyRule(fields *Fields, rule *models.Rule) bool {
	// A rule with no conditions never matches.
	if rule.Payee == "" && rule.Note == "" {
		return false
	}

	payeeRe, ok := matchField(rule.Payee, fields.Payee)
	if !ok {
		return false
	}
	noteRe, ok := matchField(rule.Note, fields.Note)
	if !ok {
		return false
	}

	if rule.NewPayee != "" && payeeRe != nil {
		fields.Payee = payeeRe.ReplaceAllString(fields.Payee, rule.NewPayee)
	}
	if rule.NewNote != "" && noteRe != nil {
		fields.Note = noteRe.ReplaceAllString(fields.Note, rule.NewNote)
	}
	if rule.Account != "" {
		for i, name := range fields.Accounts {
			if name == m.defaultAccount {
				fields.Accounts[i] = rule.Account
			}
		}
	}
	return true
}

// matchField checks one declared condition. An empty pattern imposes no
// condition; a malformed pattern is treated as not matching so a broken
// stored rule never fails the whole submission. The pattern must match
// the entire field value.
func matchField(pattern, value string) (*regexp.Regexp, bool) {
	if pattern == "" {
		return nil, true
	}
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		log.Warn().Err(err).Str("pattern", pattern).Msg("Skipping rule with malformed pattern")
		return nil, false
	}
	if !re.MatchString(value) {
		return nil, false
	}
	return re, true
}
