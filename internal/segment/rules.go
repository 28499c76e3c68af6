// Package segment assigns each scored customer a named behavioral cohort by
// evaluating an ordered rule table with first-match-wins semantics.
package segment

import (
	"fmt"
	"strings"
)

// Segment names form a closed enumeration; Others is the guaranteed
// catch-all.
const (
	Champions          = "Champions"
	CantLoseThem       = "Can't Lose Them"
	LoyalCustomers     = "Loyal Customers"
	AtRisk             = "At Risk"
	PotentialLoyalists = "Potential Loyalists"
	NewCustomers       = "New Customers"
	Promising          = "Promising"
	AboutToSleep       = "About to Sleep"
	NeedAttention      = "Need Attention"
	Lost               = "Lost"
	Hibernating        = "Hibernating"
	Others             = "Others"
)

// Bound is an inclusive score range. Zero Min means no lower bound, zero Max
// means no upper bound.
type Bound struct {
	Min int `yaml:"min,omitempty"`
	Max int `yaml:"max,omitempty"`
}

// Matches reports whether a score falls inside the bound.
func (b Bound) Matches(v int) bool {
	if b.Min > 0 && v < b.Min {
		return false
	}
	if b.Max > 0 && v > b.Max {
		return false
	}
	return true
}

func (b Bound) describe(metric string) string {
	switch {
	case b.Min > 0 && b.Max > 0 && b.Min == b.Max:
		return fmt.Sprintf("%s=%d", metric, b.Min)
	case b.Min > 0 && b.Max > 0:
		return fmt.Sprintf("%d<=%s<=%d", b.Min, metric, b.Max)
	case b.Min > 0:
		return fmt.Sprintf("%s>=%d", metric, b.Min)
	case b.Max > 0:
		return fmt.Sprintf("%s<=%d", metric, b.Max)
	}
	return ""
}

// Rule pairs a segment name with threshold bounds over the three scores.
type Rule struct {
	Segment string `yaml:"segment"`
	R       Bound  `yaml:"r,omitempty"`
	F       Bound  `yaml:"f,omitempty"`
	M       Bound  `yaml:"m,omitempty"`
}

// Matches reports whether the rule covers a score triple.
func (r Rule) Matches(rs, fs, ms int) bool {
	return r.R.Matches(rs) && r.F.Matches(fs) && r.M.Matches(ms)
}

// Describe renders the rule's thresholds for the audit listing.
func (r Rule) Describe() string {
	var parts []string
	for _, s := range []string{r.R.describe("r"), r.F.describe("f"), r.M.describe("m")} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "always"
	}
	return strings.Join(parts, " and ")
}

// DefaultRules is the canonical ordered rule table over a 1-5 scale.
// Evaluation order is part of the contract: Can't Lose Them must precede
// Loyal Customers and Lost must precede Hibernating, or the earlier rule
// shadows them. Others is the mandatory final catch-all.
func DefaultRules() []Rule {
	return []Rule{
		{Segment: Champions, R: Bound{Min: 4}, F: Bound{Min: 4}, M: Bound{Min: 4}},
		{Segment: CantLoseThem, R: Bound{Max: 2}, F: Bound{Min: 4}, M: Bound{Min: 4}},
		{Segment: LoyalCustomers, F: Bound{Min: 4}, M: Bound{Min: 4}},
		{Segment: AtRisk, R: Bound{Max: 2}, F: Bound{Min: 3}, M: Bound{Min: 3}},
		{Segment: PotentialLoyalists, R: Bound{Min: 4}, F: Bound{Min: 3}},
		{Segment: NewCustomers, R: Bound{Min: 4}, F: Bound{Max: 2}},
		{Segment: Promising, R: Bound{Min: 3}, F: Bound{Min: 2}},
		{Segment: AboutToSleep, R: Bound{Min: 3, Max: 3}, F: Bound{Max: 2}},
		{Segment: NeedAttention, R: Bound{Min: 2}, F: Bound{Min: 2}},
		{Segment: Lost, R: Bound{Max: 1}, F: Bound{Max: 1}},
		{Segment: Hibernating, R: Bound{Max: 2}, F: Bound{Max: 2}},
		{Segment: Others},
	}
}
