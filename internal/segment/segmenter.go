package segment

import (
	"math"

	"github.com/cohortlab/rfmctl/internal/dataset"
	"github.com/cohortlab/rfmctl/internal/events"
	"github.com/cohortlab/rfmctl/internal/rfm"
)

// Customer is a scored record with its assigned cohort.
type Customer struct {
	rfm.Scored
	Segment string
}

// Assign labels every scored record with the first rule that matches its
// score triple. Every record gets exactly one segment: the table ends in a
// catch-all, and Others is applied defensively if a caller-supplied table
// does not. Population counts and percentage shares are reported to the
// observer.
func Assign(scored []rfm.Scored, rules []Rule, obs events.Observer) []Customer {
	if obs == nil {
		obs = events.Nop
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	out := make([]Customer, len(scored))
	counts := make(map[string]int)
	for i, s := range scored {
		name := Others
		for _, r := range rules {
			if r.Matches(s.RScore, s.FScore, s.MScore) {
				name = r.Segment
				break
			}
		}
		out[i] = Customer{Scored: s, Segment: name}
		counts[name]++
	}

	total := len(scored)
	for _, r := range rules {
		n := counts[r.Segment]
		if n == 0 {
			continue
		}
		pct := 0.0
		if total > 0 {
			pct = math.Round(float64(n)/float64(total)*10000) / 100
		}
		obs.Event(events.Event{Stage: "segment", Message: r.Segment, Fields: map[string]any{
			"customers": n,
			"share_pct": pct,
		}})
	}
	return out
}

// Table renders segmented customers as a flat table for export.
func Table(customers []Customer) *dataset.Table {
	header := []string{"CustomerID", "Recency", "Frequency", "Monetary", "R_Score", "F_Score", "M_Score", "RFM_Code", "Segment"}
	rows := make([][]string, len(customers))
	for i, c := range customers {
		rows[i] = []string{
			c.CustomerID,
			dataset.FormatInt(int64(c.Recency)),
			dataset.FormatInt(int64(c.Frequency)),
			dataset.FormatFloat(c.Monetary),
			dataset.FormatInt(int64(c.RScore)),
			dataset.FormatInt(int64(c.FScore)),
			dataset.FormatInt(int64(c.MScore)),
			c.Code,
			c.Segment,
		}
	}
	return dataset.New(header, rows)
}
