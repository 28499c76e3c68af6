package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cohortlab/rfmctl/internal/dataset"
)

// Report bundles one pipeline run's summaries for export.
type Report struct {
	RunID       string           `yaml:"run_id"`
	GeneratedAt time.Time        `yaml:"generated_at"`
	Source      string           `yaml:"source,omitempty"`
	Snapshot    time.Time        `yaml:"snapshot"`
	Method      string           `yaml:"method"`
	Bins        int              `yaml:"bins"`
	Dataset     DatasetSummary   `yaml:"dataset"`
	Segments    []SegmentSummary `yaml:"segments"`
}

// YAML renders the report for machine consumers.
func (r *Report) YAML() ([]byte, error) {
	b, err := yaml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return b, nil
}

// Markdown renders a compact report suitable for terminals or standalone
// docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[RFM ANALYSIS]\n")
	if r.Source != "" {
		b.WriteString(fmt.Sprintf("Source: %s\n", r.Source))
	}
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Snapshot: %s\n", r.Snapshot.Format(dataset.TimeLayout)))
	b.WriteString(fmt.Sprintf("Scoring: %s, %d bins\n\n", r.Method, r.Bins))

	b.WriteString("[DATASET]\n")
	d := r.Dataset
	b.WriteString(fmt.Sprintf("Rows: %d\n", d.Rows))
	b.WriteString(fmt.Sprintf("Customers: %d\n", d.UniqueCustomers))
	b.WriteString(fmt.Sprintf("Products: %d\n", d.UniqueProducts))
	if !d.DateStart.IsZero() {
		b.WriteString(fmt.Sprintf("Date range: %s — %s\n",
			d.DateStart.Format("2006-01-02"), d.DateEnd.Format("2006-01-02")))
	}
	b.WriteString(fmt.Sprintf("Total revenue: %.2f\n", d.TotalRevenue))
	if d.NegativeQuantities > 0 || d.NegativePrices > 0 {
		b.WriteString(fmt.Sprintf("WARNING: residual negatives: quantity=%d price=%d\n",
			d.NegativeQuantities, d.NegativePrices))
	}
	if nulls := nonZeroNulls(d.NullCounts); len(nulls) > 0 {
		b.WriteString("Null cells: ")
		b.WriteString(strings.Join(nulls, ", "))
		b.WriteString("\n")
	}

	b.WriteString("\n[SEGMENTS]\n")
	b.WriteString("| Segment | Customers | % | Avg R | Avg F | Avg M | Total M |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, s := range r.Segments {
		b.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
			s.Segment, s.Customers, s.Percentage,
			s.AvgRecency, s.AvgFrequency, s.AvgMonetary, s.TotalMonetary))
	}
	return b.String()
}

func nonZeroNulls(counts map[string]int) []string {
	var out []string
	for name, n := range counts {
		if n > 0 {
			out = append(out, fmt.Sprintf("%s(%d)", name, n))
		}
	}
	sort.Strings(out)
	return out
}
