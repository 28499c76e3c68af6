package rfm

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cohortlab/rfmctl/internal/events"
)

// DefaultBins is the scoring scale used when none is configured.
const DefaultBins = 5

// Method selects how metric values are bucketed into scores.
type Method string

const (
	// MethodQuantile buckets each metric into groups of roughly equal
	// population.
	MethodQuantile Method = "quantile"
	// MethodEqualWidth splits the observed range into equal-width
	// intervals instead.
	MethodEqualWidth Method = "equal-width"
)

// ParseMethod resolves a user-supplied method name.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(MethodQuantile):
		return MethodQuantile, nil
	case string(MethodEqualWidth), "equalwidth", "equal_width":
		return MethodEqualWidth, nil
	}
	return "", fmt.Errorf("unsupported scoring method %q (use quantile|equal-width)", s)
}

// Score buckets each RFM metric into ordinal scores in [1, bins]. Recency is
// scored inverted: the most recently active customers get the highest score.
// Skewed metrics whose quantile cuts coincide degrade to fewer, renumbered
// levels rather than failing.
func Score(records []Record, method Method, bins int, obs events.Observer) ([]Scored, error) {
	if obs == nil {
		obs = events.Nop
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	var bucket func(vals []float64, bins int) ([]int, int)
	switch method {
	case "", MethodQuantile:
		bucket = quantileScores
	case MethodEqualWidth:
		bucket = equalWidthScores
	default:
		return nil, fmt.Errorf("unsupported scoring method %q", method)
	}

	rec := make([]float64, len(records))
	freq := make([]float64, len(records))
	mon := make([]float64, len(records))
	for i, r := range records {
		rec[i] = float64(r.Recency)
		freq[i] = float64(r.Frequency)
		mon[i] = r.Monetary
	}

	rScores, rLevels := bucket(rec, bins)
	fScores, fLevels := bucket(freq, bins)
	mScores, mLevels := bucket(mon, bins)
	for i := range rScores {
		// Low recency is good: flip onto the same scale.
		rScores[i] = rLevels + 1 - rScores[i]
	}
	obs.Event(events.Event{Stage: "score", Message: "scored", Fields: map[string]any{
		"method":   string(method),
		"bins":     bins,
		"r_levels": rLevels,
		"f_levels": fLevels,
		"m_levels": mLevels,
	}})

	out := make([]Scored, len(records))
	for i, r := range records {
		s := Scored{
			Record: r,
			RScore: rScores[i],
			FScore: fScores[i],
			MScore: mScores[i],
		}
		s.Code = fmt.Sprintf("%d%d%d", s.RScore, s.FScore, s.MScore)
		s.Total = s.RScore + s.FScore + s.MScore
		out[i] = s
	}
	return out, nil
}

// quantileScores assigns each value the index of its quantile bucket, then
// renumbers the buckets actually used to a contiguous 1..levels. Duplicate
// quantile cuts merge buckets; fewer than bins levels may come back.
func quantileScores(vals []float64, bins int) ([]int, int) {
	if len(vals) == 0 {
		return nil, 1
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	var edges []float64
	for i := 1; i < bins; i++ {
		q := quantile(sorted, float64(i)/float64(bins))
		if len(edges) == 0 || q > edges[len(edges)-1] {
			edges = append(edges, q)
		}
	}

	// Right-closed intervals: a value sitting exactly on a cut belongs to
	// the lower bucket.
	raw := make([]int, len(vals))
	for i, v := range vals {
		s := 1
		for _, e := range edges {
			if e < v {
				s++
			}
		}
		raw[i] = s
	}
	return renumber(raw)
}

// equalWidthScores splits [min, max] into bins equal intervals. A metric
// with a single observed value collapses to one level.
func equalWidthScores(vals []float64, bins int) ([]int, int) {
	if len(vals) == 0 {
		return nil, 1
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	scores := make([]int, len(vals))
	if hi == lo {
		for i := range scores {
			scores[i] = 1
		}
		return scores, 1
	}
	width := (hi - lo) / float64(bins)
	for i, v := range vals {
		s := int((v-lo)/width) + 1
		if s > bins {
			s = bins
		}
		scores[i] = s
	}
	return scores, bins
}

// renumber maps the distinct scores present onto 1..levels, dropping gaps
// left by merged or empty buckets.
func renumber(scores []int) ([]int, int) {
	used := make(map[int]struct{}, len(scores))
	for _, s := range scores {
		used[s] = struct{}{}
	}
	distinct := make([]int, 0, len(used))
	for s := range used {
		distinct = append(distinct, s)
	}
	sort.Ints(distinct)
	rank := make(map[int]int, len(distinct))
	for i, s := range distinct {
		rank[s] = i + 1
	}
	out := make([]int, len(scores))
	for i, s := range scores {
		out[i] = rank[s]
	}
	levels := len(distinct)
	if levels == 0 {
		levels = 1
	}
	return out, levels
}

// quantile returns the q-th quantile of sorted values with linear
// interpolation between ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
