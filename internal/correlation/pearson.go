// ABOUTME: Pearson correlation over date-keyed series with sample guards.
// ABOUTME: Pairs that fail a guard are reported as not computable, never as zero.
package correlation

import (
	"math"
	"sort"

	"github.com/harperreed/wellsync/internal/models"
)

// DefaultMinSamples is the fewest joined dates a coefficient needs.
const DefaultMinSamples = 5

// Series maps a day to one metric value.
type Series map[models.Date]float64

// Dates returns the series' days in ascending order.
func (s Series) Dates() []models.Date {
	dates := make([]models.Date, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Pearson correlates a and b over the dates present in both. It returns
// false when fewer than minSamples dates join or either side is constant.
// The coefficient is clamped to [-1,1] and rounded to two decimals.
func Pearson(a, b Series, minSamples int) (float64, bool) {
	var xs, ys []float64
	for _, d := range a.Dates() {
		y, ok := b[d]
		if !ok {
			continue
		}
		xs = append(xs, a[d])
		ys = append(ys, y)
	}
	if len(xs) < minSamples || len(xs) < 2 {
		return 0, false
	}
	if constant(xs) || constant(ys) {
		return 0, false
	}

	n := float64(len(xs))
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}

	r := cov / math.Sqrt(varX*varY)
	if math.IsNaN(r) {
		return 0, false
	}
	r = math.Max(-1, math.Min(1, r))
	r = math.Round(r*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return r, true
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}
