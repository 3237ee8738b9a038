// Package stats computes descriptive statistics over the loaded artifact:
// dataset totals, per-month call activity, company rankings, and text-length
// distributions by component and speaker type.
package stats

import (
	"math/rand"
	"sort"
	"time"

	descriptive "github.com/montanaflynn/stats"

	"github.com/quinfer/conference-call-transcripts/internal/models"
)

// sampleSeed fixes the text-length sample so identical inputs produce
// identical reports.
const sampleSeed = 20240101

// CountRow is one grouped count, ranked.
type CountRow struct {
	Key   string
	Count int
}

// AvgRow is one grouped average, ranked.
type AvgRow struct {
	Key string
	Avg float64
}

// MonthCount is the call activity of one calendar month (UTC).
type MonthCount struct {
	Month time.Time
	Count int
}

// LengthRow is the text-length distribution of one group.
type LengthRow struct {
	Key    string
	Count  int
	Mean   float64
	Median float64
	P90    float64
	P99    float64
	Min    int
	Max    int
}

// Summary is the headline view of the dataset.
type Summary struct {
	TotalRows         int
	DistinctCompanies int
	FirstCall         *time.Time
	LastCall          *time.Time
	ComponentTypes    []CountRow
	SpeakerTypes      []CountRow
}

// Summarize computes the headline statistics in one pass.
func Summarize(components []models.Component) Summary {
	s := Summary{TotalRows: len(components)}

	// Companies are keyed by name here and in TopCompanies so the headline
	// count and the ranking agree on what a company is.
	companies := make(map[string]bool)
	for _, c := range components {
		companies[c.CompanyName] = true
		if c.CallDate != nil {
			if s.FirstCall == nil || c.CallDate.Before(*s.FirstCall) {
				s.FirstCall = c.CallDate
			}
			if s.LastCall == nil || c.CallDate.After(*s.LastCall) {
				s.LastCall = c.CallDate
			}
		}
	}
	s.DistinctCompanies = len(companies)

	s.ComponentTypes = countBy(components, func(c models.Component) string { return c.ComponentType })
	s.SpeakerTypes = countBy(components, func(c models.Component) string { return c.SpeakerType })
	return s
}

// MonthlyCounts buckets components by the calendar month of the call
// timestamp. Components without a call timestamp are excluded from the
// buckets and returned as the undated count. Buckets come back in
// chronological order.
func MonthlyCounts(components []models.Component) (buckets []MonthCount, undated int) {
	byMonth := make(map[time.Time]int)
	for _, c := range components {
		if c.CallDate == nil {
			undated++
			continue
		}
		byMonth[truncateToMonth(*c.CallDate)]++
	}

	buckets = make([]MonthCount, 0, len(byMonth))
	for month, count := range byMonth {
		buckets = append(buckets, MonthCount{Month: month, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month.Before(buckets[j].Month) })
	return buckets, undated
}

// MostActiveMonths returns the n busiest months, busiest first. Ties keep
// chronological order.
func MostActiveMonths(buckets []MonthCount, n int) []MonthCount {
	top := make([]MonthCount, len(buckets))
	copy(top, buckets)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Count > top[j].Count })
	if n > 0 && n < len(top) {
		top = top[:n]
	}
	return top
}

// TopCompanies ranks companies by component count, largest first, keeping at
// most n. Ties rank by first appearance in the artifact so identical inputs
// produce identical rankings.
func TopCompanies(components []models.Component, n int) []CountRow {
	rows := countBy(components, func(c models.Component) string { return c.CompanyName })
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// AvgComponentsPerCall ranks companies by the average number of components
// per transcript, keeping at most n.
func AvgComponentsPerCall(components []models.Component, n int) []AvgRow {
	type callKey struct{ company, transcript string }

	perCall := make(map[callKey]int)
	firstSeen := make(map[string]int)
	for i, c := range components {
		perCall[callKey{c.CompanyName, c.TranscriptID}]++
		if _, ok := firstSeen[c.CompanyName]; !ok {
			firstSeen[c.CompanyName] = i
		}
	}

	sums := make(map[string]int)
	calls := make(map[string]int)
	for key, count := range perCall {
		sums[key.company] += count
		calls[key.company]++
	}

	rows := make([]AvgRow, 0, len(sums))
	for company, total := range sums {
		rows = append(rows, AvgRow{Key: company, Avg: float64(total) / float64(calls[company])})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Avg == rows[j].Avg {
			return firstSeen[rows[i].Key] < firstSeen[rows[j].Key]
		}
		return rows[i].Avg > rows[j].Avg
	})

	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// TextLengths computes text-length distributions grouped by key, computed
// over a fixed-seed random sample of at most sampleSize components
// (0 = no cap). Groups come back largest first.
func TextLengths(components []models.Component, key func(models.Component) string, sampleSize int) []LengthRow {
	sampled := sample(components, sampleSize)

	lengths := make(map[string][]float64)
	firstSeen := make(map[string]int)
	for i, c := range sampled {
		k := key(c)
		lengths[k] = append(lengths[k], float64(len(c.Text)))
		if _, ok := firstSeen[k]; !ok {
			firstSeen[k] = i
		}
	}

	rows := make([]LengthRow, 0, len(lengths))
	for k, data := range lengths {
		row := LengthRow{Key: k, Count: len(data)}
		row.Mean, _ = descriptive.Mean(data)
		row.Median, _ = descriptive.Median(data)
		row.P90, _ = descriptive.Percentile(data, 90)
		row.P99, _ = descriptive.Percentile(data, 99)
		minV, _ := descriptive.Min(data)
		maxV, _ := descriptive.Max(data)
		row.Min = int(minV)
		row.Max = int(maxV)
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return firstSeen[rows[i].Key] < firstSeen[rows[j].Key]
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}

func countBy(components []models.Component, key func(models.Component) string) []CountRow {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, c := range components {
		k := key(c)
		counts[k]++
		if _, ok := firstSeen[k]; !ok {
			firstSeen[k] = i
		}
	}

	rows := make([]CountRow, 0, len(counts))
	for k, count := range counts {
		rows = append(rows, CountRow{Key: k, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return firstSeen[rows[i].Key] < firstSeen[rows[j].Key]
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}

func sample(components []models.Component, size int) []models.Component {
	if size <= 0 || size >= len(components) {
		return components
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	picked := make([]models.Component, 0, size)
	for _, i := range rng.Perm(len(components))[:size] {
		picked = append(picked, components[i])
	}
	return picked
}

func truncateToMonth(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC)
}
