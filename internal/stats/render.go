package stats

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

const monthLayout = "2006-01"

// Report bundles every computed view for rendering.
type Report struct {
	Summary      Summary
	Monthly      []MonthCount
	Undated      int
	ActiveMonths []MonthCount
	TopCompanies []CountRow
	AvgPerCall   []AvgRow
	ByComponent  []LengthRow
	BySpeaker    []LengthRow
	SampleSize   int
}

// Render writes the full report as console tables.
func Render(out io.Writer, r Report) {
	fmt.Fprintln(out, "=== Basic Dataset Statistics ===")
	fmt.Fprintf(out, "Total rows:         %d\n", r.Summary.TotalRows)
	fmt.Fprintf(out, "Distinct companies: %d\n", r.Summary.DistinctCompanies)
	if r.Summary.FirstCall != nil && r.Summary.LastCall != nil {
		fmt.Fprintf(out, "Call date range:    %s to %s\n",
			r.Summary.FirstCall.Format(time.RFC3339),
			r.Summary.LastCall.Format(time.RFC3339),
		)
	} else {
		fmt.Fprintln(out, "Call date range:    n/a")
	}
	fmt.Fprintln(out)

	renderCounts(out, "Transcript Component Types", "Type", r.Summary.ComponentTypes)
	renderCounts(out, "Speaker Types", "Speaker", r.Summary.SpeakerTypes)

	fmt.Fprintln(out, "=== Temporal Analysis ===")
	renderMonths(out, "Calls per Month", r.Monthly)
	if r.Undated > 0 {
		fmt.Fprintf(out, "Rows without a call date: %d\n\n", r.Undated)
	}
	renderMonths(out, "Most Active Months", r.ActiveMonths)

	fmt.Fprintln(out, "=== Company Analysis ===")
	renderCounts(out, fmt.Sprintf("Top %d Companies by Component Count", len(r.TopCompanies)), "Company", r.TopCompanies)

	if len(r.AvgPerCall) > 0 {
		fmt.Fprintf(out, "Top %d Companies by Average Call Length (components)\n", len(r.AvgPerCall))
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Company", "Avg Components"})
		for _, row := range r.AvgPerCall {
			table.Append([]string{row.Key, strconv.FormatFloat(row.Avg, 'f', 2, 64)})
		}
		table.Render()
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "=== Content Analysis ===")
	if r.SampleSize > 0 {
		fmt.Fprintf(out, "Text statistics computed on a sample of up to %d rows\n", r.SampleSize)
	}
	renderLengths(out, "Text Length by Component Type", "Type", r.ByComponent)
	renderLengths(out, "Text Length by Speaker Type", "Speaker", r.BySpeaker)
}

func renderCounts(out io.Writer, title, keyHeader string, rows []CountRow) {
	fmt.Fprintln(out, title)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{keyHeader, "Count"})
	for _, row := range rows {
		table.Append([]string{row.Key, strconv.Itoa(row.Count)})
	}
	table.Render()
	fmt.Fprintln(out)
}

func renderMonths(out io.Writer, title string, rows []MonthCount) {
	fmt.Fprintln(out, title)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Month", "Calls"})
	for _, row := range rows {
		table.Append([]string{row.Month.Format(monthLayout), strconv.Itoa(row.Count)})
	}
	table.Render()
	fmt.Fprintln(out)
}

func renderLengths(out io.Writer, title, keyHeader string, rows []LengthRow) {
	fmt.Fprintln(out, title)
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{keyHeader, "Count", "Mean", "Median", "P90", "P99", "Min", "Max"})
	for _, row := range rows {
		table.Append([]string{
			row.Key,
			strconv.Itoa(row.Count),
			strconv.FormatFloat(row.Mean, 'f', 1, 64),
			strconv.FormatFloat(row.Median, 'f', 1, 64),
			strconv.FormatFloat(row.P90, 'f', 1, 64),
			strconv.FormatFloat(row.P99, 'f', 1, 64),
			strconv.Itoa(row.Min),
			strconv.Itoa(row.Max),
		})
	}
	table.Render()
	fmt.Fprintln(out)
}
