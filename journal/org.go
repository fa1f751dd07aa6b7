package journal

import (
	"fmt"
	"strings"
	"time"
)

// FormatRunOrg renders a RunRecord as an Org-mode block with the measured
// values in a PROPERTIES drawer and an empty Notes heading.
func FormatRunOrg(r RunRecord) string {
	heading := fmt.Sprintf("** Run: %d contracts x%d (%s)", r.Contracts, r.Repeat, shortID(r.RunID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":RUN_ID: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf(":CREATED: %s\n", r.Created.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf(":SOURCE: %s\n", r.Source))
	b.WriteString(fmt.Sprintf(":CONTRACTS: %d\n", r.Contracts))
	b.WriteString(fmt.Sprintf(":SEED: %d\n", r.Seed))
	b.WriteString(fmt.Sprintf(":RATE: %.4f\n", r.Rate))
	b.WriteString(fmt.Sprintf(":VOLATILITY: %.4f\n", r.Volatility))
	b.WriteString(fmt.Sprintf(":WORKERS: %d\n", r.Workers))
	b.WriteString(fmt.Sprintf(":REPEAT: %d\n", r.Repeat))
	b.WriteString(fmt.Sprintf(":MIN: %s\n", r.Min))
	b.WriteString(fmt.Sprintf(":MEAN: %s\n", r.Mean))
	b.WriteString(fmt.Sprintf(":MEDIAN: %s\n", r.Median))
	b.WriteString(fmt.Sprintf(":P95: %s\n", r.P95))
	b.WriteString(fmt.Sprintf(":MAX: %s\n", r.Max))
	b.WriteString(fmt.Sprintf(":THROUGHPUT: %.0f/s\n", r.Throughput()))
	b.WriteString(fmt.Sprintf(":MEAN_CALL: %.6f\n", r.MeanCall))
	b.WriteString(fmt.Sprintf(":MEAN_PUT: %.6f\n", r.MeanPut))
	b.WriteString(fmt.Sprintf(":PARITY_ERROR: %.3g\n", r.ParityError))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Notes\n- \n")

	return b.String()
}

// FormatRunsOrg renders multiple runs separated by blank lines.
func FormatRunsOrg(runs []RunRecord) string {
	var b strings.Builder
	for i, r := range runs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatRunOrg(r))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
