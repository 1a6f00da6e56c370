package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	m "retype.dev/pkg/retype/internal/model"
)

// FormatCoverage renders the coverage summary, one line per site kind and a
// final average line.
func FormatCoverage(coverage m.Coverage) string {
	var b strings.Builder

	for _, kind := range m.SiteKinds {
		counter := coverage.Counter(kind)
		fmt.Fprintf(&b, "%s: total: %d, typedefs: %d, %.2f%%\n", kind, counter.Total(), counter.Typed, counter.Percent())
	}

	fmt.Fprintf(&b, "total (avg %% of classes + fields + functions): %.2f%%\n", coverage.Average())

	return b.String()
}

func renderCoverageTable(coverage m.Coverage) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Kind", "Total", "Typed", "Skipped", "Coverage"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, kind := range m.SiteKinds {
		counter := coverage.Counter(kind)
		table.Append([]string{
			string(kind),
			fmt.Sprintf("%d", counter.Total()),
			fmt.Sprintf("%d", counter.Typed),
			fmt.Sprintf("%d", counter.Skipped),
			fmt.Sprintf("%.2f%%", counter.Percent()),
		})
	}

	table.SetFooter([]string{"Average", "", "", "", fmt.Sprintf("%.2f%%", coverage.Average())})

	table.Render()

	return tableBuffer.String()
}
