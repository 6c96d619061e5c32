package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vladstelmakh/clean-folder/cleanfolder/filesystem/types"
)

func renderSummary(report *types.RunReport) string {
	rows := [][]string{
		{"Run", report.RunID.String()},
		{"Folder", report.Root},
	}

	renamed := strconv.Itoa(report.Rename.Renamed)
	if report.Rename.Aborted {
		renamed += " (aborted)"
	}
	rows = append(rows, []string{"Renamed", renamed})

	if report.Inventory != nil {
		rows = append(rows,
			[]string{"Classified", strconv.Itoa(report.Inventory.Registry.Total())},
			[]string{"Unknown extensions", strconv.Itoa(len(report.Inventory.Unknown))},
		)
		for _, name := range report.Inventory.Registry.Categories() {
			if n, ok := report.Sort.Moved[name]; ok {
				rows = append(rows, []string{"Moved to " + name, strconv.Itoa(n)})
			}
		}
	}

	if report.Sort.Skipped > 0 {
		rows = append(rows, []string{"Skipped", strconv.Itoa(report.Sort.Skipped)})
	}
	rows = append(rows,
		[]string{"Archives extracted", fmt.Sprintf("%d (%s)", report.Sort.Extracted, humanize.Bytes(uint64(report.Sort.ExtractedBytes)))},
		[]string{"Folders removed", strconv.Itoa(len(report.Cleanup.Removed))},
	)
	if len(report.Cleanup.Failed) > 0 {
		rows = append(rows, []string{"Folders not removed", strconv.Itoa(len(report.Cleanup.Failed))})
	}
	rows = append(rows, []string{"Duration", report.Duration.Round(time.Millisecond).String()})

	return summaryTable(rows)
}

// summaryTable lays out step/result pairs with the results right-aligned.
func summaryTable(rows [][]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle("clean-folder run")
	tw.AppendHeader(table.Row{"Step", "Result"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Result", Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}
