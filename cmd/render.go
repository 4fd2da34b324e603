package cmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sugimori/git-analyzer/internal/domain"
)

// topContributors caps the contributor table; the full list still goes into
// the export artifacts.
const topContributors = 10

// renderResult writes the human-readable view of an analysis result.
func renderResult(w io.Writer, result *domain.AnalysisResult) {
	renderOverview(w, result)
	renderLanguages(w, result.Languages)
	renderContributors(w, result.Contributors)
	renderActivity(w, result)
}

func renderOverview(w io.Writer, result *domain.AnalysisResult) {
	meta := result.Metadata

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(meta.FullName)
	t.AppendRows([]table.Row{
		{"Description", meta.Description},
		{"Stars", humanize.Comma(int64(meta.Stars))},
		{"Forks", humanize.Comma(int64(meta.Forks))},
		{"Default branch", meta.DefaultBranch},
		{"Size", humanize.Bytes(uint64(meta.SizeKB) * 1024)},
	})
	t.Render()
}

func renderLanguages(w io.Writer, languages []domain.LanguageEntry) {
	if len(languages) == 0 {
		fmt.Fprintln(w, "No language data.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Language", "Bytes", "Share"})
	for _, entry := range languages {
		t.AppendRow(table.Row{
			entry.Name,
			humanize.Bytes(uint64(entry.Bytes)),
			fmt.Sprintf("%.1f%%", entry.Percentage),
		})
	}
	t.Render()
}

func renderContributors(w io.Writer, contributors []domain.Contributor) {
	if len(contributors) == 0 {
		fmt.Fprintln(w, "No contributor data.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Contributor", "Contributions"})
	for i, c := range contributors {
		if i == topContributors {
			break
		}
		t.AppendRow(table.Row{i + 1, c.Identity, c.Contributions})
	}
	t.Render()
}

func renderActivity(w io.Writer, result *domain.AnalysisResult) {
	if len(result.Activity) == 0 {
		fmt.Fprintln(w, "No commit activity data.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Day", "Commits"})
	for _, point := range result.Activity {
		t.AppendRow(table.Row{point.Day, point.Count})
	}
	t.AppendFooter(table.Row{
		"mean/day",
		fmt.Sprintf("%.2f (max %d over %d active days)",
			result.Summary.MeanPerDay, result.Summary.MaxPerDay, result.Summary.ActiveDays),
	})
	t.Render()
}
