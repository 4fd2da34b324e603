// Package export serializes an analysis result into downloadable artifacts.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sugimori/git-analyzer/internal/domain"
)

// Format selects the artifact kind.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// fallbackToken names artifacts when no repository reference is available.
const fallbackToken = "repository"

// ParseFormat validates a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatJSON, FormatCSV:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unsupported export format %q (supported: json, csv)", name)
	}
}

// Artifact is a named byte payload ready to be written out.
type Artifact struct {
	Name string
	Data []byte
}

// report is the canonical JSON save format. Field order is stable.
type report struct {
	Repo         *domain.RepositoryMetadata   `json:"repo"`
	Languages    []domain.LanguageEntry       `json:"languages"`
	Contributors []reportContributor          `json:"contributors"`
	Commits      []domain.CommitActivityPoint `json:"commits"`
}

type reportContributor struct {
	Login         string `json:"login"`
	Contributions int    `json:"contributions"`
}

// Export serializes the result in the chosen format. Guarding against a
// missing prior analysis is the caller's job, not this package's.
func Export(result *domain.AnalysisResult, format Format) (Artifact, error) {
	switch format {
	case FormatJSON:
		return exportJSON(result)
	case FormatCSV:
		return exportCSV(result)
	default:
		return Artifact{}, fmt.Errorf("unsupported export format %q", format)
	}
}

func exportJSON(result *domain.AnalysisResult) (Artifact, error) {
	contributors := make([]reportContributor, 0, len(result.Contributors))
	for _, c := range result.Contributors {
		contributors = append(contributors, reportContributor{
			Login:         c.Identity,
			Contributions: c.Contributions,
		})
	}

	data, err := json.MarshalIndent(report{
		Repo:         result.Metadata,
		Languages:    result.Languages,
		Contributors: contributors,
		Commits:      result.Activity,
	}, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	return Artifact{Name: baseName(result) + "-git-analyzer.json", Data: data}, nil
}

func exportCSV(result *domain.AnalysisResult) (Artifact, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	records := [][]string{{"login", "contributions"}}
	for _, c := range result.Contributors {
		identity := c.Identity
		if identity == "" {
			identity = "anon"
		}
		records = append(records, []string{identity, strconv.Itoa(c.Contributions)})
	}
	if err := writer.WriteAll(records); err != nil {
		return Artifact{}, fmt.Errorf("failed to write contributor records: %w", err)
	}

	return Artifact{Name: baseName(result) + "-contributors.csv", Data: buf.Bytes()}, nil
}

// baseName derives the artifact name prefix from the canonical owner/name.
func baseName(result *domain.AnalysisResult) string {
	ref := result.Ref
	if ref.Owner == "" || ref.Name == "" {
		return fallbackToken
	}
	return ref.Owner + "-" + ref.Name
}
