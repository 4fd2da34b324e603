// Package usecase contains the business logic of the application.
package usecase

import (
	"math"
	"sort"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/montanaflynn/stats"

	"github.com/sugimori/git-analyzer/internal/domain"
)

const dayLayout = "2006-01-02"

// AggregateLanguages turns a language byte-count map into a percentage table.
// A zero total yields 0.0 for every entry instead of dividing by zero.
// Entries are ordered by descending byte count, ties broken by name, so the
// output is deterministic for a given input map.
func AggregateLanguages(byteCounts map[string]int) []domain.LanguageEntry {
	total := 0
	for _, count := range byteCounts {
		total += count
	}

	entries := make([]domain.LanguageEntry, 0, len(byteCounts))
	for name, count := range byteCounts {
		percentage := 0.0
		if total > 0 {
			// Rounded to one decimal place.
			percentage = math.Round(float64(count)/float64(total)*1000) / 10
		}
		entries = append(entries, domain.LanguageEntry{
			Name:       name,
			Bytes:      count,
			Percentage: percentage,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Bytes != entries[j].Bytes {
			return entries[i].Bytes > entries[j].Bytes
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// AggregateContributors normalizes raw contributor records. Identity falls
// back from login to name to the literal "anon"; missing contribution counts
// default to zero. Structurally unusable records (nil) are skipped, never
// fatal. Source ordering is preserved, not re-sorted.
func AggregateContributors(raw []*github.Contributor) []domain.Contributor {
	contributors := make([]domain.Contributor, 0, len(raw))
	for _, record := range raw {
		if record == nil {
			continue
		}
		identity := record.GetLogin()
		if identity == "" {
			identity = record.GetName()
		}
		if identity == "" {
			identity = "anon"
		}
		contributors = append(contributors, domain.Contributor{
			Identity:      identity,
			AvatarRef:     record.GetAvatarURL(),
			Contributions: record.GetContributions(),
		})
	}
	return contributors
}

// AggregateCommitActivity buckets raw commits by UTC calendar day. The author
// timestamp is preferred, the committer timestamp is the fallback, and a
// commit with neither is skipped. The series is sorted ascending by day and
// holds at most one point per day.
func AggregateCommitActivity(raw []*github.RepositoryCommit) []domain.CommitActivityPoint {
	buckets := make(map[string]int)
	for _, record := range raw {
		when, ok := commitTimestamp(record)
		if !ok {
			continue
		}
		buckets[when.UTC().Format(dayLayout)]++
	}

	points := make([]domain.CommitActivityPoint, 0, len(buckets))
	for day, count := range buckets {
		points = append(points, domain.CommitActivityPoint{Day: day, Count: count})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Day < points[j].Day
	})
	return points
}

// commitTimestamp extracts the author-or-committer timestamp of a raw commit.
func commitTimestamp(record *github.RepositoryCommit) (time.Time, bool) {
	if record == nil || record.GetCommit() == nil {
		return time.Time{}, false
	}
	commit := record.GetCommit()
	if ts := commit.GetAuthor().GetDate(); !ts.IsZero() {
		return ts.Time, true
	}
	if ts := commit.GetCommitter().GetDate(); !ts.IsZero() {
		return ts.Time, true
	}
	return time.Time{}, false
}

// SummarizeActivity computes summary statistics over the daily commit series.
func SummarizeActivity(points []domain.CommitActivityPoint) domain.ActivitySummary {
	if len(points) == 0 {
		return domain.ActivitySummary{}
	}

	counts := make([]float64, 0, len(points))
	total := 0
	for _, point := range points {
		counts = append(counts, float64(point.Count))
		total += point.Count
	}

	mean, _ := stats.Mean(counts)
	mean, _ = stats.Round(mean, 2)
	max, _ := stats.Max(counts)

	return domain.ActivitySummary{
		TotalCommits: total,
		ActiveDays:   len(points),
		MeanPerDay:   mean,
		MaxPerDay:    int(max),
	}
}
