// Package domain contains the core data structures and domain logic for the application.
package domain

// RepositoryRef uniquely names a remote repository as an owner/name pair.
// It is only ever produced by the resolver and is immutable afterwards.
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// String returns the canonical "owner/name" form.
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// RepositoryMetadata is the read-only repository record fetched from the
// remote API. It lives for exactly one analysis run.
type RepositoryMetadata struct {
	FullName      string `json:"full_name"`
	Description   string `json:"description"`
	Stars         int    `json:"stars"`
	Forks         int    `json:"forks"`
	DefaultBranch string `json:"default_branch"`
	SizeKB        int    `json:"size_kb"`
	OwnerAvatar   string `json:"owner_avatar,omitempty"`
}

// LanguageEntry is one row of the language breakdown. Percentage is derived
// from Bytes against the run's total and is never persisted on its own.
type LanguageEntry struct {
	Name       string  `json:"name"`
	Bytes      int     `json:"bytes"`
	Percentage float64 `json:"percentage"`
}

// Contributor is a normalized contributor record. Identity falls back to
// "anon" when the source record carries neither a login nor a name.
type Contributor struct {
	Identity      string `json:"login"`
	AvatarRef     string `json:"avatar_url,omitempty"`
	Contributions int    `json:"contributions"`
}

// CommitActivityPoint is one UTC calendar day's commit count.
type CommitActivityPoint struct {
	Day   string `json:"day"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// ActivitySummary holds summary statistics over the daily commit series.
type ActivitySummary struct {
	TotalCommits int     `json:"total_commits"`
	ActiveDays   int     `json:"active_days"`
	MeanPerDay   float64 `json:"mean_per_day"`
	MaxPerDay    int     `json:"max_per_day"`
}

// AnalysisResult is the aggregate produced atomically by one orchestrator
// run. A prior result is fully discarded before a new run starts.
type AnalysisResult struct {
	Ref          RepositoryRef         `json:"ref"`
	Metadata     *RepositoryMetadata   `json:"metadata"`
	Languages    []LanguageEntry       `json:"languages"`
	Contributors []Contributor         `json:"contributors"`
	Activity     []CommitActivityPoint `json:"activity"`
	Summary      ActivitySummary       `json:"summary"`
}
