package domain

import "fmt"

// Stage identifies which step of an analysis run produced a failure.
type Stage string

const (
	StageResolve      Stage = "resolve"
	StageMetadata     Stage = "metadata"
	StageLanguages    Stage = "languages"
	StageContributors Stage = "contributors"
	StageCommits      Stage = "commits"
)

// InputError reports an unparseable repository identifier. It is recoverable:
// the user corrects the input and retries.
type InputError struct {
	Input  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid repository identifier %q: %s", e.Input, e.Reason)
}

// APIError reports a failed remote call. StatusCode is the HTTP status when
// the remote answered, and zero for transport-level failures (DNS, timeout,
// connection reset). Calls are single-attempt; there is no retry to hide the
// failure behind.
type APIError struct {
	Stage      Stage
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s fetch failed with status %d: %v", e.Stage, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s fetch failed: %v", e.Stage, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// AnalysisError is the single user-visible failure published for a run.
type AnalysisError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed at %s stage: %s", e.Stage, e.Message)
}

func (e *AnalysisError) Unwrap() error { return e.Err }
