package usecase

import (
	"sync"

	"github.com/sugimori/git-analyzer/internal/domain"
)

// State is the observable phase of an analysis run.
type State string

const (
	StateIdle                           State = "idle"
	StateResolving                      State = "resolving"
	StateFetchingMetadata               State = "fetching_metadata"
	StateFetchingLanguages              State = "fetching_languages"
	StateFetchingContributorsAndCommits State = "fetching_contributors_and_commits"
	StateAggregating                    State = "aggregating"
	StateDone                           State = "done"
	StateFailed                         State = "failed"
)

// Session owns the mutable state shared between the UI boundary and the
// orchestrator: the last published result or error, the current run state,
// and the generation counter that makes run-supersedes-run explicit. At most
// one live run's output is ever published; a superseded run's outcome is
// discarded, never merged.
type Session struct {
	mu         sync.Mutex
	generation uint64
	state      State
	result     *domain.AnalysisResult
	lastErr    *domain.AnalysisError
}

// NewSession returns an idle session with no published result.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// begin starts a new run: the prior result and error are fully discarded
// before any work happens, the generation advances, and the returned value
// identifies the run for later transition/publish calls.
func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.state = StateResolving
	s.result = nil
	s.lastErr = nil
	return s.generation
}

// transition moves the session to the given state if the run is still
// current. It reports whether the run has been superseded.
func (s *Session) transition(gen uint64, state State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.state = state
	return true
}

// publish atomically installs a completed result. A stale generation means
// another run has started in the meantime; the result is dropped.
func (s *Session) publish(gen uint64, result *domain.AnalysisResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.state = StateDone
	s.result = result
	s.lastErr = nil
	return true
}

// fail publishes a run failure, unless the run has been superseded.
func (s *Session) fail(gen uint64, failure *domain.AnalysisError) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	s.state = StateFailed
	s.result = nil
	s.lastErr = failure
	return true
}

// State returns the session's current run state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the last published result, or nil when the last run failed
// or no run has completed yet.
func (s *Session) Result() *domain.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Err returns the last published failure, or nil.
func (s *Session) Err() *domain.AnalysisError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
