package usecase

import (
	"context"
	"errors"
	"log"

	"github.com/google/go-github/v62/github"
	"golang.org/x/sync/errgroup"

	"github.com/sugimori/git-analyzer/internal/domain"
	"github.com/sugimori/git-analyzer/internal/gateway"
	"github.com/sugimori/git-analyzer/internal/resolver"
)

// fallbackBranch is used when the metadata record carries no default branch.
const fallbackBranch = "main"

// ErrSuperseded is returned to a run whose outcome was discarded because a
// newer run started on the same session before it could publish.
var ErrSuperseded = errors.New("analysis run superseded by a newer run")

// Analyzer is the use case that drives one repository analysis from raw
// input to a published result. It orchestrates the resolver, the gateway,
// and the pure aggregation transforms.
type Analyzer struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer(fetcher gateway.Fetcher, logger *log.Logger) *Analyzer {
	return &Analyzer{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Run performs one end-to-end analysis: resolve, fetch metadata, fetch
// languages, fetch contributors and commits concurrently, aggregate, publish.
// Metadata must complete first because the commits fetch is scoped to the
// default branch. A failure at any stage aborts the remaining stages and
// publishes the failure; no partial result is ever published. When a newer
// run supersedes this one, its outcome is discarded and ErrSuperseded is
// returned.
func (a *Analyzer) Run(ctx context.Context, session *Session, rawInput string) (*domain.AnalysisResult, error) {
	gen := session.begin()
	a.logger.Printf("Usecase: starting analysis run %d for input %q...", gen, rawInput)

	ref, err := resolver.Resolve(rawInput)
	if err != nil {
		// Resolution failure: no network calls are made.
		return nil, a.abort(session, gen, domain.StageResolve, err)
	}

	if !session.transition(gen, StateFetchingMetadata) {
		return nil, ErrSuperseded
	}
	meta, err := a.fetcher.FetchMetadata(ctx, ref)
	if err != nil {
		return nil, a.abort(session, gen, domain.StageMetadata, err)
	}
	branch := meta.DefaultBranch
	if branch == "" {
		branch = fallbackBranch
	}

	if !session.transition(gen, StateFetchingLanguages) {
		return nil, ErrSuperseded
	}
	rawLanguages, err := a.fetcher.FetchLanguages(ctx, ref)
	if err != nil {
		return nil, a.abort(session, gen, domain.StageLanguages, err)
	}
	// Languages aggregate as soon as their payload arrives; the transform is
	// pure and does not depend on the remaining fetches.
	languages := AggregateLanguages(rawLanguages)

	if !session.transition(gen, StateFetchingContributorsAndCommits) {
		return nil, ErrSuperseded
	}
	var rawContributors []*github.Contributor
	var rawCommits []*github.RepositoryCommit

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		rawContributors, err = a.fetcher.FetchContributors(egCtx, ref)
		return err
	})
	eg.Go(func() error {
		var err error
		rawCommits, err = a.fetcher.FetchCommits(egCtx, ref, branch)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, a.abort(session, gen, domain.StageCommits, err)
	}

	if !session.transition(gen, StateAggregating) {
		return nil, ErrSuperseded
	}
	activity := AggregateCommitActivity(rawCommits)
	result := &domain.AnalysisResult{
		Ref:          ref,
		Metadata:     meta,
		Languages:    languages,
		Contributors: AggregateContributors(rawContributors),
		Activity:     activity,
		Summary:      SummarizeActivity(activity),
	}

	if !session.publish(gen, result) {
		a.logger.Printf("Usecase: run %d superseded, discarding result.", gen)
		return nil, ErrSuperseded
	}
	a.logger.Printf("Usecase: run %d complete.", gen)
	return result, nil
}

// abort publishes a stage failure and returns the user-visible error. The
// stage recorded on an APIError wins over the fallback, so a concurrent
// fetch failure is attributed to the endpoint that actually failed.
func (a *Analyzer) abort(session *Session, gen uint64, fallback domain.Stage, err error) error {
	stage := fallback
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		stage = apiErr.Stage
	}

	failure := &domain.AnalysisError{Stage: stage, Message: err.Error(), Err: err}
	if !session.fail(gen, failure) {
		return ErrSuperseded
	}
	a.logger.Printf("Usecase: run %d failed at %s stage: %v", gen, stage, err)
	return failure
}
