// Package pipeline orchestrates the full evaluation run: normalize each
// raw record, evaluate risk, recommendation, and email draft per
// opportunity, then aggregate the whole set.
//
// Per-opportunity evaluation is embarrassingly parallel (no deal depends
// on another), so it fans out across a bounded worker pool. Results are
// written back by input index, so output order always matches input order
// and aggregation only starts once every worker has finished.
package pipeline

import (
	"sync"

	"github.com/ignite/pipeline-monitor/internal/analytics"
	"github.com/ignite/pipeline-monitor/internal/domain"
	"github.com/ignite/pipeline-monitor/internal/email"
	"github.com/ignite/pipeline-monitor/internal/rules"
)

// defaultWorkers bounds evaluation concurrency when the caller doesn't.
const defaultWorkers = 4

// RecordError ties a validation or rendering failure to its input row.
// Row is the zero-based index into the submitted record slice.
type RecordError struct {
	Row int   `json:"row"`
	Err error `json:"-"`
}

// Message returns the human-readable error text (for JSON responses).
func (e RecordError) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Result is the outcome of one evaluation run. Bad records don't fail the
// batch: Insights holds the successfully evaluated opportunities in input
// order, RecordErrors the rows that were skipped and why.
type Result struct {
	Insights     []domain.Insight
	Metrics      domain.AggregateMetrics
	RecordErrors []RecordError
}

// Normalizer converts one raw field mapping into an Opportunity.
// Satisfied by ingestion.Normalize.
type Normalizer func(raw map[string]string) (domain.Opportunity, error)

// Evaluator wires the core stages together.
type Evaluator struct {
	normalize Normalizer
	engine    *rules.Engine
	drafter   *email.Drafter
	workers   int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkers sets the evaluation fan-out width. Values below 1 mean
// sequential evaluation.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// NewEvaluator creates an evaluator over the given engine and drafter.
func NewEvaluator(normalize Normalizer, engine *rules.Engine, drafter *email.Drafter, opts ...Option) *Evaluator {
	e := &Evaluator{
		normalize: normalize,
		engine:    engine,
		drafter:   drafter,
		workers:   defaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs the full pipeline over a batch of raw records.
func (e *Evaluator) Evaluate(records []map[string]string) Result {
	// Normalization pass: sequential, collecting per-row failures.
	type job struct {
		row int
		opp domain.Opportunity
	}
	jobs := make([]job, 0, len(records))
	var recordErrs []RecordError
	for i, raw := range records {
		opp, err := e.normalize(raw)
		if err != nil {
			recordErrs = append(recordErrs, RecordError{Row: i, Err: err})
			continue
		}
		jobs = append(jobs, job{row: i, opp: opp})
	}

	// Evaluation pass: bounded fan-out, results slotted by index so the
	// output order is the input order regardless of scheduling.
	insights := make([]domain.Insight, len(jobs))
	draftErrs := make([]error, len(jobs))

	workers := e.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	var wg sync.WaitGroup
	jobCh := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				insights[idx], draftErrs[idx] = e.evaluateOne(jobs[idx].opp)
			}
		}()
	}
	for idx := range jobs {
		jobCh <- idx
	}
	close(jobCh)
	wg.Wait()

	// Collapse draft failures into record errors, keeping only the
	// successful insights (in order).
	final := make([]domain.Insight, 0, len(insights))
	for idx, in := range insights {
		if draftErrs[idx] != nil {
			recordErrs = append(recordErrs, RecordError{Row: jobs[idx].row, Err: draftErrs[idx]})
			continue
		}
		final = append(final, in)
	}

	return Result{
		Insights:     final,
		Metrics:      analytics.Aggregate(final),
		RecordErrors: recordErrs,
	}
}

// evaluateOne runs the per-opportunity stages.
func (e *Evaluator) evaluateOne(opp domain.Opportunity) (domain.Insight, error) {
	risk := e.engine.AssessRisk(opp)
	rec := e.engine.Recommend(opp, risk)
	draft, err := e.drafter.Draft(opp, risk, rec)
	if err != nil {
		return domain.Insight{}, err
	}
	return domain.Insight{
		Opportunity:    opp,
		Risk:           risk,
		Recommendation: rec,
		Email:          draft,
	}, nil
}
