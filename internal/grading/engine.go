package grading

import (
	"context"
	"fmt"
	"time"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
	"golang.org/x/sync/errgroup"
)

// EssayEvaluator is the external capability that scores free-text
// answers. The engine only depends on this contract, so tests can wire
// a deterministic fake.
type EssayEvaluator interface {
	Evaluate(ctx context.Context, req models.EssayEvaluationRequest) (*models.AIEssayEvaluation, error)
}

const defaultEssayTimeout = 90 * time.Second

// Engine dispatches (problem, student answer) pairs to the grader for
// the problem's type. Grading calls are stateless and independent.
type Engine struct {
	evaluator    EssayEvaluator
	essayTimeout time.Duration
}

type Option func(*Engine)

// WithEssayTimeout bounds a single essay evaluation call. A hung
// evaluator fails that one essay; siblings in the batch keep going.
func WithEssayTimeout(d time.Duration) Option {
	return func(e *Engine) { e.essayTimeout = d }
}

func NewEngine(evaluator EssayEvaluator, opts ...Option) *Engine {
	e := &Engine{
		evaluator:    evaluator,
		essayTimeout: defaultEssayTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Pair is one grading work item.
type Pair struct {
	Problem       *models.Problem
	StudentAnswer string
}

// GradeProblem grades one answer and stamps the wall-clock duration.
// It always returns a result; unknown problem types come back as a
// zero-score result with explanatory feedback.
func (e *Engine) GradeProblem(ctx context.Context, p *models.Problem, studentAnswer string, opts models.GradingOptions) models.ProblemGradingResult {
	start := time.Now()

	var res models.ProblemGradingResult
	switch p.Type {
	case models.TypeMultipleChoice:
		res = gradeMultipleChoice(p, studentAnswer, opts)
	case models.TypeTrueFalse:
		res = gradeTrueFalse(p, studentAnswer, opts)
	case models.TypeShortAnswer:
		res = gradeShortAnswer(p, studentAnswer, opts)
	case models.TypeEssay:
		res = e.gradeEssay(ctx, p, studentAnswer, opts)
	default:
		res = newResult(p, studentAnswer)
		if opts.GenerateFeedback {
			res.Feedback = fmt.Sprintf(feedbackUnsupportedFmt, p.Type)
		}
	}

	res.GradingTimeMs = time.Since(start).Milliseconds()
	return res
}

// GradeAll grades every pair concurrently and returns results in input
// order regardless of completion order. One slow or failing grading
// never blocks or corrupts the others.
func (e *Engine) GradeAll(ctx context.Context, pairs []Pair, opts models.GradingOptions) []models.ProblemGradingResult {
	results := make([]models.ProblemGradingResult, len(pairs))

	g, ctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			results[i] = e.GradeProblem(ctx, pair.Problem, pair.StudentAnswer, opts)
			return nil
		})
	}
	g.Wait()

	return results
}
