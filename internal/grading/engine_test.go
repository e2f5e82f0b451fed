package grading

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

func TestGradeProblemUnknownType(t *testing.T) {
	e := NewEngine(&fakeEvaluator{})
	opts := models.DefaultGradingOptions()
	p := testProblem("x1", models.ProblemType("matching"), models.DifficultyMedium, "a")

	res := e.GradeProblem(context.Background(), p, "a", opts)

	if res.Score != 0 || res.IsCorrect {
		t.Errorf("unknown type should yield zero score, got %d (correct=%v)", res.Score, res.IsCorrect)
	}
	if !strings.Contains(res.Feedback, "지원하지 않는") {
		t.Errorf("expected unsupported-type feedback, got %q", res.Feedback)
	}
	if res.GradingTimeMs < 0 {
		t.Errorf("grading_time_ms must be non-negative, got %d", res.GradingTimeMs)
	}
}

func TestGradeProblemStampsTiming(t *testing.T) {
	e := NewEngine(&fakeEvaluator{eval: &models.AIEssayEvaluation{OverallScore: 50}, delay: 30 * time.Millisecond})
	opts := models.DefaultGradingOptions()
	p := essayProblem()

	res := e.GradeProblem(context.Background(), p, "충분히 긴 학생 답안입니다. 핵심 개념을 설명합니다.", opts)

	if res.GradingTimeMs < 25 {
		t.Errorf("expected grading_time_ms to cover the evaluator delay, got %d", res.GradingTimeMs)
	}
}

func TestGradeAllPreservesInputOrder(t *testing.T) {
	// The essay at index 1 is slow; results must still come back
	// positionally aligned with the input.
	e := NewEngine(&fakeEvaluator{eval: &models.AIEssayEvaluation{OverallScore: 90}, delay: 150 * time.Millisecond})
	opts := models.DefaultGradingOptions()

	pairs := []Pair{
		{Problem: testProblem("p0", models.TypeMultipleChoice, models.DifficultyEasy, "a"), StudentAnswer: "a"},
		{Problem: essayProblem(), StudentAnswer: "충분히 긴 학생 답안입니다. 핵심 개념을 설명합니다."},
		{Problem: testProblem("p2", models.TypeTrueFalse, models.DifficultyEasy, "참"), StudentAnswer: "O"},
		{Problem: testProblem("p3", models.TypeShortAnswer, models.DifficultyHard, "zero"), StudentAnswer: "zero"},
	}

	start := time.Now()
	results := e.GradeAll(context.Background(), pairs, opts)
	elapsed := time.Since(start)

	if len(results) != len(pairs) {
		t.Fatalf("expected %d results, got %d", len(pairs), len(results))
	}
	for i, pair := range pairs {
		if results[i].ProblemID != pair.Problem.ID {
			t.Errorf("result %d: expected problem %s, got %s", i, pair.Problem.ID, results[i].ProblemID)
		}
	}

	// Concurrent dispatch: total wall time tracks the slowest grading,
	// not the sum of all of them.
	if elapsed > 450*time.Millisecond {
		t.Errorf("batch took %v; pairs are not being graded concurrently", elapsed)
	}
}

func TestGradeAllSlowEssayDoesNotCorruptSiblings(t *testing.T) {
	e := NewEngine(&fakeEvaluator{err: context.DeadlineExceeded, delay: 50 * time.Millisecond})
	opts := models.DefaultGradingOptions()

	pairs := []Pair{
		{Problem: testProblem("p0", models.TypeMultipleChoice, models.DifficultyMedium, "2"), StudentAnswer: "②"},
		{Problem: essayProblem(), StudentAnswer: "충분히 긴 학생 답안입니다. 핵심 개념을 설명합니다."},
	}

	results := e.GradeAll(context.Background(), pairs, opts)

	if !results[0].IsCorrect {
		t.Error("sibling multiple-choice result should still be graded correct")
	}
	if results[1].Score != 0 || results[1].Feedback != feedbackEssayAIFailed {
		t.Errorf("failed essay should degrade to zero with failure feedback, got %d / %q",
			results[1].Score, results[1].Feedback)
	}
}

func TestGradeAllEmpty(t *testing.T) {
	e := NewEngine(&fakeEvaluator{})
	results := e.GradeAll(context.Background(), nil, models.DefaultGradingOptions())
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestEssayTimeoutConvertsToFailureResult(t *testing.T) {
	// The evaluator hangs well past the engine's essay timeout; the
	// grader must come back with the deterministic failure result.
	e := NewEngine(
		&fakeEvaluator{eval: &models.AIEssayEvaluation{OverallScore: 95}, delay: 2 * time.Second},
		WithEssayTimeout(50*time.Millisecond),
	)
	opts := models.DefaultGradingOptions()

	start := time.Now()
	res := e.GradeProblem(context.Background(), essayProblem(), "충분히 긴 학생 답안입니다. 핵심 개념을 설명합니다.", opts)
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("timeout not enforced, grading took %v", elapsed)
	}
	if res.Score != 0 || res.Feedback != feedbackEssayAIFailed {
		t.Errorf("expected timeout to degrade to failure result, got %d / %q", res.Score, res.Feedback)
	}
}
