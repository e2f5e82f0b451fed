package evaluator

import (
	"context"
	"errors"
	"testing"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

type stubLLM struct {
	content string
	err     error
}

func (s *stubLLM) Generate(ctx context.Context, systemPrompt, userPrompt string) (*LLMResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &LLMResponse{Content: s.content}, nil
}

func testRequest() models.EssayEvaluationRequest {
	return models.EssayEvaluationRequest{
		Question:      "설명하시오.",
		CorrectAnswer: "모범답안",
		StudentAnswer: "학생답안",
	}
}

func TestEvaluateStampsModel(t *testing.T) {
	e := NewAIEvaluatorWithClient(&stubLLM{content: validEvaluationJSON}, "test-model")

	eval, err := e.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.ModelUsed != "test-model" {
		t.Errorf("expected model_used %q, got %q", "test-model", eval.ModelUsed)
	}
	if eval.OverallScore != 85 {
		t.Errorf("expected overall_score 85, got %d", eval.OverallScore)
	}
}

func TestEvaluatePropagatesClientError(t *testing.T) {
	e := NewAIEvaluatorWithClient(&stubLLM{err: errors.New("rate limited")}, "test-model")

	if _, err := e.Evaluate(context.Background(), testRequest()); err == nil {
		t.Error("expected an error, got nil")
	}
}

func TestEvaluateRejectsInvalidResponse(t *testing.T) {
	e := NewAIEvaluatorWithClient(&stubLLM{content: "채점 결과는 다음과 같습니다"}, "test-model")

	if _, err := e.Evaluate(context.Background(), testRequest()); err == nil {
		t.Error("expected a parse error, got nil")
	}
}

func TestMockClientResponseParses(t *testing.T) {
	e := NewAIEvaluatorWithClient(NewMockClient(), "mock")

	eval, err := e.Evaluate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("mock evaluation must always parse: %v", err)
	}
	if len(eval.CriteriaScores) != 4 {
		t.Errorf("expected 4 criteria scores, got %d", len(eval.CriteriaScores))
	}
}
