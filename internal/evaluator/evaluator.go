package evaluator

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

// AIEvaluator scores free-text essay answers by asking an LLM to grade
// the student answer against the model answer.
type AIEvaluator struct {
	llm   LLMClient
	model string
}

// NewAIEvaluator selects the backend from the environment:
// MOCK_EVALUATOR=true uses canned responses, otherwise the Anthropic
// API with ANTHROPIC_MODEL (or its default).
func NewAIEvaluator() *AIEvaluator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_EVALUATOR") == "true" {
		llm = NewMockClient()
		log.Println("Essay evaluator using mock responses")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("Essay evaluator using Anthropic API:", model)
	}

	return &AIEvaluator{llm: llm, model: model}
}

// NewAIEvaluatorWithClient wires an explicit client; used in tests.
func NewAIEvaluatorWithClient(llm LLMClient, model string) *AIEvaluator {
	return &AIEvaluator{llm: llm, model: model}
}

func (e *AIEvaluator) ModelName() string {
	return e.model
}

func (e *AIEvaluator) Evaluate(ctx context.Context, req models.EssayEvaluationRequest) (*models.AIEssayEvaluation, error) {
	prompt := BuildEssayPrompt(req)

	resp, err := e.llm.Generate(ctx, essaySystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("essay evaluation call failed: %w", err)
	}

	eval, err := ParseEvaluation(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("essay evaluation response invalid: %w", err)
	}

	eval.ModelUsed = e.model
	return eval, nil
}
