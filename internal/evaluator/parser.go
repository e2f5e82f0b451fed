package evaluator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

// ParseEvaluation decodes and validates the LLM's evaluation JSON.
// Any structural problem is returned as an error; the grader treats it
// the same as a failed evaluator call.
func ParseEvaluation(responseBody string) (*models.AIEssayEvaluation, error) {
	cleaned := stripCodeFences(responseBody)

	var eval models.AIEssayEvaluation
	if err := json.Unmarshal([]byte(cleaned), &eval); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation response: %w", err)
	}

	if err := validateEvaluation(&eval); err != nil {
		return nil, err
	}

	return &eval, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateEvaluation(eval *models.AIEssayEvaluation) error {
	if eval.OverallScore < 0 || eval.OverallScore > 100 {
		return fmt.Errorf("overall_score %d outside range [0, 100]", eval.OverallScore)
	}
	if eval.Confidence < 0 || eval.Confidence > 1 {
		return fmt.Errorf("confidence %f outside range [0.0, 1.0]", eval.Confidence)
	}
	for i, cs := range eval.CriteriaScores {
		if !models.ValidCriteria[cs.Criteria] {
			return fmt.Errorf("criteria_scores[%d]: unknown criteria %q", i, cs.Criteria)
		}
		if cs.Score < 0 || cs.Score > 100 {
			return fmt.Errorf("criteria_scores[%d]: score %d outside range [0, 100]", i, cs.Score)
		}
	}
	return nil
}
