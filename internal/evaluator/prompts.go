package evaluator

import (
	"fmt"
	"strings"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

const essaySystemPrompt = `You are an experienced Korean academy instructor grading a student's essay answer against a model answer. Score fairly and consistently on a 0-100 scale across four criteria: accuracy, completeness, logic, expression. Write all feedback in Korean. Respond with JSON only.`

// BuildEssayPrompt renders the grading request for the LLM. The detail
// level controls how much per-criteria feedback is requested.
func BuildEssayPrompt(req models.EssayEvaluationRequest) string {
	var sb strings.Builder

	sb.WriteString("QUESTION:\n")
	sb.WriteString(req.Question)
	sb.WriteString("\n\nMODEL ANSWER:\n")
	sb.WriteString(req.CorrectAnswer)

	if req.Solution != "" {
		sb.WriteString("\n\nWORKED SOLUTION:\n")
		sb.WriteString(req.Solution)
	}

	sb.WriteString("\n\nSTUDENT ANSWER:\n")
	sb.WriteString(req.StudentAnswer)

	feedbackInstruction := "Give one or two sentences of feedback per criteria."
	if req.DetailLevel == models.DetailBasic {
		feedbackInstruction = "Keep each feedback field to a single short sentence."
	}

	sb.WriteString(fmt.Sprintf(`

Grade the student answer against the model answer. %s

Respond with JSON only:
{
  "overall_score": 85,
  "criteria_scores": [
    {"criteria": "accuracy", "score": 90, "feedback": "..."},
    {"criteria": "completeness", "score": 80, "feedback": "..."},
    {"criteria": "logic", "score": 85, "feedback": "..."},
    {"criteria": "expression", "score": 85, "feedback": "..."}
  ],
  "overall_feedback": "...",
  "strengths": ["..."],
  "improvements": ["..."],
  "confidence": 0.9
}

overall_score and each criteria score must be integers from 0 to 100.
criteria must be exactly: "accuracy", "completeness", "logic", "expression".
confidence must be a number from 0.0 to 1.0.
All feedback text must be written in Korean.`, feedbackInstruction))

	return sb.String()
}
