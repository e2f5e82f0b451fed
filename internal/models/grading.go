package models

import "time"

type EssayDetailLevel string

const (
	DetailBasic    EssayDetailLevel = "basic"
	DetailDetailed EssayDetailLevel = "detailed"
)

// GradingOptions controls how answers are compared and scored.
type GradingOptions struct {
	AllowPartialCredit bool             `json:"allow_partial_credit"`
	UseAIForEssay      bool             `json:"use_ai_for_essay"`
	CaseSensitive      bool             `json:"case_sensitive"`
	IgnoreWhitespace   bool             `json:"ignore_whitespace"`
	GenerateFeedback   bool             `json:"generate_feedback"`
	EssayDetailLevel   EssayDetailLevel `json:"essay_detail_level"`
}

func DefaultGradingOptions() GradingOptions {
	return GradingOptions{
		AllowPartialCredit: true,
		UseAIForEssay:      true,
		CaseSensitive:      false,
		IgnoreWhitespace:   true,
		GenerateFeedback:   true,
		EssayDetailLevel:   DetailDetailed,
	}
}

// ── Essay Evaluation ──────────────────────────────────

type EvaluationCriteria string

const (
	CriteriaAccuracy     EvaluationCriteria = "accuracy"
	CriteriaCompleteness EvaluationCriteria = "completeness"
	CriteriaLogic        EvaluationCriteria = "logic"
	CriteriaExpression   EvaluationCriteria = "expression"
)

var ValidCriteria = map[EvaluationCriteria]bool{
	CriteriaAccuracy:     true,
	CriteriaCompleteness: true,
	CriteriaLogic:        true,
	CriteriaExpression:   true,
}

type CriteriaScore struct {
	Criteria EvaluationCriteria `json:"criteria"`
	Score    int                `json:"score"`
	Feedback string             `json:"feedback"`
}

// EssayEvaluationRequest is the input handed to the essay evaluator.
type EssayEvaluationRequest struct {
	Question      string           `json:"question"`
	CorrectAnswer string           `json:"correct_answer"`
	Solution      string           `json:"solution,omitempty"`
	StudentAnswer string           `json:"student_answer"`
	DetailLevel   EssayDetailLevel `json:"detail_level"`
}

// AIEssayEvaluation is the structured verdict returned by the essay
// evaluator. It is created once per grading call and never mutated.
type AIEssayEvaluation struct {
	OverallScore    int             `json:"overall_score"`
	CriteriaScores  []CriteriaScore `json:"criteria_scores"`
	OverallFeedback string          `json:"overall_feedback"`
	Strengths       []string        `json:"strengths"`
	Improvements    []string        `json:"improvements"`
	ModelUsed       string          `json:"model_used"`
	Confidence      float64         `json:"confidence"`
}

// ── Grading Results ───────────────────────────────────

type ProblemGradingResult struct {
	ProblemID       string             `json:"problem_id"`
	ProblemType     ProblemType        `json:"problem_type"`
	IsCorrect       bool               `json:"is_correct"`
	Score           int                `json:"score"`
	MaxScore        int                `json:"max_score"`
	ScorePercentage int                `json:"score_percentage"`
	CorrectAnswer   string             `json:"correct_answer"`
	StudentAnswer   string             `json:"student_answer"`
	Feedback        string             `json:"feedback,omitempty"`
	GradingTimeMs   int64              `json:"grading_time_ms"`
	AIEvaluation    *AIEssayEvaluation `json:"ai_evaluation,omitempty"`
}

// AccuracyBucket is one row of a per-type or per-difficulty breakdown.
type AccuracyBucket struct {
	Count      int `json:"count"`
	Correct    int `json:"correct"`
	Percentage int `json:"percentage"`
}

type GradingSummary struct {
	TotalProblems        int                           `json:"total_problems"`
	CorrectCount         int                           `json:"correct_count"`
	PartialCount         int                           `json:"partial_count"`
	IncorrectCount       int                           `json:"incorrect_count"`
	TotalScore           int                           `json:"total_score"`
	MaxTotalScore        int                           `json:"max_total_score"`
	ScorePercentage      int                           `json:"score_percentage"`
	AccuracyByType       map[ProblemType]AccuracyBucket `json:"accuracy_by_type"`
	AccuracyByDifficulty map[Difficulty]AccuracyBucket  `json:"accuracy_by_difficulty"`
}

// SubmissionUpdate is the exact set of fields written back to a
// submission after grading. Kept as an explicit DTO so the persistence
// write is type-checked end to end.
type SubmissionUpdate struct {
	Status    SubmissionStatus       `json:"status"`
	Score     int                    `json:"score"`
	Answers   []ProblemGradingResult `json:"answers"`
	GradedAt  time.Time              `json:"graded_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
