package models

import (
	"math"
	"time"
)

type ProblemType string

const (
	TypeMultipleChoice ProblemType = "multiple_choice"
	TypeTrueFalse      ProblemType = "true_false"
	TypeShortAnswer    ProblemType = "short_answer"
	TypeEssay          ProblemType = "essay"
)

var ValidProblemTypes = map[ProblemType]bool{
	TypeMultipleChoice: true,
	TypeTrueFalse:      true,
	TypeShortAnswer:    true,
	TypeEssay:          true,
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// BaseScore returns the point value of a problem type before the
// difficulty multiplier is applied.
func BaseScore(t ProblemType) int {
	switch t {
	case TypeMultipleChoice, TypeShortAnswer:
		return 10
	case TypeTrueFalse:
		return 5
	case TypeEssay:
		return 20
	default:
		return 10
	}
}

// DifficultyMultiplier returns the scoring weight for a difficulty level.
func DifficultyMultiplier(d Difficulty) float64 {
	switch d {
	case DifficultyEasy:
		return 0.8
	case DifficultyMedium:
		return 1.0
	case DifficultyHard:
		return 1.3
	default:
		return 1.0
	}
}

// MaxScore computes the maximum score for a problem from its type and
// difficulty. It is never persisted independently so that stored data
// cannot disagree with the scoring rules.
func MaxScore(t ProblemType, d Difficulty) int {
	return int(math.Round(float64(BaseScore(t)) * DifficultyMultiplier(d)))
}

// ── Core Structs ───────────────────────────────────────

type Problem struct {
	ID         string          `json:"id"`
	Type       ProblemType     `json:"type"`
	Difficulty Difficulty      `json:"difficulty"`
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Solution   string          `json:"solution,omitempty"`
	Options    []ProblemOption `json:"options,omitempty"`
	MaxScore   int             `json:"max_score"`
	CreatedAt  time.Time       `json:"created_at"`
}

type ProblemOption struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

// ── Request/Response Types ────────────────────────────

type CreateProblemRequest struct {
	Type       ProblemType     `json:"type"`
	Difficulty Difficulty      `json:"difficulty"`
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Solution   string          `json:"solution,omitempty"`
	Options    []ProblemOption `json:"options,omitempty"`
}

type ProblemListResponse struct {
	Problems []Problem `json:"problems"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}
