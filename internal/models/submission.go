package models

import "time"

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "pending"
	SubmissionGraded  SubmissionStatus = "graded"
)

type Submission struct {
	ID        int64            `json:"id"`
	StudentID int64            `json:"student_id"`
	Title     string           `json:"title"`
	Status    SubmissionStatus `json:"status"`
	Score     *int             `json:"score,omitempty"`
	GradedAt  *time.Time       `json:"graded_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// SubmissionAnswer is one (problem, student answer) pair as submitted.
type SubmissionAnswer struct {
	ProblemID     string `json:"problem_id"`
	StudentAnswer string `json:"student_answer"`
}

// ── Request/Response Types ────────────────────────────

type CreateSubmissionRequest struct {
	Title string `json:"title"`
}

type GradeSubmissionRequest struct {
	Answers []SubmissionAnswer `json:"answers"`
	Options *GradingOptions    `json:"options,omitempty"`
}

type GradeSubmissionResponse struct {
	SubmissionID      int64                  `json:"submission_id"`
	Status            SubmissionStatus       `json:"status"`
	Results           []ProblemGradingResult `json:"results"`
	Summary           GradingSummary         `json:"summary"`
	SkippedProblemIDs []string               `json:"skipped_problem_ids,omitempty"`
}

type SubmissionResultsResponse struct {
	Submission Submission             `json:"submission"`
	Answers    []ProblemGradingResult `json:"answers"`
}

type SubmissionListResponse struct {
	Submissions []Submission `json:"submissions"`
	Total       int          `json:"total"`
	Page        int          `json:"page"`
	PageSize    int          `json:"page_size"`
}
