package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateSubmission(ctx context.Context, studentID int64, title string) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO submissions (student_id, title, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, student_id, title, status, created_at, updated_at`,
		studentID, title, models.SubmissionPending,
	).Scan(&sub.ID, &sub.StudentID, &sub.Title, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return &sub, nil
}

func (s *Store) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.QueryRowContext(ctx,
		`SELECT id, student_id, title, status, score, graded_at, created_at, updated_at
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&sub.ID, &sub.StudentID, &sub.Title, &sub.Status, &sub.Score, &sub.GradedAt, &sub.CreatedAt, &sub.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("submission %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get submission %d: %w", id, err)
	}
	return &sub, nil
}

// SaveGradingResults applies a SubmissionUpdate in one transaction:
// replaces the per-problem rows and stamps the submission record.
func (s *Store) SaveGradingResults(ctx context.Context, submissionID int64, update models.SubmissionUpdate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM submission_answers WHERE submission_id = $1`, submissionID); err != nil {
		return fmt.Errorf("clear previous answers: %w", err)
	}

	for _, r := range update.Answers {
		var evalJSON []byte
		if r.AIEvaluation != nil {
			evalJSON, err = json.Marshal(r.AIEvaluation)
			if err != nil {
				return fmt.Errorf("marshal ai evaluation for %s: %w", r.ProblemID, err)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO submission_answers
			 (submission_id, problem_id, problem_type, student_answer, is_correct,
			  score, max_score, score_percentage, correct_answer, feedback, grading_time_ms, ai_evaluation)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			submissionID, r.ProblemID, r.ProblemType, r.StudentAnswer, r.IsCorrect,
			r.Score, r.MaxScore, r.ScorePercentage, r.CorrectAnswer, r.Feedback, r.GradingTimeMs, evalJSON,
		); err != nil {
			return fmt.Errorf("insert answer for %s: %w", r.ProblemID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE submissions SET status = $1, score = $2, graded_at = $3, updated_at = $4 WHERE id = $5`,
		update.Status, update.Score, update.GradedAt, update.UpdatedAt, submissionID,
	); err != nil {
		return fmt.Errorf("update submission %d: %w", submissionID, err)
	}

	return tx.Commit()
}

func (s *Store) GetGradingResults(ctx context.Context, submissionID int64) ([]models.ProblemGradingResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT problem_id, problem_type, student_answer, is_correct, score, max_score,
		        score_percentage, correct_answer, COALESCE(feedback, ''), grading_time_ms, ai_evaluation
		 FROM submission_answers WHERE submission_id = $1 ORDER BY id`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("get grading results: %w", err)
	}
	defer rows.Close()

	var results []models.ProblemGradingResult
	for rows.Next() {
		var r models.ProblemGradingResult
		var evalJSON []byte
		if err := rows.Scan(&r.ProblemID, &r.ProblemType, &r.StudentAnswer, &r.IsCorrect,
			&r.Score, &r.MaxScore, &r.ScorePercentage, &r.CorrectAnswer, &r.Feedback,
			&r.GradingTimeMs, &evalJSON); err != nil {
			return nil, fmt.Errorf("scan grading result: %w", err)
		}
		if len(evalJSON) > 0 {
			var eval models.AIEssayEvaluation
			if err := json.Unmarshal(evalJSON, &eval); err != nil {
				return nil, fmt.Errorf("unmarshal ai evaluation: %w", err)
			}
			r.AIEvaluation = &eval
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

func (s *Store) ListSubmissionsByStudent(ctx context.Context, studentID int64, limit, offset int) ([]models.Submission, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE student_id = $1`, studentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_id, title, status, score, graded_at, created_at, updated_at
		 FROM submissions WHERE student_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		studentID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		var sub models.Submission
		if err := rows.Scan(&sub.ID, &sub.StudentID, &sub.Title, &sub.Status, &sub.Score,
			&sub.GradedAt, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, sub)
	}

	return subs, total, rows.Err()
}
