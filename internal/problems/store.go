package problems

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

// Store is the SQL-backed problem catalog. It satisfies Source, so a
// request-scoped Catalog can sit directly in front of it.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateProblem(ctx context.Context, id string, req models.CreateProblemRequest) (*models.Problem, error) {
	optionsJSON, err := json.Marshal(req.Options)
	if err != nil {
		return nil, fmt.Errorf("marshal options: %w", err)
	}

	var p models.Problem
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO problems (id, type, difficulty, question, answer, solution, options)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, type, difficulty, question, answer, COALESCE(solution, ''), created_at`,
		id, req.Type, req.Difficulty, req.Question, req.Answer, nullString(req.Solution), optionsJSON,
	).Scan(&p.ID, &p.Type, &p.Difficulty, &p.Question, &p.Answer, &p.Solution, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}

	p.Options = req.Options
	p.MaxScore = models.MaxScore(p.Type, p.Difficulty)
	return &p, nil
}

func (s *Store) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	var p models.Problem
	var optionsJSON []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT id, type, difficulty, question, answer, COALESCE(solution, ''), options, created_at
		 FROM problems WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Type, &p.Difficulty, &p.Question, &p.Answer, &p.Solution, &optionsJSON, &p.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get problem %s: %w", id, err)
	}

	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &p.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options for problem %s: %w", id, err)
		}
	}

	return &p, nil
}

func (s *Store) ListProblems(ctx context.Context, problemType *models.ProblemType, difficulty *models.Difficulty, limit, offset int) ([]models.Problem, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argN := 1

	if problemType != nil {
		where += fmt.Sprintf(" AND type = $%d", argN)
		args = append(args, *problemType)
		argN++
	}
	if difficulty != nil {
		where += fmt.Sprintf(" AND difficulty = $%d", argN)
		args = append(args, *difficulty)
		argN++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM problems "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count problems: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, type, difficulty, question, answer, COALESCE(solution, ''), options, created_at
		 FROM problems %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, argN, argN+1,
	)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list problems: %w", err)
	}
	defer rows.Close()

	var problems []models.Problem
	for rows.Next() {
		var p models.Problem
		var optionsJSON []byte
		if err := rows.Scan(&p.ID, &p.Type, &p.Difficulty, &p.Question, &p.Answer, &p.Solution, &optionsJSON, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan problem: %w", err)
		}
		if len(optionsJSON) > 0 {
			if err := json.Unmarshal(optionsJSON, &p.Options); err != nil {
				return nil, 0, fmt.Errorf("unmarshal options: %w", err)
			}
		}
		p.MaxScore = models.MaxScore(p.Type, p.Difficulty)
		problems = append(problems, p)
	}

	return problems, total, rows.Err()
}

func (s *Store) DeleteProblem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete problem %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
