package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "eduflow_user")
	password := getEnv("DB_PASSWORD", "eduflow_password")
	dbname := getEnv("DB_NAME", "eduflow")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'student',
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS problems (
		id         VARCHAR(64) PRIMARY KEY,
		type       VARCHAR(30) NOT NULL,
		difficulty VARCHAR(20) NOT NULL,
		question   TEXT NOT NULL,
		answer     TEXT NOT NULL,
		solution   TEXT,
		options    JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_problems_type ON problems(type, difficulty);

	CREATE TABLE IF NOT EXISTS submissions (
		id         BIGSERIAL PRIMARY KEY,
		student_id BIGINT NOT NULL REFERENCES users(id),
		title      VARCHAR(255) NOT NULL,
		status     VARCHAR(20) NOT NULL DEFAULT 'pending',
		score      INT,
		graded_at  TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_submissions_student ON submissions(student_id, status);

	CREATE TABLE IF NOT EXISTS submission_answers (
		id               BIGSERIAL PRIMARY KEY,
		submission_id    BIGINT NOT NULL REFERENCES submissions(id) ON DELETE CASCADE,
		problem_id       VARCHAR(64) NOT NULL,
		problem_type     VARCHAR(30) NOT NULL,
		student_answer   TEXT NOT NULL,
		is_correct       BOOLEAN NOT NULL DEFAULT FALSE,
		score            INT NOT NULL DEFAULT 0,
		max_score        INT NOT NULL DEFAULT 0,
		score_percentage INT NOT NULL DEFAULT 0,
		correct_answer   TEXT NOT NULL DEFAULT '',
		feedback         TEXT,
		grading_time_ms  BIGINT NOT NULL DEFAULT 0,
		ai_evaluation    JSONB,
		created_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_submission_answers_submission ON submission_answers(submission_id);
	`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// rng is a seeded random source for problem ID generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateProblemID creates an opaque catalog identifier. Collisions
// are left to the primary-key constraint; callers retry on conflict.
func GenerateProblemID() string {
	b := make([]byte, 12)
	for i := range b {
		b[i] = idAlphabet[rng.Intn(len(idAlphabet))]
	}
	return "prob_" + string(b)
}
