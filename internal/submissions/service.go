package submissions

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/NAMUCU/EduFlow-sub007/internal/grading"
	"github.com/NAMUCU/EduFlow-sub007/internal/models"
	"github.com/NAMUCU/EduFlow-sub007/internal/problems"
)

// Repository is the persistence surface the service needs. *Store
// satisfies it; tests swap in an in-memory fake.
type Repository interface {
	CreateSubmission(ctx context.Context, studentID int64, title string) (*models.Submission, error)
	GetSubmission(ctx context.Context, id int64) (*models.Submission, error)
	SaveGradingResults(ctx context.Context, submissionID int64, update models.SubmissionUpdate) error
	GetGradingResults(ctx context.Context, submissionID int64) ([]models.ProblemGradingResult, error)
	ListSubmissionsByStudent(ctx context.Context, studentID int64, limit, offset int) ([]models.Submission, int, error)
}

type Service struct {
	repo   Repository
	source problems.Source
	engine *grading.Engine
}

func NewService(repo Repository, source problems.Source, engine *grading.Engine) *Service {
	return &Service{repo: repo, source: source, engine: engine}
}

func (s *Service) Create(ctx context.Context, studentID int64, title string) (*models.Submission, error) {
	return s.repo.CreateSubmission(ctx, studentID, title)
}

// Grade resolves the submitted problems through a fresh request-scoped
// catalog, grades them concurrently, persists the outcome, and returns
// results plus the aggregate summary. Problems that cannot be resolved
// are skipped and reported, not graded.
func (s *Service) Grade(ctx context.Context, submissionID int64, req models.GradeSubmissionRequest) (*models.GradeSubmissionResponse, error) {
	sub, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("submission %d has no answers to grade", submissionID)
	}

	opts := models.DefaultGradingOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	catalog := problems.NewCatalog(s.source)

	seen := make(map[string]bool, len(req.Answers))
	ids := make([]string, 0, len(req.Answers))
	for _, a := range req.Answers {
		if !seen[a.ProblemID] {
			seen[a.ProblemID] = true
			ids = append(ids, a.ProblemID)
		}
	}

	resolved := catalog.ResolveMany(ctx, ids)
	if len(resolved) == 0 {
		// Every lookup failed — there is nothing meaningful to grade.
		return nil, fmt.Errorf("no problems could be resolved for submission %d", submissionID)
	}

	var pairs []grading.Pair
	var skipped []string
	for _, a := range req.Answers {
		p, ok := resolved[a.ProblemID]
		if !ok {
			log.Printf("WARN: skipping unresolvable problem %s in submission %d", a.ProblemID, submissionID)
			skipped = append(skipped, a.ProblemID)
			continue
		}
		pairs = append(pairs, grading.Pair{Problem: p, StudentAnswer: a.StudentAnswer})
	}

	results := s.engine.GradeAll(ctx, pairs, opts)
	summary := grading.Summarize(results, resolved)

	now := time.Now()
	update := models.SubmissionUpdate{
		Status:    models.SubmissionGraded,
		Score:     summary.TotalScore,
		Answers:   results,
		GradedAt:  now,
		UpdatedAt: now,
	}
	if err := s.repo.SaveGradingResults(ctx, sub.ID, update); err != nil {
		return nil, fmt.Errorf("save grading results: %w", err)
	}

	return &models.GradeSubmissionResponse{
		SubmissionID:      sub.ID,
		Status:            models.SubmissionGraded,
		Results:           results,
		Summary:           summary,
		SkippedProblemIDs: skipped,
	}, nil
}

func (s *Service) Results(ctx context.Context, submissionID int64) (*models.SubmissionResultsResponse, error) {
	sub, err := s.repo.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	answers, err := s.repo.GetGradingResults(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if answers == nil {
		answers = []models.ProblemGradingResult{}
	}

	return &models.SubmissionResultsResponse{
		Submission: *sub,
		Answers:    answers,
	}, nil
}

func (s *Service) ListByStudent(ctx context.Context, studentID int64, page, pageSize int) (*models.SubmissionListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}

	subs, total, err := s.repo.ListSubmissionsByStudent(ctx, studentID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []models.Submission{}
	}

	return &models.SubmissionListResponse{
		Submissions: subs,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}
