package submissions

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/NAMUCU/EduFlow-sub007/internal/grading"
	"github.com/NAMUCU/EduFlow-sub007/internal/models"
	"github.com/NAMUCU/EduFlow-sub007/internal/problems"
)

// ── Test Fakes ─────────────────────────────────────────

type fakeRepo struct {
	submissions map[int64]*models.Submission
	saved       map[int64]models.SubmissionUpdate
	nextID      int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		submissions: make(map[int64]*models.Submission),
		saved:       make(map[int64]models.SubmissionUpdate),
		nextID:      1,
	}
}

func (r *fakeRepo) CreateSubmission(ctx context.Context, studentID int64, title string) (*models.Submission, error) {
	sub := &models.Submission{
		ID:        r.nextID,
		StudentID: studentID,
		Title:     title,
		Status:    models.SubmissionPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.submissions[sub.ID] = sub
	r.nextID++
	return sub, nil
}

func (r *fakeRepo) GetSubmission(ctx context.Context, id int64) (*models.Submission, error) {
	sub, ok := r.submissions[id]
	if !ok {
		return nil, problems.ErrNotFound
	}
	return sub, nil
}

func (r *fakeRepo) SaveGradingResults(ctx context.Context, submissionID int64, update models.SubmissionUpdate) error {
	r.saved[submissionID] = update
	sub := r.submissions[submissionID]
	sub.Status = update.Status
	sub.Score = &update.Score
	sub.GradedAt = &update.GradedAt
	sub.UpdatedAt = update.UpdatedAt
	return nil
}

func (r *fakeRepo) GetGradingResults(ctx context.Context, submissionID int64) ([]models.ProblemGradingResult, error) {
	return r.saved[submissionID].Answers, nil
}

func (r *fakeRepo) ListSubmissionsByStudent(ctx context.Context, studentID int64, limit, offset int) ([]models.Submission, int, error) {
	var out []models.Submission
	for _, sub := range r.submissions {
		if sub.StudentID == studentID {
			out = append(out, *sub)
		}
	}
	return out, len(out), nil
}

type fakeSource struct {
	problems map[string]models.Problem
}

func (s *fakeSource) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	p, ok := s.problems[id]
	if !ok {
		return nil, problems.ErrNotFound
	}
	cp := p
	return &cp, nil
}

type fixedEvaluator struct {
	score int
}

func (f *fixedEvaluator) Evaluate(ctx context.Context, req models.EssayEvaluationRequest) (*models.AIEssayEvaluation, error) {
	return &models.AIEssayEvaluation{
		OverallScore:    f.score,
		OverallFeedback: "잘 작성된 답안입니다.",
		Confidence:      0.9,
	}, nil
}

func newTestService(repo *fakeRepo) *Service {
	source := &fakeSource{problems: map[string]models.Problem{
		"prob_mc": {ID: "prob_mc", Type: models.TypeMultipleChoice, Difficulty: models.DifficultyEasy, Question: "1+1?", Answer: "2"},
		"prob_tf": {ID: "prob_tf", Type: models.TypeTrueFalse, Difficulty: models.DifficultyMedium, Question: "지구는 둥글다.", Answer: "참"},
		"prob_es": {ID: "prob_es", Type: models.TypeEssay, Difficulty: models.DifficultyMedium, Question: "설명하시오.", Answer: "모범답안"},
	}}
	engine := grading.NewEngine(&fixedEvaluator{score: 85})
	return NewService(repo, source, engine)
}

// ── Tests ──────────────────────────────────────────────

func TestGradePersistsResults(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sub, err := svc.Create(context.Background(), 7, "3월 모의고사")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := models.GradeSubmissionRequest{
		Answers: []models.SubmissionAnswer{
			{ProblemID: "prob_mc", StudentAnswer: "②"},
			{ProblemID: "prob_tf", StudentAnswer: "X"},
			{ProblemID: "prob_es", StudentAnswer: "충분히 긴 학생 답안입니다. 핵심 개념을 설명합니다."},
		},
	}

	resp, err := svc.Grade(context.Background(), sub.ID, req)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}

	if resp.Status != models.SubmissionGraded {
		t.Errorf("expected status graded, got %s", resp.Status)
	}
	if len(resp.Results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(resp.Results))
	}
	// mc easy: round(10×0.8)=8 full; tf wrong: 0; essay 85% of 20 = 17.
	if resp.Summary.TotalScore != 25 {
		t.Errorf("expected total score 25, got %d", resp.Summary.TotalScore)
	}
	if resp.Summary.CorrectCount != 2 || resp.Summary.IncorrectCount != 1 {
		t.Errorf("expected 2 correct / 1 incorrect, got %d/%d",
			resp.Summary.CorrectCount, resp.Summary.IncorrectCount)
	}

	update, ok := repo.saved[sub.ID]
	if !ok {
		t.Fatal("grading results were not persisted")
	}
	if update.Status != models.SubmissionGraded || update.Score != 25 {
		t.Errorf("persisted update mismatch: %+v", update)
	}
	if len(update.Answers) != 3 {
		t.Errorf("expected 3 persisted answers, got %d", len(update.Answers))
	}
	if update.GradedAt.IsZero() || update.UpdatedAt.IsZero() {
		t.Error("persisted timestamps must be set")
	}
}

func TestGradeSkipsUnresolvableProblems(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 7, "테스트")
	req := models.GradeSubmissionRequest{
		Answers: []models.SubmissionAnswer{
			{ProblemID: "prob_mc", StudentAnswer: "2"},
			{ProblemID: "prob_deleted", StudentAnswer: "whatever"},
		},
	}

	resp, err := svc.Grade(context.Background(), sub.ID, req)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}

	if len(resp.Results) != 1 {
		t.Errorf("expected 1 graded result, got %d", len(resp.Results))
	}
	if len(resp.SkippedProblemIDs) != 1 || resp.SkippedProblemIDs[0] != "prob_deleted" {
		t.Errorf("expected prob_deleted to be reported skipped, got %v", resp.SkippedProblemIDs)
	}
}

func TestGradeFailsWhenNothingResolves(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 7, "테스트")
	req := models.GradeSubmissionRequest{
		Answers: []models.SubmissionAnswer{
			{ProblemID: "ghost_1", StudentAnswer: "a"},
			{ProblemID: "ghost_2", StudentAnswer: "b"},
		},
	}

	if _, err := svc.Grade(context.Background(), sub.ID, req); err == nil {
		t.Error("expected an error when no problem resolves")
	}
}

func TestGradeRejectsEmptyAnswers(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 7, "테스트")

	_, err := svc.Grade(context.Background(), sub.ID, models.GradeSubmissionRequest{})
	if err == nil || !strings.Contains(err.Error(), "no answers") {
		t.Errorf("expected a no-answers error, got %v", err)
	}
}

func TestGradeUnknownSubmission(t *testing.T) {
	svc := newTestService(newFakeRepo())

	req := models.GradeSubmissionRequest{
		Answers: []models.SubmissionAnswer{{ProblemID: "prob_mc", StudentAnswer: "2"}},
	}
	if _, err := svc.Grade(context.Background(), 999, req); err == nil {
		t.Error("expected an error for an unknown submission")
	}
}

func TestResultsRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	sub, _ := svc.Create(context.Background(), 7, "테스트")
	req := models.GradeSubmissionRequest{
		Answers: []models.SubmissionAnswer{{ProblemID: "prob_mc", StudentAnswer: "2"}},
	}
	if _, err := svc.Grade(context.Background(), sub.ID, req); err != nil {
		t.Fatalf("grade: %v", err)
	}

	res, err := svc.Results(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if res.Submission.Status != models.SubmissionGraded {
		t.Errorf("expected graded status, got %s", res.Submission.Status)
	}
	if len(res.Answers) != 1 || res.Answers[0].ProblemID != "prob_mc" {
		t.Errorf("unexpected answers: %+v", res.Answers)
	}
}

func TestListByStudentClampsPaging(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	svc.Create(context.Background(), 7, "1차")
	svc.Create(context.Background(), 7, "2차")
	svc.Create(context.Background(), 8, "다른 학생")

	resp, err := svc.ListByStudent(context.Background(), 7, 0, 500)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if resp.Page != 1 || resp.PageSize != 50 {
		t.Errorf("expected page/pageSize clamped to 1/50, got %d/%d", resp.Page, resp.PageSize)
	}
	if resp.Total != 2 {
		t.Errorf("expected 2 submissions for student 7, got %d", resp.Total)
	}
}
