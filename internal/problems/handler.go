package problems

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/NAMUCU/EduFlow-sub007/internal/database"
	"github.com/NAMUCU/EduFlow-sub007/internal/models"
	"github.com/gorilla/mux"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// getRole extracts the authenticated user's role from the request context.
func getRole(r *http.Request) (models.Role, bool) {
	role, ok := r.Context().Value("role").(models.Role)
	return role, ok
}

func (h *Handler) CreateProblem(w http.ResponseWriter, r *http.Request) {
	role, ok := getRole(r)
	if !ok || (role != models.RoleTeacher && role != models.RoleAdmin) {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Only teachers can create problems"})
		return
	}

	var req models.CreateProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if !models.ValidProblemTypes[req.Type] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "type must be 'multiple_choice', 'true_false', 'short_answer', or 'essay'"})
		return
	}
	if !models.ValidDifficulties[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be 'easy', 'medium', or 'hard'"})
		return
	}

	req.Question = strings.TrimSpace(req.Question)
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Question == "" || req.Answer == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question and answer are required"})
		return
	}
	if req.Type == models.TypeMultipleChoice && len(req.Options) < 2 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "multiple_choice problems need at least 2 options"})
		return
	}

	// Retry on the rare ID collision.
	var problem *models.Problem
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		problem, err = h.store.CreateProblem(r.Context(), database.GenerateProblemID(), req)
		if err == nil || !strings.Contains(err.Error(), "duplicate key") {
			break
		}
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to create problem"})
		return
	}

	writeJSON(w, http.StatusCreated, problem)
}

func (h *Handler) GetProblem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	problem, err := h.store.GetProblem(r.Context(), vars["id"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Problem not found"})
		return
	}

	problem.MaxScore = models.MaxScore(problem.Type, problem.Difficulty)
	writeJSON(w, http.StatusOK, problem)
}

func (h *Handler) ListProblems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var problemType *models.ProblemType
	if t := query.Get("type"); t != "" {
		pt := models.ProblemType(t)
		if !models.ValidProblemTypes[pt] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid type"})
			return
		}
		problemType = &pt
	}

	var difficulty *models.Difficulty
	if d := query.Get("difficulty"); d != "" {
		df := models.Difficulty(d)
		if !models.ValidDifficulties[df] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid difficulty"})
			return
		}
		difficulty = &df
	}

	limit := intQueryParam(query, "limit", 20)
	if limit <= 0 {
		limit = 20
	}
	offset := intQueryParam(query, "offset", 0)

	problems, total, err := h.store.ListProblems(r.Context(), problemType, difficulty, limit, offset)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to list problems"})
		return
	}
	if problems == nil {
		problems = []models.Problem{}
	}

	writeJSON(w, http.StatusOK, models.ProblemListResponse{
		Problems: problems,
		Total:    total,
		Page:     offset/limit + 1,
		PageSize: limit,
	})
}

func (h *Handler) DeleteProblem(w http.ResponseWriter, r *http.Request) {
	role, ok := getRole(r)
	if !ok || (role != models.RoleTeacher && role != models.RoleAdmin) {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Only teachers can delete problems"})
		return
	}

	vars := mux.Vars(r)
	if err := h.store.DeleteProblem(r.Context(), vars["id"]); err != nil {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Problem not found"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, fallback int) int {
	if v := query.Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
