package grading

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

// Partial-credit tuning. The 0.80 threshold, the 80% cap, and the essay
// pass cutoff ship with these values for compatibility with the
// original scoring rules; treat them as tunable, not derived.
const (
	partialCreditThreshold = 0.80
	partialCreditCap       = 80
	essayPassCutoff        = 80
	minEssayLength         = 10
)

const (
	feedbackCorrect        = "정답입니다!"
	feedbackPartialFmt     = "부분 정답입니다. 정답은 '%s'입니다."
	feedbackIncorrectFmt   = "오답입니다. 정답은 '%s'입니다."
	feedbackEssayTooShort  = "답안이 너무 짧습니다. 10자 이상 작성해주세요. 수동 채점이 필요합니다."
	feedbackEssayAIOff     = "AI 채점이 비활성화되어 있습니다. 수동 채점이 필요합니다."
	feedbackEssayAIFailed  = "AI 채점 중 오류가 발생했습니다. 수동 채점이 필요합니다."
	feedbackUnsupportedFmt = "지원하지 않는 문제 유형(%s)입니다. 수동 채점이 필요합니다."
)

// newResult seeds a zero-score result with the fields every grader
// fills the same way.
func newResult(p *models.Problem, studentAnswer string) models.ProblemGradingResult {
	return models.ProblemGradingResult{
		ProblemID:     p.ID,
		ProblemType:   p.Type,
		MaxScore:      p.MaxScore,
		CorrectAnswer: p.Answer,
		StudentAnswer: studentAnswer,
	}
}

// applyPercentage sets score and score_percentage from a 0-100
// percentage, keeping 0 ≤ score ≤ max_score.
func applyPercentage(res *models.ProblemGradingResult, pct int) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	res.ScorePercentage = pct
	res.Score = int(math.Round(float64(pct) / 100 * float64(res.MaxScore)))
	if res.Score > res.MaxScore {
		res.Score = res.MaxScore
	}
}

func incorrectFeedback(p *models.Problem, opts models.GradingOptions) string {
	if !opts.GenerateFeedback {
		return ""
	}
	fb := fmt.Sprintf(feedbackIncorrectFmt, p.Answer)
	if p.Solution != "" {
		fb += "\n해설: " + p.Solution
	}
	return fb
}

// ── Multiple Choice ───────────────────────────────────

func gradeMultipleChoice(p *models.Problem, studentAnswer string, opts models.GradingOptions) models.ProblemGradingResult {
	res := newResult(p, studentAnswer)

	if normalizeChoice(studentAnswer, opts) == normalizeChoice(p.Answer, opts) {
		applyPercentage(&res, 100)
		res.IsCorrect = true
		if opts.GenerateFeedback {
			res.Feedback = feedbackCorrect
		}
		return res
	}

	res.Feedback = incorrectFeedback(p, opts)
	return res
}

// ── True / False ──────────────────────────────────────

func gradeTrueFalse(p *models.Problem, studentAnswer string, opts models.GradingOptions) models.ProblemGradingResult {
	res := newResult(p, studentAnswer)

	student := normalizeTruthValue(studentAnswer)
	correct := normalizeTruthValue(p.Answer)

	// "unknown" never matches anything, including another "unknown".
	if student != truthUnknown && student == correct {
		applyPercentage(&res, 100)
		res.IsCorrect = true
		if opts.GenerateFeedback {
			res.Feedback = feedbackCorrect
		}
		return res
	}

	res.Feedback = incorrectFeedback(p, opts)
	return res
}

// ── Short Answer ──────────────────────────────────────

// gradeShortAnswer accepts any of the comma-separated canonical answers
// exactly, and otherwise awards similarity-scaled partial credit when
// the best match clears the threshold.
func gradeShortAnswer(p *models.Problem, studentAnswer string, opts models.GradingOptions) models.ProblemGradingResult {
	res := newResult(p, studentAnswer)

	student := normalizeAnswer(studentAnswer, opts)

	var accepted []string
	for _, a := range strings.Split(p.Answer, ",") {
		if n := normalizeAnswer(a, opts); n != "" {
			accepted = append(accepted, n)
		}
	}

	for _, a := range accepted {
		if student == a {
			applyPercentage(&res, 100)
			res.IsCorrect = true
			if opts.GenerateFeedback {
				res.Feedback = feedbackCorrect
			}
			return res
		}
	}

	if opts.AllowPartialCredit {
		best := 0.0
		for _, a := range accepted {
			if sim := similarity(student, a); sim > best {
				best = sim
			}
		}
		if best >= partialCreditThreshold {
			applyPercentage(&res, int(math.Round(best*partialCreditCap)))
			if opts.GenerateFeedback {
				res.Feedback = fmt.Sprintf(feedbackPartialFmt, p.Answer)
			}
			return res
		}
	}

	res.Feedback = incorrectFeedback(p, opts)
	return res
}

// ── Essay ─────────────────────────────────────────────

func (e *Engine) gradeEssay(ctx context.Context, p *models.Problem, studentAnswer string, opts models.GradingOptions) models.ProblemGradingResult {
	res := newResult(p, studentAnswer)

	if len([]rune(strings.TrimSpace(studentAnswer))) < minEssayLength {
		if opts.GenerateFeedback {
			res.Feedback = feedbackEssayTooShort
		}
		return res
	}

	if !opts.UseAIForEssay || e.evaluator == nil {
		if opts.GenerateFeedback {
			res.Feedback = feedbackEssayAIOff
		}
		return res
	}

	evalCtx, cancel := context.WithTimeout(ctx, e.essayTimeout)
	defer cancel()

	eval, err := e.evaluator.Evaluate(evalCtx, models.EssayEvaluationRequest{
		Question:      p.Question,
		CorrectAnswer: p.Answer,
		Solution:      p.Solution,
		StudentAnswer: studentAnswer,
		DetailLevel:   opts.EssayDetailLevel,
	})
	if err != nil {
		// An evaluator failure degrades to a deterministic zero-score
		// result; it must never abort the batch.
		log.Printf("WARN: essay evaluation failed for problem %s: %v", p.ID, err)
		if opts.GenerateFeedback {
			res.Feedback = feedbackEssayAIFailed
		}
		return res
	}

	applyPercentage(&res, eval.OverallScore)
	res.IsCorrect = res.ScorePercentage >= essayPassCutoff
	res.AIEvaluation = eval

	if opts.GenerateFeedback {
		var sb strings.Builder
		sb.WriteString(eval.OverallFeedback)
		if len(eval.Improvements) > 0 {
			sb.WriteString("\n\n개선점:")
			for _, imp := range eval.Improvements {
				sb.WriteString("\n- ")
				sb.WriteString(imp)
			}
		}
		res.Feedback = sb.String()
	}

	return res
}
