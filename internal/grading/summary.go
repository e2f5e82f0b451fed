package grading

import (
	"math"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
)

// Summarize reduces a result list into totals and per-type /
// per-difficulty breakdowns in one pass. Difficulty is looked up in the
// supplied problem map; a result whose problem is missing still counts
// toward totals and type stats but is skipped for the difficulty
// breakdown. Zero denominators yield 0%, never a division error.
func Summarize(results []models.ProblemGradingResult, problems map[string]*models.Problem) models.GradingSummary {
	summary := models.GradingSummary{
		AccuracyByType:       make(map[models.ProblemType]models.AccuracyBucket),
		AccuracyByDifficulty: make(map[models.Difficulty]models.AccuracyBucket),
	}

	for _, r := range results {
		summary.TotalProblems++
		summary.TotalScore += r.Score
		summary.MaxTotalScore += r.MaxScore

		switch {
		case r.IsCorrect:
			summary.CorrectCount++
		case r.Score > 0:
			summary.PartialCount++
		default:
			summary.IncorrectCount++
		}

		typeBucket := summary.AccuracyByType[r.ProblemType]
		typeBucket.Count++
		if r.IsCorrect {
			typeBucket.Correct++
		}
		summary.AccuracyByType[r.ProblemType] = typeBucket

		if p, ok := problems[r.ProblemID]; ok {
			diffBucket := summary.AccuracyByDifficulty[p.Difficulty]
			diffBucket.Count++
			if r.IsCorrect {
				diffBucket.Correct++
			}
			summary.AccuracyByDifficulty[p.Difficulty] = diffBucket
		}
	}

	for t, b := range summary.AccuracyByType {
		b.Percentage = roundedPercent(b.Correct, b.Count)
		summary.AccuracyByType[t] = b
	}
	for d, b := range summary.AccuracyByDifficulty {
		b.Percentage = roundedPercent(b.Correct, b.Count)
		summary.AccuracyByDifficulty[d] = b
	}

	summary.ScorePercentage = roundedPercent(summary.TotalScore, summary.MaxTotalScore)
	return summary
}

func roundedPercent(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}
