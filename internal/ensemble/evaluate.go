package ensemble

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/yourusername/wicket-predictor/internal/models"
)

// EvaluationMetrics summarizes holdout accuracy for one trained forest.
type EvaluationMetrics struct {
	Samples int     `json:"samples"`
	MAE     float64 `json:"mae"`
	RMSE    float64 `json:"rmse"`
	R2      float64 `json:"r2"`
}

// Evaluate scores the forest against a holdout set.
func Evaluate(f *Forest, holdout []models.TrainingExample) (EvaluationMetrics, error) {
	if f == nil || len(f.Trees) == 0 {
		return EvaluationMetrics{}, models.ErrModelNotTrained
	}
	if len(holdout) == 0 {
		return EvaluationMetrics{}, nil
	}

	actuals := make([]float64, len(holdout))
	residuals := make([]float64, len(holdout))
	sumAbs := 0.0
	sumSq := 0.0

	for i, ex := range holdout {
		result, err := f.Predict(ExtractFeatures(f.Class, ex.Features))
		if err != nil {
			return EvaluationMetrics{}, err
		}
		actual := labelFor(f.Class, ex)
		diff := actual - result.Mean

		actuals[i] = actual
		residuals[i] = diff
		sumAbs += math.Abs(diff)
		sumSq += diff * diff
	}

	n := float64(len(holdout))
	metrics := EvaluationMetrics{
		Samples: len(holdout),
		MAE:     sumAbs / n,
		RMSE:    math.Sqrt(sumSq / n),
	}

	variance := stat.Variance(actuals, nil) * (n - 1)
	if variance > 0 {
		metrics.R2 = 1 - sumSq/variance
	}

	return metrics, nil
}
