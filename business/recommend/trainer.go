package recommend

import (
	"errors"
	"math"
	"math/rand"
	"time"
)

// OutcomeRecord is one historical case: the profile at intake, the services
// delivered and whether the client found work.
type OutcomeRecord struct {
	Profile       ClientProfile
	Interventions InterventionCombination
	Succeeded     bool
	RecordedAt    time.Time
}

// Trainer fits model parameters to labelled vectors. Labels are 0 or 1.
type Trainer interface {
	Train(xs []FeatureVector, ys []float64) (weights []float64, bias float64, err error)
}

// LogisticTrainer fits a logistic regression by full-batch gradient descent
// with L2 regularisation on the weights.
type LogisticTrainer struct {
	LearningRate float64
	Epochs       int
	L2           float64
}

func (t LogisticTrainer) Train(xs []FeatureVector, ys []float64) ([]float64, float64, error) {
	if len(xs) == 0 {
		return nil, 0, errors.New("no training examples")
	}
	if len(xs) != len(ys) {
		return nil, 0, errors.New("examples and labels differ in length")
	}

	dim := len(xs[0])
	for _, x := range xs {
		if len(x) != dim {
			return nil, 0, errors.New("examples differ in dimension")
		}
	}

	w := make([]float64, dim)
	grad := make([]float64, dim)
	bias := 0.0
	n := float64(len(xs))

	for epoch := 0; epoch < t.Epochs; epoch++ {
		for j := range grad {
			grad[j] = 0
		}
		gradBias := 0.0

		for i, x := range xs {
			diff := sigmoid(bias+dot(w, x)) - ys[i]
			for j := range w {
				grad[j] += diff * x[j]
			}
			gradBias += diff
		}

		for j := range w {
			w[j] -= t.LearningRate * (grad[j]/n + t.L2*w[j])
		}
		bias -= t.LearningRate * gradBias / n
	}

	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, errors.New("training diverged")
		}
	}
	if math.IsNaN(bias) || math.IsInf(bias, 0) {
		return nil, 0, errors.New("training diverged")
	}

	return w, bias, nil
}

// splitIndices shuffles 0..n-1 with seed and holds out fraction of them for
// validation. Both sides get at least one index when n >= 2.
func splitIndices(n int, fraction float64, seed int64) (train, validation []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nVal := int(math.Round(fraction * float64(n)))
	if nVal < 1 {
		nVal = 1
	}
	if nVal > n-1 {
		nVal = n - 1
	}

	return perm[nVal:], perm[:nVal]
}

// accuracy is the share of examples whose prediction, thresholded at 0.5,
// matches the label.
func accuracy(p Predictor, xs []FeatureVector, ys []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, errors.New("no validation examples")
	}

	correct := 0
	for i, x := range xs {
		prob, err := p.Predict(x)
		if err != nil {
			return 0, err
		}
		predicted := 0.0
		if prob >= 0.5 {
			predicted = 1
		}
		if predicted == ys[i] {
			correct++
		}
	}

	return float64(correct) / float64(len(xs)), nil
}

func label(succeeded bool) float64 {
	if succeeded {
		return 1
	}
	return 0
}
