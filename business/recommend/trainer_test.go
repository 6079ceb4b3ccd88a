package recommend

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogisticTrainer_Separable(t *testing.T) {
	xs := []FeatureVector{{0}, {0}, {0}, {1}, {1}, {1}}
	ys := []float64{0, 0, 0, 1, 1, 1}

	w, b, err := LogisticTrainer{LearningRate: 0.5, Epochs: 1000, L2: 0.001}.Train(xs, ys)
	require.NoError(t, err)
	require.Len(t, w, 1)

	m := &Model{Weights: w, Bias: b, FeatureDim: 1}
	acc, err := accuracy(m, xs, ys)
	require.NoError(t, err)
	assert.Equal(t, 1.0, acc)
	assert.Greater(t, w[0], 0.0)
	assert.Less(t, b, 0.0)
}

func TestLogisticTrainer_Invalid(t *testing.T) {
	tr := LogisticTrainer{LearningRate: 0.1, Epochs: 1}

	_, _, err := tr.Train(nil, nil)
	assert.Error(t, err)

	_, _, err = tr.Train([]FeatureVector{{1}}, []float64{1, 0})
	assert.Error(t, err)

	_, _, err = tr.Train([]FeatureVector{{1}, {1, 2}}, []float64{1, 0})
	assert.Error(t, err)
}

func TestSplitIndices(t *testing.T) {
	train, val := splitIndices(20, 0.25, 42)
	assert.Len(t, val, 5)
	assert.Len(t, train, 15)

	all := append(append([]int{}, train...), val...)
	sort.Ints(all)
	for i, v := range all {
		assert.Equal(t, i, v)
	}

	train2, val2 := splitIndices(20, 0.25, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, val, val2)

	train, val = splitIndices(3, 0.01, 1)
	assert.Len(t, val, 1)
	assert.Len(t, train, 2)

	train, val = splitIndices(3, 0.99, 1)
	assert.Len(t, val, 2)
	assert.Len(t, train, 1)
}
