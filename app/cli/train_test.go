package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"caseAssist/business/recommend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockArtifacts struct {
	recommend.ArtifactRepository
	mock.Mock
}

func (m *mockArtifacts) FindActive(ctx context.Context) (*recommend.Model, error) {
	args := m.Called(ctx)
	model, _ := args.Get(0).(*recommend.Model)
	return model, args.Error(1)
}

type mockRetrainer struct {
	mock.Mock
}

func (m *mockRetrainer) Retrain(ctx context.Context, trigger recommend.Trigger) (recommend.UpdateResult, error) {
	args := m.Called(ctx, trigger)
	return args.Get(0).(recommend.UpdateResult), args.Error(1)
}

func TestTrainInitial_RefusesWhenModelActive(t *testing.T) {
	artifacts := new(mockArtifacts)
	artifacts.On("FindActive", mock.Anything).Return(&recommend.Model{Version: "v1"}, nil)
	retrainer := new(mockRetrainer)

	err := trainInitial(context.Background(), artifacts, retrainer, &bytes.Buffer{})

	require.ErrorIs(t, err, ErrModelExists)
	assert.Contains(t, err.Error(), "v1")
	retrainer.AssertNotCalled(t, "Retrain", mock.Anything, mock.Anything)
}

func TestTrainInitial_TrainsFirstModel(t *testing.T) {
	artifacts := new(mockArtifacts)
	artifacts.On("FindActive", mock.Anything).Return(nil, nil)
	retrainer := new(mockRetrainer)
	retrainer.On("Retrain", mock.Anything, recommend.TriggerManual).
		Return(recommend.UpdateResult{Accepted: true, Version: "v2"}, nil)

	var out bytes.Buffer
	err := trainInitial(context.Background(), artifacts, retrainer, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), `"accepted": true`)
	assert.Contains(t, out.String(), "v2")
	retrainer.AssertExpectations(t)
}

func TestTrainInitial_Rejected(t *testing.T) {
	artifacts := new(mockArtifacts)
	artifacts.On("FindActive", mock.Anything).Return(nil, nil)
	retrainer := new(mockRetrainer)
	retrainer.On("Retrain", mock.Anything, recommend.TriggerManual).
		Return(recommend.UpdateResult{Reason: "insufficient training data"}, nil)

	err := trainInitial(context.Background(), artifacts, retrainer, &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "insufficient training data")
}

func TestTrainInitial_LookupFailure(t *testing.T) {
	artifacts := new(mockArtifacts)
	artifacts.On("FindActive", mock.Anything).Return(nil, errors.New("db down"))

	err := trainInitial(context.Background(), artifacts, new(mockRetrainer), &bytes.Buffer{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
