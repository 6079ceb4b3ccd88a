package postgres

import (
	"context"
	"testing"
	"time"

	"caseAssist/business/recommend"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var artifactColumns = []string{
	"id", "version", "algorithm", "weights", "bias", "feature_dim",
	"metric", "trained_at", "trained_through", "active", "activated_at",
}

func TestModelArtifactRepository_SaveActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "model_artifacts" SET "active"=\$1 WHERE active = \$2`).
		WithArgs(false, true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "model_artifacts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	err := repo.SaveActive(context.Background(), &recommend.Model{
		Version:    "v2",
		Algorithm:  recommend.AlgorithmLogistic,
		Weights:    []float64{0.1, -0.2},
		FeatureDim: 2,
		Metric:     0.8,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelArtifactRepository_FindActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	trained := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "model_artifacts" WHERE active = \$1 ORDER BY activated_at DESC`).
		WillReturnRows(sqlmock.NewRows(artifactColumns).
			AddRow(1, "v1", recommend.AlgorithmLogistic, []byte(`[0.5,-1]`), 0.25, 2, 0.75, trained, trained, true, trained))

	m, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "v1", m.Version)
	assert.Equal(t, []float64{0.5, -1}, m.Weights)
	assert.InDelta(t, 0.25, m.Bias, 1e-9)
	assert.Equal(t, trained, m.TrainedThrough)
}

func TestModelArtifactRepository_FindActive_None(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "model_artifacts" WHERE active = \$1`).
		WillReturnRows(sqlmock.NewRows(artifactColumns))

	m, err := repo.FindActive(context.Background())
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestModelArtifactRepository_FindByVersion_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "model_artifacts" WHERE version = \$1`).
		WillReturnRows(sqlmock.NewRows(artifactColumns))

	_, err := repo.FindByVersion(context.Background(), "missing")
	assert.ErrorIs(t, err, recommend.ErrModelNotFound)
}

func TestModelArtifactRepository_Activate_Unknown(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "model_artifacts" SET "active"=\$1 WHERE active = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "model_artifacts" SET .* WHERE version = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Activate(context.Background(), "missing")
	assert.ErrorIs(t, err, recommend.ErrModelNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelArtifactRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewModelArtifactRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT \* FROM "model_artifacts" ORDER BY trained_at DESC`).
		WillReturnRows(sqlmock.NewRows(artifactColumns).
			AddRow(2, "v2", recommend.AlgorithmLogistic, []byte(`[]`), 0, 0, 0.8, now, now, true, now).
			AddRow(1, "v1", recommend.AlgorithmLogistic, []byte(`[]`), 0, 0, 0.7, now.Add(-time.Hour), now, false, nil))

	models, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "v2", models[0].Version)
	assert.Equal(t, "v1", models[1].Version)
}
