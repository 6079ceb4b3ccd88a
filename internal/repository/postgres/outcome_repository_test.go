package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"caseAssist/business/recommend"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutcomeRepository_ListOutcomesSince(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewOutcomeRepository(db)

	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	at := since.Add(time.Hour)

	rows := sqlmock.NewRows([]string{"id", "client_id", "profile", "interventions", "succeeded", "recorded_at"}).
		AddRow(1, 10, []byte(`{"age":30,"gender":2}`), []byte(`["employment_assistance"]`), true, at).
		AddRow(2, 11, []byte(`{"age":"thirty"}`), []byte(`[]`), false, at).
		AddRow(3, 12, []byte(`{"age":41}`), []byte(`[]`), false, at.Add(time.Minute))
	mock.ExpectQuery(`SELECT \* FROM "case_outcomes" WHERE recorded_at > \$1 ORDER BY recorded_at, id`).
		WithArgs(since).
		WillReturnRows(rows)

	got, err := repo.ListOutcomesSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, recommend.ClientProfile{"age": 30, "gender": 2}, got[0].Profile)
	assert.Equal(t, recommend.InterventionCombination{"employment_assistance"}, got[0].Interventions)
	assert.True(t, got[0].Succeeded)
	assert.Equal(t, at, got[0].RecordedAt)

	assert.Empty(t, got[1].Interventions)
	assert.False(t, got[1].Succeeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToProfile(t *testing.T) {
	p, err := toProfile(map[string]any{"a": 1.5, "b": true, "c": int64(2), "d": json.Number("7")})
	require.NoError(t, err)
	assert.Equal(t, recommend.ClientProfile{"a": 1.5, "b": 1, "c": 2, "d": 7}, p)

	_, err = toProfile(map[string]any{"a": "x"})
	assert.Error(t, err)
}
