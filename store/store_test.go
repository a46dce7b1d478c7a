package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oqabench/oqa/db"
	"github.com/oqabench/oqa/errors"
	"github.com/oqabench/oqa/summary"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.Migrate(database, nil))
	return database
}

func sampleRun() *Run {
	return &Run{
		Dataset:    "testdata/animals.json",
		Label:      "Oracle",
		MaxSteps:   3,
		NumTargets: 2,
		RootCost:   2.0,
		Steps: []summary.StepStat{
			{Step: 0, MeanBits: 1.5, StdBits: 0.5, N: 2},
			{Step: 1, MeanBits: 0.5, StdBits: 0.5, N: 2},
			{Step: 2, MeanBits: 0.0, StdBits: 0.0, N: 2},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	id, err := s.SaveRun(ctx, sampleRun())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := s.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Oracle", got.Label)
	assert.Equal(t, "testdata/animals.json", got.Dataset)
	assert.Equal(t, 3, got.MaxSteps)
	assert.Equal(t, 2.0, got.RootCost)
	assert.False(t, got.CreatedAt.IsZero())

	require.Len(t, got.Steps, 3)
	assert.Equal(t, 1.5, got.Steps[0].MeanBits)
	assert.Equal(t, 0.5, got.Steps[1].StdBits)
	assert.Equal(t, 2, got.Steps[0].N, "N recovered from the run's target count")
}

func TestSaveRunKeepsExplicitID(t *testing.T) {
	s := NewRunStore(setupTestDB(t))
	run := sampleRun()
	run.ID = "run-fixed-id"

	id, err := s.SaveRun(context.Background(), run)
	require.NoError(t, err)
	assert.Equal(t, "run-fixed-id", id)
}

func TestGetRunNotFound(t *testing.T) {
	s := NewRunStore(setupTestDB(t))

	_, err := s.GetRun(context.Background(), "no-such-run")
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSaveRunDuplicateID(t *testing.T) {
	s := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	run := sampleRun()
	run.ID = "dupe"
	_, err := s.SaveRun(ctx, run)
	require.NoError(t, err)

	again := sampleRun()
	again.ID = "dupe"
	_, err = s.SaveRun(ctx, again)
	assert.Error(t, err, "primary key violation must surface")
}

func TestListRuns(t *testing.T) {
	s := NewRunStore(setupTestDB(t))
	ctx := context.Background()

	for _, label := range []string{"first", "second", "third"} {
		run := sampleRun()
		run.Label = label
		_, err := s.SaveRun(ctx, run)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3, "non-positive limit falls back to the default")
	for _, run := range all {
		assert.Empty(t, run.Steps, "listing does not hydrate steps")
	}
}

func TestSaveRunRollsBackOnStepError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO runs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO run_steps").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewRunStore(mockDB)
	_, err = s.SaveRun(context.Background(), sampleRun())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}
