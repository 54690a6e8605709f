package vacancy_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/vacancy"
)

func TestStatusTransitions(t *testing.T) {
	v := vacancy.New(uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now(), uuid.New())
	require.Equal(t, vacancy.StatusOpen, v.Status())

	paused, err := v.Pause()
	require.NoError(t, err)
	assert.Equal(t, vacancy.StatusPaused, paused.Status())

	_, err = paused.Pause()
	require.ErrorIs(t, err, vacancy.ErrInvalidTransition)

	resumed, err := paused.Resume()
	require.NoError(t, err)
	assert.Equal(t, vacancy.StatusOpen, resumed.Status())

	_, err = resumed.Resume()
	require.ErrorIs(t, err, vacancy.ErrInvalidTransition)

	cancelled, err := paused.Cancel()
	require.NoError(t, err)
	assert.Equal(t, vacancy.StatusCancelled, cancelled.Status())

	_, err = cancelled.Cancel()
	require.ErrorIs(t, err, vacancy.ErrInvalidTransition)
}

func TestCurrentStage(t *testing.T) {
	first := vacancy.NewStage(uuid.New(), uuid.New(), 1, 3, "Screening").Reopened()
	second := vacancy.NewStage(uuid.New(), uuid.New(), 2, 2, "Interview")

	v := vacancy.New(uuid.New(), uuid.New(), uuid.New(), uuid.New(), time.Now(), uuid.New()).
		WithStages([]vacancy.Stage{first, second})

	current, ok := v.CurrentStage()
	require.True(t, ok)
	assert.Equal(t, "Screening", current.Name())

	v = v.WithStages([]vacancy.Stage{first.Completed(time.Now()), second})
	_, ok = v.CurrentStage()
	assert.False(t, ok)
}

func TestStageCompletionLifecycle(t *testing.T) {
	day := time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)
	s := vacancy.NewStage(uuid.New(), uuid.New(), 1, 3, "Screening")
	require.Equal(t, vacancy.StageStatusPending, s.Status())

	completed := s.Completed(day)
	assert.Equal(t, vacancy.StageStatusCompleted, completed.Status())
	require.NotNil(t, completed.ActualCompletion())
	assert.True(t, completed.IsCompletedOn(day))
	assert.False(t, completed.IsCompletedOn(day.AddDate(0, 0, 1)))

	reopened := completed.WithElapsedBusinessDays(3).Reopened()
	assert.Equal(t, vacancy.StageStatusOpen, reopened.Status())
	assert.Nil(t, reopened.ActualCompletion())
	assert.Nil(t, reopened.ElapsedBusinessDays())
}
