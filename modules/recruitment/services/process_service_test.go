package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
)

func TestProcessCreate_Valid(t *testing.T) {
	f := newFixture(t)

	p := f.newProcess(t, 5, 3, 1)
	require.Len(t, p.Stages(), 3)
	for i, s := range p.Stages() {
		assert.Equal(t, i+1, s.Order())
	}

	got, err := f.processSvc.GetByID(f.ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, p.ID(), got.ID())
}

func TestProcessCreate_EmptyStages(t *testing.T) {
	f := newFixture(t)

	_, err := f.processSvc.Create(f.ctx, "Empty", nil)
	require.ErrorIs(t, err, process.ErrMissingConfiguration)
}

func TestProcessCreate_GappedOrderRejected(t *testing.T) {
	f := newFixture(t)

	stages := []process.Stage{
		process.NewStage(uuid.New(), 1, 3, "Screening"),
		process.NewStage(uuid.New(), 3, 2, "Interview"),
	}
	_, err := f.processSvc.Create(f.ctx, "Gapped", stages)
	require.ErrorIs(t, err, process.ErrInvalidStageOrder)
}

func TestProcessCreate_DuplicateStageTypeRejected(t *testing.T) {
	f := newFixture(t)

	stageTypeID := uuid.New()
	stages := []process.Stage{
		process.NewStage(stageTypeID, 1, 3, "Screening"),
		process.NewStage(stageTypeID, 2, 2, "Screening again"),
	}
	_, err := f.processSvc.Create(f.ctx, "Doubled", stages)
	require.ErrorIs(t, err, process.ErrInvalidStageOrder)
}

func TestProcessGetByID_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.processSvc.GetByID(f.ctx, uuid.New())
	require.ErrorIs(t, err, process.ErrNotFound)
}

func TestStageTypeCreate_ClampsNegativeSLA(t *testing.T) {
	f := newFixture(t)

	st, err := f.processSvc.CreateStageType(f.ctx, "Instant", -4)
	require.NoError(t, err)
	assert.Equal(t, 0, st.SLADays())
}
