package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/staffworx/recruiting/modules/recruitment/domain/aggregates/process"
	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/eventbus"
)

type ProcessService struct {
	repo      process.Repository
	publisher eventbus.EventBus
}

func NewProcessService(repo process.Repository, publisher eventbus.EventBus) *ProcessService {
	return &ProcessService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *ProcessService) GetAll(ctx context.Context) ([]process.Process, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) ([]process.Process, error) {
		return s.repo.GetAll(txCtx)
	})
}

func (s *ProcessService) GetByID(ctx context.Context, id uuid.UUID) (process.Process, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (process.Process, error) {
		return s.repo.GetByID(txCtx, id)
	})
}

func (s *ProcessService) CreateStageType(ctx context.Context, name string, slaDays int) (process.StageType, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (process.StageType, error) {
		tenantID, err := composables.UseTenantID(txCtx)
		if err != nil {
			return process.StageType{}, err
		}
		return s.repo.CreateStageType(txCtx, process.NewStageType(tenantID, name, slaDays))
	})
}

// Create persists a process with all its stages at once; processes are not
// mutated incrementally.
func (s *ProcessService) Create(ctx context.Context, name string, stages []process.Stage) (process.Process, error) {
	return composables.InTenantTxResult(ctx, func(txCtx context.Context) (process.Process, error) {
		tenantID, err := composables.UseTenantID(txCtx)
		if err != nil {
			return process.Process{}, err
		}
		entity, err := process.New(tenantID, name, stages)
		if err != nil {
			return process.Process{}, err
		}
		return s.repo.Create(txCtx, entity)
	})
}
