package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/staffworx/recruiting/modules/recruitment/infrastructure/persistence"
	"github.com/staffworx/recruiting/modules/recruitment/services"
	"github.com/staffworx/recruiting/pkg/composables"
	"github.com/staffworx/recruiting/pkg/configuration"
	"github.com/staffworx/recruiting/pkg/eventbus"
)

type elapsedOptions struct {
	Tenant    string
	BatchSize int
}

// newElapsedCmd fills elapsed_business_days on completed stages that were
// written before the column existed. Safe to re-run; already-filled stages
// are never touched.
func newElapsedCmd() *cobra.Command {
	var opts elapsedOptions

	cmd := &cobra.Command{
		Use:   "elapsed --tenant <uuid> [--batch-size <n>]",
		Short: "Backfill elapsed business days for completed vacancy stages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.Tenant) == "" {
				return errors.New("--tenant is required")
			}
			tenantID, err := uuid.Parse(opts.Tenant)
			if err != nil {
				return errors.New("--tenant must be a UUID")
			}

			conf := configuration.Use()
			logger := conf.Logger()

			ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			pool, err := pgxpool.New(ctx, conf.Database.Opts)
			cancel()
			if err != nil {
				return err
			}
			defer pool.Close()

			svc := services.NewVacancyService(
				persistence.NewVacancyRepository(),
				persistence.NewProcessRepository(),
				persistence.NewHolidayRepository(),
				eventbus.NewEventPublisher(logger),
			)

			runCtx := composables.WithTenantID(composables.WithPool(cmd.Context(), pool), tenantID)
			total := 0
			for {
				updated, err := svc.BackfillElapsedBusinessDays(runCtx, opts.BatchSize)
				if err != nil {
					return err
				}
				total += updated
				if updated == 0 {
					break
				}
				logger.WithField("updated", updated).Info("backfill batch done")
			}
			logger.WithField("total", total).Info("backfill complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "tenant UUID to backfill")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 100, "vacancies per batch")
	return cmd
}
