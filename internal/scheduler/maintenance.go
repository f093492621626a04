package scheduler

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/spinwheel/spinwheel/internal/database"
	"github.com/spinwheel/spinwheel/internal/library"
)

// MaintenanceCron runs the nightly maintenance at 04:00 local time.
const MaintenanceCron = "0 4 * * *"

// NewMaintenanceTask builds the nightly maintenance job: truncate the
// sqlite WAL and log a catalog statistics snapshot.
func NewMaintenanceTask(db *database.DB, svc *library.Service, logger zerolog.Logger) TaskConfig {
	log := logger.With().Str("component", "maintenance").Logger()

	return TaskConfig{
		ID:   "maintenance",
		Name: "Nightly maintenance",
		Cron: MaintenanceCron,
		Func: func(ctx context.Context) error {
			if err := db.Checkpoint(ctx); err != nil {
				return err
			}

			stats, err := svc.Statistics(ctx)
			if err != nil {
				return err
			}

			log.Info().
				Int64("total", stats.Total).
				Int64("active", stats.Active).
				Int64("done", stats.Done).
				Int64("archived", stats.Archived).
				Int64("games", stats.Games).
				Int64("movies", stats.Movies).
				Msg("catalog statistics snapshot")

			return nil
		},
	}
}
