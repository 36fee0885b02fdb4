package gamedatawkr

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"maa.plus/backend-next/internal/app/appconfig"
	"maa.plus/backend-next/internal/service"
)

type WorkerDeps struct {
	fx.In
	GameDataService *service.GameData
}

type Worker struct {
	// count counts batches worker has completed so far
	count int

	// interval describes the interval in-between different batches of refresh
	interval time.Duration

	WorkerDeps
}

func Start(conf *appconfig.Config, deps WorkerDeps) {
	if !conf.GameDataSyncEnabled {
		log.Info().Msg("worker: game data sync is disabled")
		return
	}
	(&Worker{
		interval:   conf.GameDataSyncInterval,
		WorkerDeps: deps,
	}).do()
}

func (w *Worker) do() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for {
			log.Info().
				Int("count", w.count).
				Msg("worker: game data refresh batch started")

			results := w.GameDataService.SyncAll(ctx)
			for _, result := range results {
				if result.Ok() {
					continue
				}
				log.Warn().
					Err(result.Err).
					Str("dataset", result.Dataset).
					Msg("worker: dataset refresh failed, keeping last-good snapshot")
			}

			log.Info().Int("count", w.count).Msg("worker: game data refresh batch finished")

			w.count++

			select {
			case <-ctx.Done():
				return
			case <-time.After(w.interval):
			}
		}
	}()

	return cancel
}
