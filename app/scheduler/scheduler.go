package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/wgparish/buy-it-for-life-tracker/app/domain/item"
	"github.com/wgparish/buy-it-for-life-tracker/app/domain/pricing"
)

const (
	redditIngestSchedule = "0 0 * * *"
	priceSweepSchedule   = "0 */6 * * *"
)

type redditIngester interface {
	RefreshFromReddit(ctx context.Context) (*item.RefreshResult, error)
}

type priceSweeper interface {
	CheckAllPrices(ctx context.Context) (*pricing.SweepResult, error)
}

// Scheduler runs the Reddit ingest once a day and the price sweep every six
// hours. A job still running when its next tick arrives is skipped.
type Scheduler struct {
	cron           *cron.Cron
	redditIngester redditIngester
	priceSweeper   priceSweeper
}

func New(redditIngester redditIngester, priceSweeper priceSweeper) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger{}),
			cron.Recover(cronLogger{}),
		)),
		redditIngester: redditIngester,
		priceSweeper:   priceSweeper,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(redditIngestSchedule, s.runRedditIngest); err != nil {
		return fmt.Errorf("couldn't schedule reddit ingest: %w", err)
	}

	if _, err := s.cron.AddFunc(priceSweepSchedule, s.runPriceSweep); err != nil {
		return fmt.Errorf("couldn't schedule price sweep: %w", err)
	}

	s.cron.Start()

	log.Info().
		Str("reddit_ingest", redditIngestSchedule).
		Str("price_sweep", priceSweepSchedule).
		Msg("scheduler started")

	return nil
}

// Stop halts scheduling; the returned context is done once running jobs
// finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runRedditIngest() {
	log.Info().Msg("scheduled reddit ingest started")

	if _, err := s.redditIngester.RefreshFromReddit(context.Background()); err != nil {
		log.Error().Err(err).Msg("scheduled reddit ingest failed")
	}
}

func (s *Scheduler) runPriceSweep() {
	log.Info().Msg("scheduled price sweep started")

	if _, err := s.priceSweeper.CheckAllPrices(context.Background()); err != nil {
		log.Error().Err(err).Msg("scheduled price sweep failed")
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Info().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
