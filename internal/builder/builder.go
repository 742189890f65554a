package builder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/park285/checkers-bot-tournament/internal/bot"
	"github.com/park285/checkers-bot-tournament/internal/config"
	"github.com/park285/checkers-bot-tournament/internal/match"
	"github.com/park285/checkers-bot-tournament/internal/report"
	"github.com/park285/checkers-bot-tournament/internal/statusapi"
	"github.com/park285/checkers-bot-tournament/internal/store"
	"github.com/park285/checkers-bot-tournament/internal/tournament"
	"go.uber.org/zap"
)

// Deps is everything a tournament run needs, wired from AppConfig.
type Deps struct {
	Tournament tournament.Config
	Roster     []tournament.Entrant
	Scheduler  *tournament.Scheduler
	Tracker    *statusapi.Tracker
	Status     *statusapi.Server
	Feed       *statusapi.Feed
	Report     *report.Writer

	Memory   store.Repository
	Redis    *store.RedisStore
	Postgres *store.PostgresRepository

	closers []func() error
}

func New(ctx context.Context, cfg *config.AppConfig, reg *bot.Registry, logger *zap.Logger) (_ *Deps, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = bot.DefaultRegistry()
	}
	tc, err := cfg.Tournament()
	if err != nil {
		return nil, err
	}
	roster, err := Entrants(reg, cfg.Roster())
	if err != nil {
		return nil, err
	}

	d := &Deps{Tournament: tc, Roster: roster, Memory: store.NewMemoryRepository()}
	defer func() {
		if err != nil {
			_ = d.Close()
		}
	}()

	recorders := store.Multi{d.Memory}
	if strings.TrimSpace(cfg.RedisURL) != "" {
		rctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		d.Redis, err = store.OpenRedis(rctx, cfg.RedisURL)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("init redis store: %w", err)
		}
		d.closers = append(d.closers, d.Redis.Close)
		recorders = append(recorders, d.Redis)
	}
	if strings.TrimSpace(cfg.DatabaseURL) != "" {
		d.Postgres, err = store.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres: %w", err)
		}
		d.closers = append(d.closers, d.Postgres.Close)
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = d.Postgres.EnsureSchema(sctx)
		cancel()
		if err != nil {
			return nil, err
		}
		recorders = append(recorders, d.Postgres)
	}

	cat, err := report.NewCatalog(cfg.TemplateDir)
	if err != nil {
		return nil, fmt.Errorf("load report templates: %w", err)
	}
	d.Report = report.NewWriter(cat)

	d.Tracker = statusapi.NewTracker(tc)
	d.Status = statusapi.NewServer(d.Tracker, logger.Named("status"))
	d.Feed = statusapi.NewFeed(d.Tracker, logger.Named("feed"))
	d.Scheduler = tournament.NewScheduler(logger,
		d.Tracker,
		store.NewObserver(recorders, tc, logger.Named("store")),
	)
	return d, nil
}

// Entrants resolves roster specs against the registry.
func Entrants(reg *bot.Registry, specs []config.BotSpec) ([]tournament.Entrant, error) {
	out := make([]tournament.Entrant, 0, len(specs))
	for _, s := range specs {
		f, err := reg.Factory(s.Bot)
		if err != nil {
			return nil, fmt.Errorf("bot %q: %w", s.ID, err)
		}
		out = append(out, tournament.Entrant{ID: s.ID, Spawn: f})
	}
	return out, nil
}

// Run plays the configured tournament.
func (d *Deps) Run(ctx context.Context) (*tournament.Standings, []*match.Result, error) {
	return d.Scheduler.Run(ctx, d.Roster, d.Tournament)
}

func (d *Deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
