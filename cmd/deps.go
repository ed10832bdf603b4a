package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/coach"
	"github.com/abhisek/fluentplan/internal/config"
	"github.com/abhisek/fluentplan/internal/llm"
	"github.com/abhisek/fluentplan/internal/logging"
	"github.com/abhisek/fluentplan/internal/newsletter"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
)

// env bundles what most subcommands need.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	backend store.Backend
	closers []io.Closer
}

// openEnv loads the configuration, opens the log and the backend. logTo
// receives the log unless the config names a file.
func openEnv(cmd *cobra.Command, logTo io.Writer) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, logCloser, err := logging.Open(cfg.Log, logTo)
	if err != nil {
		return nil, err
	}
	e, err := openEnvWith(cmd, cfg, logger)
	if err != nil {
		logCloser.Close()
		return nil, err
	}
	e.closers = append([]io.Closer{logCloser}, e.closers...)
	return e, nil
}

// openEnvWith opens the backend for an already loaded configuration.
func openEnvWith(cmd *cobra.Command, cfg config.Config, logger *slog.Logger) (*env, error) {
	backend, err := store.OpenBackend(cmd.Context(), cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return &env{
		cfg:     cfg,
		logger:  logger,
		backend: backend,
		closers: []io.Closer{backend},
	}, nil
}

// Close releases everything openEnv opened, newest first.
func (e *env) Close() error {
	var first error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// newEngine builds the scoring engine, loading the passive-time table
// override when one is configured.
func newEngine(cfg config.Config) (*scoring.Engine, error) {
	if cfg.Quiz.PassiveTable == "" {
		return scoring.New(), nil
	}
	table, err := scoring.LoadPassiveTableFile(cfg.Quiz.PassiveTable)
	if err != nil {
		return nil, err
	}
	return scoring.New(scoring.WithPassiveTable(table)), nil
}

// coachService builds the coaching service. A missing or broken provider leaves
// the service disabled.
func (e *env) coachService(ctx context.Context) *coach.Service {
	provider, err := llm.NewProvider(ctx, e.cfg.LLM, e.backend.Events(), e.logger)
	if err != nil {
		e.logger.Warn("LLM provider not configured, coaching notes disabled", "error", err)
		return coach.NewService(nil, coach.DefaultConfig())
	}
	cfg := coach.DefaultConfig()
	if e.cfg.LLM.MaxTokens > 0 {
		cfg.MaxTokens = e.cfg.LLM.MaxTokens
	}
	return coach.NewService(provider, cfg)
}

// counter returns the live segment counter: Redis when configured and
// reachable, otherwise an in-memory counter. Either starts from the stored
// records when it has nothing yet.
func (e *env) counter(ctx context.Context) (segments.Counter, error) {
	seed := func() (segments.Snapshot, error) {
		recs, err := e.backend.Assessments().List(ctx, store.QueryOpts{})
		if err != nil {
			return nil, fmt.Errorf("seed segments: %w", err)
		}
		return segments.Segment(recs).Counts(), nil
	}

	if e.cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     e.cfg.Redis.Addr,
			Password: e.cfg.Redis.Password,
			DB:       e.cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			e.logger.Warn("redis unreachable, counting segments in memory", "addr", e.cfg.Redis.Addr, "error", err)
			client.Close()
		} else {
			e.closers = append(e.closers, client)
			rc := segments.NewRedisCounter(client)
			snap, err := rc.Snapshot(ctx)
			if err != nil {
				return nil, err
			}
			if empty(snap) {
				initial, err := seed()
				if err != nil {
					return nil, err
				}
				if err := rc.Reset(ctx, initial); err != nil {
					return nil, err
				}
			}
			return rc, nil
		}
	}

	initial, err := seed()
	if err != nil {
		return nil, err
	}
	return segments.NewMemoryCounter(initial), nil
}

func empty(snap segments.Snapshot) bool {
	for _, segs := range snap {
		if len(segs) > 0 {
			return false
		}
	}
	return true
}

// outbox builds the newsletter outbox, or nil when no newsletter is
// configured.
func (e *env) outbox() *newsletter.Outbox {
	nc := e.cfg.Newsletter
	if !nc.Enabled() {
		return nil
	}
	sub := newsletter.WithRetry(newsletter.NewClient(nc.Config), nc.Retry)
	return newsletter.NewOutbox(e.backend.Deliveries(), e.backend.Assessments(), sub,
		newsletter.WithInterval(nc.Interval),
		newsletter.WithMaxAttempts(nc.MaxAttempts),
		newsletter.WithLogger(e.logger),
	)
}
