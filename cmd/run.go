package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/app"
	"github.com/abhisek/fluentplan/internal/logging"
)

// runApp opens the store, builds dependencies, and launches the TUI. The
// log goes to a file so it does not draw over the screen.
func runApp(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Log.File == "" {
		cfg.Log.File = logging.DefaultFile()
	}
	logger, logCloser, err := logging.Open(cfg.Log, nil)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	e, err := openEnvWith(cmd, cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	counter, err := e.counter(ctx)
	if err != nil {
		return err
	}

	logger.Info("starting TUI", "store", cfg.Store.Driver)
	return app.Run(app.Options{
		Assessments: e.backend.Assessments(),
		Deliveries:  e.backend.Deliveries(),
		Engine:      engine,
		Coach:       e.coachService(ctx),
		Counter:     counter,
		Logger:      logger,
	})
}
