package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/config"
	"github.com/abhisek/fluentplan/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fluentplan",
	Short: "Language learning profile assessment",
	Long: "FluentPlan asks fourteen questions about how you learn a language and turns the\n" +
		"answers into a learner profile, a daily time plan and concrete next steps.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// Execute runs the root command. Cancelling ctx stops long-running
// subcommands such as serve.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/fluentplan/config.yaml)")
	pf.String("db", "", "Path to SQLite database file (overrides FLUENTPLAN_DB env var)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(assessmentsCmd)
	rootCmd.AddCommand(segmentsCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(emailCmd)
	rootCmd.AddCommand(deliverCmd)
	rootCmd.AddCommand(rescoreCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig merges defaults, the config file, the environment and the
// persistent flags. --db selects a SQLite file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	loader := config.NewLoader()
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		if err := loader.BindFlag("log.level", f); err != nil {
			return config.Config{}, err
		}
	}
	path, _ := cmd.Flags().GetString("config")
	cfg, err := loader.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return config.Config{}, fmt.Errorf("resolve DB path: %w", err)
		}
		cfg.Store.Driver = store.DriverSQLite
		cfg.Store.DSN = p
	}
	return cfg, nil
}
