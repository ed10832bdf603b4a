package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

var rescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Re-evaluate stored answers with the current rules",
	Long: "Re-evaluate every stored assessment whose result was produced by an older\n" +
		"rules version and store the new result. --all rescores every assessment.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		engine, err := newEngine(e.cfg)
		if err != nil {
			return err
		}
		all, _ := cmd.Flags().GetBool("all")

		repo := e.backend.Assessments()
		recs, err := repo.List(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return err
		}

		var updated int
		for _, rec := range recs {
			// An empty or malformed version compares lower than any valid one.
			if !all && semver.Compare(rec.RulesVersion, scoring.RulesVersion) >= 0 {
				continue
			}
			result := engine.Evaluate(rec.Responses)
			if err := repo.UpdateResult(cmd.Context(), rec.ID, result, scoring.RulesVersion); err != nil {
				return err
			}
			e.logger.Debug("rescored assessment", "id", rec.ID, "from", rec.RulesVersion, "profile", result.Profile.ID)
			updated++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rescored %d of %d assessments to rules %s\n", updated, len(recs), scoring.RulesVersion)
		return nil
	},
}

func init() {
	rescoreCmd.Flags().Bool("all", false, "Rescore every assessment, not only outdated ones")
}
