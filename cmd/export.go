package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all assessments as CSV or a JSON backup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != "csv" && format != "json" {
			return fmt.Errorf("unknown format %q (want csv or json)", format)
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		recs, err := e.backend.Assessments().List(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if path, _ := cmd.Flags().GetString("output"); path != "" && path != "-" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			w = f
		}

		if format == "json" {
			err = segments.WriteJSON(w, recs)
		} else {
			err = segments.WriteCSV(w, recs)
		}
		if err != nil {
			return err
		}
		e.logger.Info("exported assessments", "count", len(recs), "format", format)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore assessments from a JSON backup",
	Long:  "Restore assessments written by 'export --format json'. Records whose ID\nalready exists are skipped.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open backup: %w", err)
		}
		defer f.Close()

		recs, err := segments.ReadJSON(f)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		repo := e.backend.Assessments()
		var imported, skipped int
		for _, rec := range recs {
			if rec.ID != "" {
				_, err := repo.Get(cmd.Context(), rec.ID)
				if err == nil {
					skipped++
					continue
				}
				if !errors.Is(err, store.ErrNotFound) {
					return err
				}
			}
			if err := repo.Save(cmd.Context(), rec); err != nil {
				return fmt.Errorf("import %s: %w", rec.ID, err)
			}
			imported++
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d assessments, skipped %d existing\n", imported, skipped)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "csv", "Output format: csv or json")
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
}
