package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

var assessmentsCmd = &cobra.Command{
	Use:     "assessments",
	Aliases: []string{"a"},
	Short:   "Browse stored assessments",
}

var assessmentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List assessments, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		profile, _ := cmd.Flags().GetString("profile")
		language, _ := cmd.Flags().GetString("language")
		email, _ := cmd.Flags().GetString("email")

		recs, err := e.backend.Assessments().List(cmd.Context(), store.QueryOpts{
			Limit:     limit,
			Offset:    offset,
			ProfileID: scoring.ProfileID(profile),
			Language:  language,
			Email:     email,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-36s  %-16s  %-22s  %3s  %7s  %-28s  %s\n",
			"ID", "Created", "Profile", "Int", "Daily", "Email", "Language")
		fmt.Fprintln(out, rule(132))
		for _, r := range recs {
			fmt.Fprintf(out, "%-36s  %-16s  %-22s  %3d  %7s  %-28s  %s\n",
				r.ID,
				r.CreatedAt.Local().Format("2006-01-02 15:04"),
				r.ProfileID,
				r.Intensity,
				scoring.FormatMinutes(r.TimeCommitment),
				truncate(r.Email, 28),
				r.LanguageSelection().Display())
		}
		fmt.Fprintf(out, "\n%d assessments\n", len(recs))
		return nil
	},
}

var assessmentsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one assessment with its answers and result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		rec, err := e.backend.Assessments().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"id":             rec.ID,
				"email":          rec.Email,
				"userName":       rec.UserName,
				"completionTime": rec.CompletionTime.Seconds(),
				"rulesVersion":   rec.RulesVersion,
				"createdAt":      rec.CreatedAt,
				"responses":      rec.Responses,
				"result":         rec.Result,
			})
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:          %s\n", rec.ID)
		fmt.Fprintf(out, "Created:     %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Duration:    %s\n", rec.CompletionTime.Round(time.Second))
		fmt.Fprintf(out, "Rules:       %s\n", rec.RulesVersion)
		if rec.Email != "" {
			fmt.Fprintf(out, "Contact:     %s <%s>\n", rec.UserName, rec.Email)
		}

		fmt.Fprintln(out, "\nAnswers:")
		for _, q := range quiz.Catalog() {
			a, ok := rec.Responses[q.ID]
			if !ok {
				continue
			}
			fmt.Fprintf(out, "  %-26s %s\n", q.ID, answerLabel(q.ID, a))
		}
		fmt.Fprintln(out)
		writeBundleText(out, rec.Result)
		return nil
	},
}

var assessmentsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.backend.Assessments().Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	f := assessmentsListCmd.Flags()
	f.Int("limit", 50, "Maximum number of assessments, 0 for all")
	f.Int("offset", 0, "Number of assessments to skip")
	f.String("profile", "", "Only this profile ID")
	f.String("language", "", "Only this language code")
	f.String("email", "", "Only this email address")

	assessmentsShowCmd.Flags().Bool("json", false, "Print as JSON")

	assessmentsCmd.AddCommand(assessmentsListCmd)
	assessmentsCmd.AddCommand(assessmentsShowCmd)
	assessmentsCmd.AddCommand(assessmentsDeleteCmd)
}

// answerLabel renders an answer with option display texts.
func answerLabel(questionID string, a quiz.Answer) string {
	switch v := a.(type) {
	case quiz.SingleChoice:
		return quiz.OptionText(questionID, string(v))
	case quiz.MultiChoice:
		labels := make([]string, len(v))
		for i, id := range v {
			labels[i] = quiz.OptionText(questionID, id)
		}
		return strings.Join(labels, ", ")
	case quiz.Numeric:
		return scoring.FormatMinutes(int(v)) + " per day"
	case quiz.LanguageSelection:
		return v.Display() + ", " + quiz.OptionText(questionID, v.Timeline)
	}
	return ""
}
