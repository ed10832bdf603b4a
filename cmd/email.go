package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/mail"
)

var emailCmd = &cobra.Command{
	Use:   "email <id>",
	Short: "Render the email for a stored assessment",
	Long: "Render the personalized plan email for a stored assessment, or with --days\n" +
		"the check-in sent that many days later. Prints the plain-text part unless\n" +
		"--html is given.",
	Args: cobra.ExactArgs(1),
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

		data := mail.FromRecord(rec)
		var tmpl mail.Template
		if days, _ := cmd.Flags().GetInt("days"); days > 0 {
			tmpl, err = mail.FollowUp(data, days)
		} else {
			tmpl, err = mail.Personalized(data)
		}
		if err != nil {
			return fmt.Errorf("render email: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Subject: %s\n\n", tmpl.Subject)
		if asHTML, _ := cmd.Flags().GetBool("html"); asHTML {
			fmt.Fprintln(out, tmpl.HTML)
		} else {
			fmt.Fprintln(out, tmpl.Text)
		}
		return nil
	},
}

func init() {
	emailCmd.Flags().Int("days", 0, "Render the follow-up sent this many days after the assessment")
	emailCmd.Flags().Bool("html", false, "Print the HTML part")
}
