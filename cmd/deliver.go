package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deliverCmd = &cobra.Command{
	Use:   "deliver",
	Short: "Send queued newsletter subscriptions once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		ob := e.outbox()
		if ob == nil {
			return errors.New("newsletter is not configured (set newsletter.api_key and newsletter.publication_id)")
		}
		st, err := ob.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), st)
		return nil
	},
}
