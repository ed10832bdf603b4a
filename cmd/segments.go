package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/segments"
	"github.com/abhisek/fluentplan/internal/store"
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "Show assessment counts per profile, language, intensity and time",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		if live, _ := cmd.Flags().GetBool("live"); live {
			counter, err := e.counter(cmd.Context())
			if err != nil {
				return err
			}
			snap, err := counter.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			writeSnapshot(out, snap)
			return nil
		}

		recs, err := e.backend.Assessments().List(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return err
		}
		st := segments.Summary(recs)
		fmt.Fprintf(out, "Assessments:      %d\n", st.Total)
		fmt.Fprintf(out, "With email:       %d\n", st.WithEmail)
		fmt.Fprintf(out, "Avg daily time:   %s\n", scoring.FormatMinutes(int(st.AvgTimeCommitment+0.5)))
		fmt.Fprintf(out, "Avg completion:   %s\n", st.AvgCompletion.Round(time.Second))
		if st.TopProfile != "" {
			fmt.Fprintf(out, "Top profile:      %s\n", st.TopProfile)
		}
		fmt.Fprintln(out)
		writeSnapshot(out, segments.Segment(recs).Counts())
		return nil
	},
}

var analysisCmd = &cobra.Command{
	Use:   "analysis <question-id>",
	Short: "Show how respondents answered one question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := quiz.Lookup(args[0]); !ok {
			return fmt.Errorf("unknown question %q", args[0])
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
		buckets, err := segments.Distribution(recs, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-40s  %6s  %7s\n", "Answer", "Count", "Share")
		fmt.Fprintln(out, rule(57))
		for _, b := range buckets {
			fmt.Fprintf(out, "%-40s  %6d  %6.1f%%\n", truncate(b.Label, 40), b.Count, b.Percent)
		}
		if len(buckets) == 0 {
			fmt.Fprintln(out, "No answers yet.")
		}
		return nil
	},
}

func init() {
	segmentsCmd.Flags().Bool("live", false, "Read the live counters instead of scanning the store")
}

func writeSnapshot(w io.Writer, snap segments.Snapshot) {
	for i, d := range segments.Dimensions {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%-24s  %6s\n", "By "+string(d), "Count")
		fmt.Fprintln(w, rule(32))
		for _, kc := range snap.Ranked(d) {
			fmt.Fprintf(w, "%-24s  %6d\n", truncate(kc.Key, 24), kc.Count)
		}
	}
}
