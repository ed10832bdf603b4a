package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentplan/internal/quiz"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a set of answers without storing them",
	Long: "Reads a JSON object of answers keyed by question ID, either bare or wrapped as\n" +
		`{"responses": {...}}, validates it and prints the result.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		format, _ := cmd.Flags().GetString("format")
		if format != "json" && format != "text" {
			return fmt.Errorf("--format must be json or text, got %q", format)
		}

		raw, err := readInput(cmd, file)
		if err != nil {
			return err
		}
		rs, err := parseAnswers(raw)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		engine, err := newEngine(cfg)
		if err != nil {
			return err
		}
		bundle := engine.Evaluate(rs)

		out := cmd.OutOrStdout()
		if format == "text" {
			writeBundleText(out, bundle)
			return nil
		}
		return writeJSON(out, bundle)
	},
}

func init() {
	evaluateCmd.Flags().StringP("file", "f", "-", "Answers file, - for stdin")
	evaluateCmd.Flags().String("format", "json", "Output format: json or text")
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	return raw, nil
}

// parseAnswers accepts a bare answer object or one wrapped in "responses".
func parseAnswers(raw []byte) (quiz.ResponseSet, error) {
	var wrapped struct {
		Responses json.RawMessage `json:"responses"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Responses) > 0 {
		raw = wrapped.Responses
	}
	return quiz.Parse(raw)
}
