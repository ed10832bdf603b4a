package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/fluentplan/internal/scoring"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeBundleText prints a result bundle for a terminal without styling.
func writeBundleText(w io.Writer, b scoring.ResultBundle) {
	a := b.Allocation
	fmt.Fprintf(w, "%s %s\n", b.Profile.Icon, b.Profile.Title)
	fmt.Fprintf(w, "%s\n\n", b.Profile.Description)
	fmt.Fprintf(w, "Intensity: %d/%d (%s)\n", b.Intensity, scoring.MaxIntensity, scoring.IntensityLabel(b.Intensity))
	fmt.Fprintf(w, "Daily time: %s = immersion %s, study %s, output %s\n",
		scoring.FormatMinutes(a.TotalMinutes),
		scoring.FormatMinutes(a.ImmersionMinutes),
		scoring.FormatMinutes(a.StudyMinutes),
		scoring.FormatMinutes(a.OutputMinutes))
	fmt.Fprintf(w, "Passive listening: %s\n", b.Passive.RangeLabel)
	for _, act := range b.Passive.Activities {
		fmt.Fprintf(w, "  - %s\n", act)
	}

	if len(b.RealityChecks) > 0 {
		fmt.Fprintln(w, "\nReality checks:")
		for _, c := range b.RealityChecks {
			fmt.Fprintf(w, "  [%s] %s: %s\n", c.Priority, c.Title, c.Message)
		}
	}
	writeList(w, "Recommendations", b.Recommendations)
	writeList(w, "Next steps", b.NextSteps)
	writeList(w, "Insights", b.Insights)

	fmt.Fprintf(w, "\nIn six months: %s\n%s\n", b.Projection.Level, b.Projection.Description)
	for _, m := range b.Projection.Milestones {
		fmt.Fprintf(w, "  - %s\n", m)
	}
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func rule(n int) string {
	return strings.Repeat("\u2500", n)
}
