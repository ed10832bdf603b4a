package scoring

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/fluentplan/internal/quiz"
)

//go:embed passive_time.yaml
var defaultPassiveYAML []byte

// PassiveTable maps lifestyle answers to passive-time estimates.
type PassiveTable map[string]PassiveTimeEstimate

// DefaultPassiveTable returns a copy of the built-in table.
func DefaultPassiveTable() PassiveTable {
	out := make(PassiveTable, len(defaultPassive))
	for k, v := range defaultPassive {
		v.Activities = slices.Clone(v.Activities)
		out[k] = v
	}
	return out
}

var defaultPassive = mustLoadPassive(defaultPassiveYAML)

func mustLoadPassive(data []byte) PassiveTable {
	t, err := LoadPassiveTable(bytes.NewReader(data))
	if err != nil {
		panic(fmt.Sprintf("scoring: built-in passive table: %v", err))
	}
	return t
}

// LoadPassiveTable decodes a YAML passive-time table and checks that every
// entry is complete and that the flexible fallback exists.
func LoadPassiveTable(r io.Reader) (PassiveTable, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var t PassiveTable
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("passive table is empty")
		}
		return nil, fmt.Errorf("decode passive table: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadPassiveTableFile reads a passive-time table from a YAML file.
func LoadPassiveTableFile(path string) (PassiveTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open passive table: %w", err)
	}
	defer f.Close()
	return LoadPassiveTable(f)
}

func (t PassiveTable) validate() error {
	var errs []string
	if _, ok := t[quiz.LifestyleFlexible]; !ok {
		errs = append(errs, fmt.Sprintf("missing fallback entry %q", quiz.LifestyleFlexible))
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := t[k]
		if strings.TrimSpace(e.RangeLabel) == "" {
			errs = append(errs, fmt.Sprintf("entry %q has no range", k))
		}
		if len(e.Activities) == 0 {
			errs = append(errs, fmt.Sprintf("entry %q has no activities", k))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid passive table: %s", strings.Join(errs, "; "))
	}
	return nil
}

// lookup returns the entry for lifestyle, falling back to flexible. The
// activities slice is copied so callers own the result.
func (t PassiveTable) lookup(lifestyle string) PassiveTimeEstimate {
	e, ok := t[lifestyle]
	if !ok {
		e = t[quiz.LifestyleFlexible]
	}
	e.Activities = slices.Clone(e.Activities)
	if e.Activities == nil {
		e.Activities = []string{}
	}
	return e
}

// EstimatePassiveTime looks up the built-in passive-time estimate for a
// lifestyle answer. Unknown or empty lifestyles get the flexible entry.
func EstimatePassiveTime(lifestyle string) PassiveTimeEstimate {
	return defaultPassive.lookup(lifestyle)
}

type activityTip struct {
	keywords []string
	tip      string
}

var activityTips = []activityTip{
	{[]string{"commute", "driving", "transport"}, "Replace your usual podcasts or music with target language content. Your brain is already in 'listening mode' during commutes."},
	{[]string{"workout", "exercise", "gym"}, "Perfect for high-energy content like music, podcasts, or even TV shows. Physical activity enhances language processing."},
	{[]string{"cooking", "kitchen", "meal"}, "Ideal for cooking shows, food podcasts, or casual conversations. Visual context helps with comprehension."},
	{[]string{"cleaning", "housework", "chores"}, "Great for repetitive tasks - your mind can focus on language patterns while your body handles the routine work."},
	{[]string{"walking", "jogging", "running"}, "Excellent for podcasts, audiobooks, or music. Movement stimulates brain activity and improves retention."},
	{[]string{"shower", "bathroom", "getting ready"}, "Short but consistent exposure. Perfect for daily news, weather reports, or short podcasts."},
	{[]string{"sleep", "bedtime", "falling asleep"}, "Play content at very low volume. Your subconscious mind continues processing language even as you drift off."},
	{[]string{"waiting", "queue", "line"}, "Transform dead time into learning time. Even 5-10 minutes of passive listening adds up significantly."},
	{[]string{"work", "office", "desk"}, "Background listening during non-verbal tasks. Choose content that doesn't require full attention."},
}

const genericActivityTip = "Turn this routine activity into a language learning opportunity. Consistency beats intensity every time."

// ActivityTip returns coaching text for one passive activity suggestion,
// matched on keywords in the activity name.
func ActivityTip(activity string) string {
	a := strings.ToLower(activity)
	for _, t := range activityTips {
		for _, kw := range t.keywords {
			if strings.Contains(a, kw) {
				return t.tip
			}
		}
	}
	return genericActivityTip
}
