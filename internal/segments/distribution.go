package segments

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/abhisek/fluentplan/internal/quiz"
	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

// Bucket is the share of respondents who gave one answer value.
type Bucket struct {
	Value   string  `json:"value"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Distribution tallies the answers to one question. Each member of a
// multiple-choice answer counts once, so percentages of such questions can
// sum past 100. Percent is relative to the records that answered. Buckets
// are ordered by count, then by catalog order.
func Distribution(records []*store.Record, questionID string) ([]Bucket, error) {
	q, ok := quiz.Lookup(questionID)
	if !ok {
		return nil, fmt.Errorf("unknown question %q", questionID)
	}

	counts := map[string]int{}
	answered := 0
	for _, rec := range records {
		values := answerValues(q, rec.Responses)
		if len(values) == 0 {
			continue
		}
		answered++
		for _, v := range values {
			counts[v]++
		}
	}

	out := make([]Bucket, 0, len(counts))
	for v, n := range counts {
		out = append(out, Bucket{
			Value:   v,
			Label:   bucketLabel(q, v),
			Count:   n,
			Percent: math.Round(float64(n)/float64(answered)*1000) / 10,
		})
	}
	rank := catalogRank(q)
	slices.SortFunc(out, func(a, b Bucket) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		if c := cmp.Compare(rankOf(rank, a.Value), rankOf(rank, b.Value)); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
	return out, nil
}

func answerValues(q quiz.Question, rs quiz.ResponseSet) []string {
	switch q.Kind {
	case quiz.KindSingle:
		if v, ok := rs.Single(q.ID); ok {
			return []string{v}
		}
	case quiz.KindMultiple:
		return rs.Multi(q.ID)
	case quiz.KindSlider:
		if v, ok := rs.Number(q.ID); ok {
			return []string{strconv.Itoa(int(math.Round(v)))}
		}
	case quiz.KindLanguage:
		if sel, ok := rs.Language(q.ID); ok && sel.Language != "" {
			return []string{sel.Language}
		}
	}
	return nil
}

func bucketLabel(q quiz.Question, v string) string {
	switch q.Kind {
	case quiz.KindLanguage:
		return quiz.DisplayLanguage(v)
	case quiz.KindSlider:
		m, err := strconv.Atoi(v)
		if err != nil {
			return v
		}
		return scoring.FormatMinutes(m)
	default:
		return quiz.OptionText(q.ID, v)
	}
}

func catalogRank(q quiz.Question) map[string]int {
	rank := map[string]int{}
	for i, o := range q.Options {
		rank[o.ID] = i
	}
	for i, l := range q.Languages {
		rank[l.ID] = i
	}
	return rank
}

func rankOf(rank map[string]int, v string) int {
	if r, ok := rank[v]; ok {
		return r
	}
	return math.MaxInt
}
