// Package segments groups stored assessments for follow-up campaigns and
// reporting.
package segments

import (
	"cmp"
	"slices"
	"time"

	"github.com/abhisek/fluentplan/internal/scoring"
	"github.com/abhisek/fluentplan/internal/store"
)

// Dimension is one axis of segmentation.
type Dimension string

const (
	DimProfile   Dimension = "profile"
	DimLanguage  Dimension = "language"
	DimIntensity Dimension = "intensity"
	DimTime      Dimension = "time"
)

// Dimensions lists every dimension in display order.
var Dimensions = []Dimension{DimProfile, DimLanguage, DimIntensity, DimTime}

// Unknown is the segment for records missing a value.
const Unknown = "unknown"

// IntensityBand buckets an intensity level: low 1-3, medium 4-6, high 7-9.
func IntensityBand(n int) string {
	switch {
	case n <= 3:
		return "low"
	case n <= 6:
		return "medium"
	default:
		return "high"
	}
}

// TimeBand buckets a daily commitment: minimal under an hour, moderate up to
// two hours, high above that.
func TimeBand(minutes int) string {
	switch {
	case minutes < 60:
		return "minimal"
	case minutes <= 120:
		return "moderate"
	default:
		return "high"
	}
}

// Keys returns the segment a record falls into on each dimension.
func Keys(rec *store.Record) map[Dimension]string {
	profile := string(rec.ProfileID)
	if profile == "" {
		profile = Unknown
	}
	language := rec.Language
	if language == "" {
		language = Unknown
	}
	return map[Dimension]string{
		DimProfile:   profile,
		DimLanguage:  language,
		DimIntensity: IntensityBand(rec.Intensity),
		DimTime:      TimeBand(rec.TimeCommitment),
	}
}

// Segments holds records grouped per dimension and segment key.
type Segments map[Dimension]map[string][]*store.Record

// Segment groups records on every dimension. Records keep their input order
// within a segment.
func Segment(records []*store.Record) Segments {
	out := make(Segments, len(Dimensions))
	for _, d := range Dimensions {
		out[d] = map[string][]*store.Record{}
	}
	for _, rec := range records {
		for d, key := range Keys(rec) {
			out[d][key] = append(out[d][key], rec)
		}
	}
	return out
}

// Counts reduces the segments to sizes.
func (s Segments) Counts() Snapshot {
	snap := make(Snapshot, len(s))
	for d, groups := range s {
		snap[d] = make(map[string]int, len(groups))
		for key, recs := range groups {
			snap[d][key] = len(recs)
		}
	}
	return snap
}

// Snapshot is segment sizes per dimension.
type Snapshot map[Dimension]map[string]int

// Ranked returns the segments of one dimension, largest first and then by
// key.
func (s Snapshot) Ranked(d Dimension) []KeyCount {
	out := make([]KeyCount, 0, len(s[d]))
	for k, n := range s[d] {
		out = append(out, KeyCount{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b KeyCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}

// KeyCount is one segment and its size.
type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Stats summarizes a set of records.
type Stats struct {
	Total             int               `json:"total"`
	WithEmail         int               `json:"withEmail"`
	AvgTimeCommitment float64           `json:"avgTimeCommitment"`
	AvgCompletion     time.Duration     `json:"avgCompletion"`
	TopProfile        scoring.ProfileID `json:"topProfile,omitempty"`
}

// Summary computes totals and averages. Completion time averages only
// records that recorded one.
func Summary(records []*store.Record) Stats {
	st := Stats{Total: len(records)}
	if len(records) == 0 {
		return st
	}

	var minutes int
	var completion time.Duration
	var timed int
	for _, rec := range records {
		if rec.Email != "" {
			st.WithEmail++
		}
		minutes += rec.TimeCommitment
		if rec.CompletionTime > 0 {
			completion += rec.CompletionTime
			timed++
		}
	}
	st.AvgTimeCommitment = float64(minutes) / float64(len(records))
	if timed > 0 {
		st.AvgCompletion = completion / time.Duration(timed)
	}

	ranked := Segment(records).Counts().Ranked(DimProfile)
	if len(ranked) > 0 && ranked[0].Key != Unknown {
		st.TopProfile = scoring.ProfileID(ranked[0].Key)
	}
	return st
}
