package extract

import (
	"sort"
	"strconv"

	"github.com/jsphweid/voicelead/chord"
	"github.com/jsphweid/voicelead/model"
	"golang.org/x/exp/slices"
)

var (
	NoteRest      = []model.Kind{model.KindNote, model.KindRest, model.KindChord}
	Measures      = []model.Kind{model.KindMeasure}
	TimeSignature = []model.Kind{model.KindTimeSignature}
)

// Extract returns every timed object of a part, oldest first, with nested
// voices merged.
func Extract(p *model.Part) []*model.Event {
	events := chord.CombineVoices(p.Events)
	sorted := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if e.Kind != model.KindVoice {
			sorted = append(sorted, e)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Offset < sorted[j].Offset
	})
	return sorted
}

// FilterType keeps the events whose kind is listed. An event is kept only at
// its own offset; a later event at an offset already taken is dropped.
func FilterType(events []*model.Event, label string, kinds ...model.Kind) model.Series {
	s := model.Series{Label: label}
	for _, e := range events {
		if !slices.Contains(kinds, e.Kind) {
			continue
		}
		if n := len(s.Offsets); n > 0 && s.Offsets[n-1] == e.Offset {
			continue
		}
		s.Offsets = append(s.Offsets, e.Offset)
		s.Values = append(s.Values, model.Object(e))
	}
	return s
}

// EliminateTies drops events that continue or end a tie, so a tied note
// appears once, at its attack.
func EliminateTies(s model.Series) model.Series {
	res := model.Series{Label: s.Label}
	for i, v := range s.Values {
		if e := v.Event(); e != nil && (e.Tie == model.TieContinue || e.Tie == model.TieStop) {
			continue
		}
		res.Offsets = append(res.Offsets, s.Offsets[i])
		res.Values = append(res.Values, v)
	}
	return res
}

// PartsTable extracts every part of the score, filtered to kinds, into one
// aligned table of events with one column per part.
func PartsTable(score *model.Score, eliminateTies bool, kinds ...model.Kind) *model.Table {
	series := make([]model.Series, 0, len(score.Parts))
	for i, p := range score.Parts {
		s := FilterType(Extract(p), strconv.Itoa(i), kinds...)
		if eliminateTies {
			s = EliminateTies(s)
		}
		series = append(series, s)
	}
	return model.Align(series...)
}
