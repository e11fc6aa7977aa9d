package indexer

import (
	"fmt"

	"github.com/jsphweid/voicelead/model"
)

var tieTypes = map[model.Tie]string{
	model.TieStart:    "[",
	model.TieContinue: "_",
	model.TieStop:     "]",
}

func BeatStrength(events *model.Table) *model.Table {
	return MapEvents(events, func(e *model.Event) model.Value {
		return model.Number(e.BeatStrength)
	})
}

// Measure numbers each measure, from 1 unless the piece opens with a pickup.
func Measure(measures *model.Table) *model.Table {
	return MapEvents(measures, func(e *model.Event) model.Value {
		return model.Number(float64(e.Number))
	})
}

// Tie marks the start, continuation and end of tied notes with "[", "_" and
// "]". Untied events are missing.
func Tie(events *model.Table) *model.Table {
	return MapEvents(events, func(e *model.Event) model.Value {
		if s, ok := tieTypes[e.Tie]; ok {
			return model.Text(s)
		}
		return model.NA
	})
}

// TimeSignature writes each time signature as "*M3/4". Only rows holding a
// time signature are kept.
func TimeSignature(events *model.Table) *model.Table {
	res := MapEvents(events, func(e *model.Event) model.Value {
		if e.Kind != model.KindTimeSignature {
			return model.NA
		}
		return model.Text(fmt.Sprintf("*M%d/%d", e.Numerator, e.Denominator))
	})
	return res.Compact()
}

// Duration measures each event from its attack to the next attack in the
// same voice. The last event of a voice lasts until the end of its part,
// given by highest, one entry per column.
func Duration(events *model.Table, highest []model.Offset) (*model.Table, error) {
	if len(highest) != events.Width() {
		return nil, fmt.Errorf("%w: %d part lengths for %d voices", model.ErrArgumentMismatch, len(highest), events.Width())
	}
	res := model.NewTable(events.Index, events.Labels)
	for col := range events.Labels {
		s := events.Series(col)
		for i, o := range s.Offsets {
			end := highest[col]
			if i+1 < len(s.Offsets) {
				end = s.Offsets[i+1]
			}
			row, _ := res.Row(o)
			res.Set(row, col, model.Number(end-o))
		}
	}
	return res, nil
}
