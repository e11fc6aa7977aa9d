package indexer

import (
	"github.com/jsphweid/voicelead/chord"
	"github.com/jsphweid/voicelead/interval"
	"github.com/jsphweid/voicelead/model"
)

// NoteRest names each note by its pitch and each rest "Rest". A chord is
// named by its highest pitch.
func NoteRest(events *model.Table) *model.Table {
	return MapEvents(events, func(e *model.Event) model.Value {
		switch {
		case e.Kind == model.KindRest:
			return model.Text(interval.Rest)
		case e.IsSounding() && len(e.Pitches) > 0:
			sorted := append([]model.Pitch(nil), e.Pitches...)
			chord.SortDescending(sorted)
			return model.Text(sorted[0].Name())
		default:
			return model.NA
		}
	})
}

// MultiStop names every pitch of a chord, highest first.
func MultiStop(events *model.Table) *model.Table {
	return MapEvents(events, func(e *model.Event) model.Value {
		switch {
		case e.Kind == model.KindRest:
			return model.Text(interval.Rest)
		case e.IsSounding() && len(e.Pitches) > 0:
			return model.Text(chord.CreateChordKey(e.Pitches))
		default:
			return model.NA
		}
	})
}
