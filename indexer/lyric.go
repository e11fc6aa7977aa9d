package indexer

import (
	"github.com/jsphweid/voicelead/model"
)

func Lyric(events *model.Table) *model.Table {
	return MapEvents(events, func(e *model.Event) model.Value {
		if e.Lyric == "" {
			return model.NA
		}
		return model.Text(e.Lyric)
	})
}

func Fermata(events *model.Table) *model.Table {
	return MapEvents(events, func(e *model.Event) model.Value {
		if !e.Fermata {
			return model.NA
		}
		return model.Text("Fermata")
	})
}
