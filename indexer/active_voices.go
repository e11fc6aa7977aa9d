package indexer

import (
	"fmt"

	"github.com/jsphweid/voicelead/interval"
	"github.com/jsphweid/voicelead/model"
)

const ActiveVoicesLabel = "Active Voices"

type ActiveVoicesSettings struct {
	// Attacked counts only voices attacking a note at the offset instead of
	// every voice still sounding.
	Attacked bool `yaml:"attacked"`
	// ShowAll keeps rows where the count did not change.
	ShowAll bool `yaml:"show_all"`
}

func (s ActiveVoicesSettings) Key() string {
	return fmt.Sprintf("attacked=%t,show_all=%t", s.Attacked, s.ShowAll)
}

func (s ActiveVoicesSettings) Validate() error {
	return nil
}

// ActiveVoices counts, at every offset, the voices sounding a note.
func ActiveVoices(noterest *model.Table, s ActiveVoicesSettings) *model.Table {
	cols := make([][]model.Value, noterest.Width())
	for col := range noterest.Labels {
		if s.Attacked {
			cols[col] = noterest.Column(col)
		} else {
			cols[col] = noterest.FillForward(col)
		}
	}

	res := model.Series{Label: ActiveVoicesLabel}
	last := -1.0
	for row, o := range noterest.Index {
		count := 0.0
		for col := range cols {
			v := cols[col][row]
			if !v.IsNA() && v.Str() != interval.Rest {
				count++
			}
		}
		if !s.ShowAll && count == last {
			continue
		}
		last = count
		res.Offsets = append(res.Offsets, o)
		res.Values = append(res.Values, model.Number(count))
	}
	return model.Align(res)
}
