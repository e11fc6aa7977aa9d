package indexer

import (
	"strconv"

	"github.com/jsphweid/voicelead/model"
)

// textTable builds a table row by row. An empty string is a missing cell.
func textTable(index []model.Offset, labels []string, rows ...[]string) *model.Table {
	t := model.NewTable(index, labels)
	for row, cells := range rows {
		for col, c := range cells {
			if c != "" {
				t.Set(row, col, model.Text(c))
			}
		}
	}
	return t
}

// numberTable is textTable for numeric cells.
func numberTable(index []model.Offset, labels []string, rows ...[]string) *model.Table {
	t := model.NewTable(index, labels)
	for row, cells := range rows {
		for col, c := range cells {
			if f, err := strconv.ParseFloat(c, 64); err == nil {
				t.Set(row, col, model.Number(f))
			}
		}
	}
	return t
}

func cells(t *model.Table, label string) []string {
	col, ok := t.ColumnIndex(label)
	if !ok {
		return nil
	}
	res := make([]string, t.Len())
	for row, v := range t.Column(col) {
		if !v.IsNA() {
			res[row] = v.String()
		}
	}
	return res
}

func pitch(name string) model.Pitch {
	p, err := model.ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}

func eventTable(index []model.Offset, labels []string, rows ...[]*model.Event) *model.Table {
	t := model.NewTable(index, labels)
	for row, cells := range rows {
		for col, e := range cells {
			t.Set(row, col, model.Object(e))
		}
	}
	return t
}

func note(name string) *model.Event {
	return &model.Event{Kind: model.KindNote, Pitches: []model.Pitch{pitch(name)}}
}

func rest() *model.Event {
	return &model.Event{Kind: model.KindRest}
}
