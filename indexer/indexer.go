// Package indexer holds the stateless transforms that turn aligned tables of
// score events into aligned tables of derived values. No indexer mutates its
// input, and a missing cell in the input stays missing in the output unless
// the indexer says otherwise.
package indexer

import (
	"fmt"
	"strings"

	"github.com/jsphweid/voicelead/model"
)

// None is the settings of indexers that take none.
type None struct{}

func (None) Key() string     { return "" }
func (None) Validate() error { return nil }

// Func maps one present cell to its index value. Returning model.NA leaves
// the cell missing.
type Func func(v model.Value) model.Value

// Map applies fn to every present cell. Rows and labels are unchanged.
func Map(t *model.Table, fn Func) *model.Table {
	res := model.NewTable(t.Index, t.Labels)
	for col := range t.Labels {
		for row, v := range t.Column(col) {
			if v.IsNA() {
				continue
			}
			res.Set(row, col, fn(v))
		}
	}
	return res
}

// MapEvents is Map for tables of score events. Cells that do not hold an
// event are left missing.
func MapEvents(t *model.Table, fn func(e *model.Event) model.Value) *model.Table {
	return Map(t, func(v model.Value) model.Value {
		e := v.Event()
		if e == nil {
			return model.NA
		}
		return fn(e)
	})
}

// PairLabel is the column label of voices i and j, lower index first.
func PairLabel(i, j string) string {
	return i + "," + j
}

// SplitPair undoes PairLabel.
func SplitPair(label string) (string, string, error) {
	parts := strings.Split(label, ",")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q is not a voice pair", model.ErrArgumentMismatch, label)
	}
	return parts[0], parts[1], nil
}

func column(t *model.Table, label string) ([]model.Value, error) {
	col, ok := t.ColumnIndex(label)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q (have %v)", model.ErrArgumentMismatch, label, t.Labels)
	}
	return t.Column(col), nil
}

// lookup reads the cell of label at offset o, or NA.
func lookup(t *model.Table, label string, o model.Offset) model.Value {
	col, ok := t.ColumnIndex(label)
	if !ok {
		return model.NA
	}
	row, ok := t.Row(o)
	if !ok {
		return model.NA
	}
	return t.Cell(row, col)
}
