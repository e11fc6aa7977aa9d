package indexer

import (
	"github.com/jsphweid/voicelead/interval"
	"github.com/jsphweid/voicelead/model"
)

// Vertical names the harmonic interval of every pair of voices i<j, measured
// from the lower-listed voice j up to voice i, at every offset where either
// of them attacks. A voice that is not attacking contributes the note it is
// holding.
func Vertical(noterest *model.Table, s interval.Settings) (*model.Table, error) {
	var series []model.Series
	filled := make([][]model.Value, noterest.Width())
	for col := range noterest.Labels {
		filled[col] = noterest.FillForward(col)
	}
	for i := 0; i < noterest.Width(); i++ {
		for j := i + 1; j < noterest.Width(); j++ {
			pair := model.Series{Label: PairLabel(noterest.Labels[i], noterest.Labels[j])}
			for row, o := range noterest.Index {
				if noterest.Cell(row, i).IsNA() && noterest.Cell(row, j).IsNA() {
					continue
				}
				upper, lower := filled[i][row], filled[j][row]
				if upper.IsNA() || lower.IsNA() {
					continue
				}
				label, err := interval.Label(lower.Str(), upper.Str(), s)
				if err != nil {
					return nil, err
				}
				pair.Offsets = append(pair.Offsets, o)
				pair.Values = append(pair.Values, model.Text(label))
			}
			series = append(series, pair)
		}
	}
	return alignSeries(series), nil
}

// Horizontal names the melodic interval from each note of a voice to the
// next one. With HorizAttachLater the interval sits at the second note,
// otherwise at the first.
func Horizontal(noterest *model.Table, s interval.Settings) (*model.Table, error) {
	series := make([]model.Series, 0, noterest.Width())
	for col := range noterest.Labels {
		src := noterest.Series(col)
		res := model.Series{Label: src.Label}
		for k := 0; k+1 < src.Len(); k++ {
			label, err := interval.Label(src.Values[k].Str(), src.Values[k+1].Str(), s)
			if err != nil {
				return nil, err
			}
			o := src.Offsets[k]
			if s.HorizAttachLater {
				o = src.Offsets[k+1]
			}
			res.Offsets = append(res.Offsets, o)
			res.Values = append(res.Values, model.Text(label))
		}
		series = append(series, res)
	}
	return alignSeries(series), nil
}

// AttachBefore moves each interval of a table computed with HorizAttachLater
// back to the previous attack of its voice in noterest.
func AttachBefore(later, noterest *model.Table) *model.Table {
	series := make([]model.Series, 0, later.Width())
	for col, label := range later.Labels {
		prev := make(map[model.Offset]model.Offset)
		if nrCol, ok := noterest.ColumnIndex(label); ok {
			attacks := noterest.Series(nrCol).Offsets
			for k := 1; k < len(attacks); k++ {
				prev[attacks[k]] = attacks[k-1]
			}
		}
		src := later.Series(col)
		res := model.Series{Label: label}
		for k, o := range src.Offsets {
			p, ok := prev[o]
			if !ok {
				continue
			}
			res.Offsets = append(res.Offsets, p)
			res.Values = append(res.Values, src.Values[k])
		}
		series = append(series, res)
	}
	return alignSeries(series)
}

// ReduceIntervals respells a table computed with interval.Detailed so it
// reads as if it had been computed with s.
func ReduceIntervals(detailed *model.Table, s interval.Settings) *model.Table {
	return Map(detailed, func(v model.Value) model.Value {
		return model.Text(interval.Reduce(v.Str(), s))
	})
}

// alignSeries is model.Align that tolerates an empty input.
func alignSeries(series []model.Series) *model.Table {
	if len(series) == 0 {
		return model.NewTable(nil, nil)
	}
	return model.Align(series...)
}
