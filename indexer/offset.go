package indexer

import (
	"fmt"
	"math"

	"github.com/jsphweid/voicelead/model"
)

const (
	MethodFill = "ffill"
	MethodNone = "none"
)

type OffsetSettings struct {
	QuarterLength float64 `yaml:"quarter_length"`
	Method        string  `yaml:"method"`
}

func DefaultOffsetSettings() OffsetSettings {
	return OffsetSettings{QuarterLength: 1, Method: MethodFill}
}

func (s OffsetSettings) Key() string {
	return fmt.Sprintf("quarter_length=%v,method=%s", s.QuarterLength, s.Method)
}

func (s OffsetSettings) Validate() error {
	if s.QuarterLength <= 0 || math.IsNaN(s.QuarterLength) || math.IsInf(s.QuarterLength, 0) {
		return fmt.Errorf("%w: quarter_length must be positive, got %v", model.ErrInvalidSetting, s.QuarterLength)
	}
	if s.Method != MethodFill && s.Method != MethodNone {
		return fmt.Errorf("%w: method must be %q or %q, got %q", model.ErrInvalidSetting, MethodFill, MethodNone, s.Method)
	}
	return nil
}

// Offset samples every column on a regular grid starting at the first
// offset of the table. With MethodFill each grid point holds the value in
// effect there, which fills gaps. With MethodNone only values that start
// exactly on a grid point are kept.
func Offset(data *model.Table, s OffsetSettings) (*model.Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if data.Len() == 0 {
		return data.Clone(), nil
	}
	first, last := data.Index[0], data.Index[data.Len()-1]
	var grid []model.Offset
	for i := 0; ; i++ {
		o := first + float64(i)*s.QuarterLength
		if o > last {
			break
		}
		grid = append(grid, o)
	}

	res := model.NewTable(grid, data.Labels)
	for col := range data.Labels {
		src := data.Series(col)
		k := -1
		for row, g := range grid {
			for k+1 < src.Len() && src.Offsets[k+1] <= g {
				k++
			}
			if k < 0 {
				continue
			}
			if s.Method == MethodNone && src.Offsets[k] != g {
				continue
			}
			res.Set(row, col, src.Values[k])
		}
	}
	if s.Method == MethodNone {
		return res.Compact(), nil
	}
	return res, nil
}

// Repeat drops every value equal to the one before it in the same column.
func Repeat(data *model.Table) *model.Table {
	series := data.AllSeries()
	for i, s := range series {
		res := model.Series{Label: s.Label}
		for k, v := range s.Values {
			if k > 0 && v.String() == s.Values[k-1].String() {
				continue
			}
			res.Offsets = append(res.Offsets, s.Offsets[k])
			res.Values = append(res.Values, v)
		}
		series[i] = res
	}
	return alignSeries(series)
}
