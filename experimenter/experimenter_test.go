package experimenter

import (
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

func table(labels []string, rows ...[]string) *model.Table {
	index := make([]model.Offset, len(rows))
	for i := range rows {
		index[i] = model.Offset(i)
	}
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

func TestFrequency(t *testing.T) {
	counts := Frequency(table([]string{"0,1", "0,2"},
		[]string{"P5", "M3"},
		[]string{"P5", ""},
		[]string{"m3", "M3"},
	))

	assert := assert.New(t)
	assert.Equal([]string{"M3", "P5", "m3"}, counts.Keys)
	assert.Equal([]string{"0,1", "0,2"}, counts.Labels)
	assert.True(counts.Cell(0, 0).IsNA())
	assert.Equal("2", counts.Cell(0, 1).String())
	assert.Equal("2", counts.Cell(1, 0).String())
	assert.True(counts.Cell(1, 1).IsNA())
}

func TestAggregateAcrossPieces(t *testing.T) {
	first := Frequency(table([]string{"0,1", "0,2"},
		[]string{"P5", "M3"},
		[]string{"P5", ""},
	))
	second := Frequency(table([]string{"0,1"},
		[]string{"M3"},
		[]string{"m6"},
	))
	agg := Aggregate(first, second)

	assert := assert.New(t)
	assert.Equal([]string{AggregatedLabel}, agg.Labels)
	assert.Equal(2.0, agg.Get("P5"))
	assert.Equal(2.0, agg.Get("M3"))
	assert.Equal(1.0, agg.Get("m6"))
}

func TestSummarizeSortsDescending(t *testing.T) {
	res := Summarize(
		Frequency(table([]string{"0,1"}, []string{"m3"}, []string{"P5"}, []string{"P5"})),
		Frequency(table([]string{"0,1"}, []string{"P5"}, []string{"M6"}, []string{"m3"})),
	)
	assert.Equal(t, []string{"P5", "m3", "M6"}, res.Keys)
	assert.Equal(t, 3.0, res.Get("P5"))
}
