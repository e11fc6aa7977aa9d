package indexer

import (
	"testing"

	"github.com/jsphweid/voicelead/interval"
	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

func twoVoices() *model.Table {
	return textTable([]model.Offset{0, 1, 2, 3}, []string{"0", "1"},
		[]string{"C5", "C4"},
		[]string{"B4", ""},
		[]string{"", "G3"},
		[]string{"Rest", "E3"},
	)
}

func TestVertical(t *testing.T) {
	vert, err := Vertical(twoVoices(), interval.Detailed())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"0,1"}, vert.Labels)
	assert.Equal([]string{"P8", "M7", "M10", "Rest"}, cells(vert, "0,1"))
}

func TestVerticalWaitsForBothVoices(t *testing.T) {
	nr := textTable([]model.Offset{0, 1}, []string{"0", "1"},
		[]string{"C5", ""},
		[]string{"", "A4"},
	)
	vert, err := Vertical(nr, interval.Detailed())
	assert.NoError(t, err)
	assert.Equal(t, []string{"m3"}, cells(vert, "0,1"))
	assert.Equal(t, []model.Offset{1}, vert.Index)
}

func TestVerticalPairsAreOrdered(t *testing.T) {
	nr := textTable([]model.Offset{0}, []string{"0", "1", "2"}, []string{"C5", "E4", "C4"})
	vert, err := Vertical(nr, interval.Detailed())
	assert.NoError(t, err)
	assert.Equal(t, []string{"0,1", "0,2", "1,2"}, vert.Labels)
	assert.Equal(t, []string{"m6"}, cells(vert, "0,1"))
	assert.Equal(t, []string{"M3"}, cells(vert, "1,2"))
}

func TestHorizontal(t *testing.T) {
	assert := assert.New(t)

	later, err := Horizontal(twoVoices(), interval.Detailed())
	assert.NoError(err)
	assert.Equal([]model.Offset{1, 2, 3}, later.Index)
	assert.Equal([]string{"-m2", "", "Rest"}, cells(later, "0"))
	assert.Equal([]string{"", "-P4", "-m3"}, cells(later, "1"))

	s := interval.Detailed()
	s.HorizAttachLater = false
	before, err := Horizontal(twoVoices(), s)
	assert.NoError(err)
	assert.Equal([]model.Offset{0, 1, 2}, before.Index)
	assert.Equal([]string{"-m2", "Rest", ""}, cells(before, "0"))
	assert.Equal([]string{"-P4", "", "-m3"}, cells(before, "1"))
}

func TestAttachBeforeMatchesDirectComputation(t *testing.T) {
	nr := twoVoices()
	later, err := Horizontal(nr, interval.Detailed())
	assert.NoError(t, err)

	s := interval.Detailed()
	s.HorizAttachLater = false
	direct, err := Horizontal(nr, s)
	assert.NoError(t, err)

	moved := AttachBefore(later, nr)
	assert.True(t, direct.Equal(moved), "direct:\n%v\nmoved:\n%v", direct, moved)
	assert.Equal(t, []string{"-m2", "Rest", ""}, cells(moved, "0"))
}

func TestReducedIntervalsMatchDirectComputation(t *testing.T) {
	nr := twoVoices()
	detailed, err := Vertical(nr, interval.Detailed())
	assert.NoError(t, err)

	s := interval.Settings{Quality: false, Directed: false, Simple: true}
	direct, err := Vertical(nr, s)
	assert.NoError(t, err)

	reduced := ReduceIntervals(detailed, s)
	assert.True(t, direct.Equal(reduced), "direct:\n%v\nreduced:\n%v", direct, reduced)
	assert.Equal(t, "1", reduced.Cell(0, 0).Str())
	assert.Equal(t, "P8", detailed.Cell(0, 0).Str())
}
