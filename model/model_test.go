package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func TestAlignOuterJoinsOnOffsets(t *testing.T) {
	a := Series{Label: "0", Offsets: []Offset{0, 1, 2}, Values: []Value{Text("C4"), Text("D4"), Text("E4")}}
	b := Series{Label: "1", Offsets: []Offset{0, 1.5}, Values: []Value{Text("A3"), Text("G3")}}
	table := Align(a, b)

	assert := assert.New(t)
	assert.Equal([]Offset{0, 1, 1.5, 2}, table.Index)
	assert.Equal([]string{"0", "1"}, table.Labels)
	assert.Equal("D4", table.Cell(1, 0).Str())
	assert.True(table.Cell(1, 1).IsNA())
	assert.True(table.Cell(2, 0).IsNA())
	assert.Equal("G3", table.Cell(2, 1).Str())
}

func TestIndexIsStrictlyIncreasing(t *testing.T) {
	a := Series{Label: "0", Offsets: []Offset{0, 2, 4}, Values: []Value{Number(1), Number(2), Number(3)}}
	b := Series{Label: "1", Offsets: []Offset{1, 2, 3}, Values: []Value{Number(1), Number(2), Number(3)}}
	table := Concat(Align(a), Align(b))
	for i := 1; i < table.Len(); i++ {
		assert.Less(t, table.Index[i-1], table.Index[i])
	}
}

func TestFillForwardAndCompact(t *testing.T) {
	table := NewTable([]Offset{0, 1, 2, 3}, []string{"0"})
	table.Set(1, 0, Text("x"))
	table.Set(3, 0, Text("y"))

	assert := assert.New(t)
	filled := table.FillForward(0)
	assert.True(filled[0].IsNA())
	assert.Equal("x", filled[1].Str())
	assert.Equal("x", filled[2].Str())
	assert.Equal("y", filled[3].Str())

	compact := table.Compact()
	assert.Equal([]Offset{1, 3}, compact.Index)
}

func TestSelectUnknownColumn(t *testing.T) {
	table := NewTable([]Offset{0}, []string{"0"})
	_, err := table.Select("5")
	assert.True(t, errors.Is(err, ErrArgumentMismatch))
}

func TestCountsSortAndFilter(t *testing.T) {
	counts := NewCounts([]string{"P5", "M3", "m3", "P8"}, []string{"freq"})
	for i, n := range []float64{2, 5, 5, 1} {
		counts.Set(i, 0, Number(n))
	}
	counts.SortDescending()

	assert := assert.New(t)
	assert.Equal([]string{"M3", "m3", "P5", "P8"}, counts.Keys)

	cases := []struct {
		topX      int
		threshold float64
		want      []string
	}{
		{0, 0, []string{"M3", "m3", "P5", "P8"}},
		{2, 0, []string{"M3", "m3"}},
		{0, 2, []string{"M3", "m3"}},
		{1, 1, []string{"M3"}},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("top %v threshold %v", c.topX, c.threshold), func(t *testing.T) {
			assert.Equal(c.want, counts.Filter(c.topX, c.threshold).Keys)
		})
	}
	assert.Equal(4, counts.Len())
}

func TestPitchNames(t *testing.T) {
	cases := []struct {
		name string
		midi int
	}{
		{"C4", 60},
		{"C#4", 61},
		{"B-3", 58},
		{"E--5", 74},
		{"A0", 21},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParsePitch(c.name)
			assert.NoError(t, err)
			assert.Equal(t, c.name, p.Name())
			assert.Equal(t, c.midi, p.MIDI())
		})
	}
	assert.Equal(t, "F#5", PitchFromMIDI(78).Name())
	_, err := ParsePitch("H4")
	assert.Error(t, err)
}

func TestEventYAML(t *testing.T) {
	src := `
offset: 1.5
kind: chord
pitches: [E4, C4]
tie: start
`
	var e Event
	assert := assert.New(t)
	assert.NoError(yaml.Unmarshal([]byte(src), &e))
	assert.Equal(KindChord, e.Kind)
	assert.Equal(TieStart, e.Tie)
	assert.Equal("E4 C4", e.String())
	assert.Equal("E4 C4", Object(&e).String())
	assert.Equal("NaN", NA.String())
}

func TestIsUsage(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsUsage(fmt.Errorf("%w: foo", ErrIndex)))
	assert.False(IsUsage(errors.New("disk on fire")))
}
