package extract

import (
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

func note(offset model.Offset, name string, tie model.Tie) *model.Event {
	p, _ := model.ParsePitch(name)
	return &model.Event{Offset: offset, Kind: model.KindNote, Pitches: []model.Pitch{p}, Duration: 1, Tie: tie}
}

func TestFilterTypeKeepsOffsets(t *testing.T) {
	part := &model.Part{Events: []*model.Event{
		{Offset: 0, Kind: model.KindMeasure, Number: 1},
		note(0, "C4", model.TieNone),
		{Offset: 0, Kind: model.KindTimeSignature, Numerator: 3, Denominator: 4},
		note(1, "D4", model.TieNone),
		{Offset: 3, Kind: model.KindMeasure, Number: 2},
		{Offset: 3, Kind: model.KindRest, Duration: 1},
	}}
	events := Extract(part)

	assert := assert.New(t)
	notes := FilterType(events, "0", NoteRest...)
	assert.Equal([]model.Offset{0, 1, 3}, notes.Offsets)
	measures := FilterType(events, "0", Measures...)
	assert.Equal([]model.Offset{0, 3}, measures.Offsets)
	assert.Equal(2, measures.Values[1].Event().Number)
}

func TestEliminateTies(t *testing.T) {
	part := &model.Part{Events: []*model.Event{
		note(0, "C4", model.TieStart),
		note(1, "C4", model.TieContinue),
		note(2, "C4", model.TieStop),
		note(3, "D4", model.TieNone),
	}}
	s := EliminateTies(FilterType(Extract(part), "0", NoteRest...))
	assert.Equal(t, []model.Offset{0, 3}, s.Offsets)
}

func TestPartsTable(t *testing.T) {
	score := &model.Score{Parts: []*model.Part{
		{Events: []*model.Event{note(0, "C5", model.TieNone), note(2, "D5", model.TieNone)}},
		{Events: []*model.Event{note(0, "C4", model.TieNone), note(1, "B3", model.TieNone)}},
	}}
	table := PartsTable(score, true, NoteRest...)

	assert := assert.New(t)
	assert.Equal([]string{"0", "1"}, table.Labels)
	assert.Equal([]model.Offset{0, 1, 2}, table.Index)
	assert.True(table.Cell(1, 0).IsNA())
	assert.Equal("B3", table.Cell(1, 1).String())
}
