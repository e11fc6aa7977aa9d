package chord

import (
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

func pitch(name string) model.Pitch {
	p, err := model.ParsePitch(name)
	if err != nil {
		panic(err)
	}
	return p
}

func note(offset model.Offset, name string) *model.Event {
	return &model.Event{Offset: offset, Kind: model.KindNote, Pitches: []model.Pitch{pitch(name)}, Duration: 1}
}

func rest(offset model.Offset) *model.Event {
	return &model.Event{Offset: offset, Kind: model.KindRest, Duration: 1}
}

func voice(n int) *model.Event {
	return &model.Event{Kind: model.KindVoice, VoiceLen: n}
}

func TestCreateChordKey(t *testing.T) {
	key := CreateChordKey([]model.Pitch{pitch("C4"), pitch("G4"), pitch("E4")})
	assert.Equal(t, "G4 E4 C4", key)
}

func TestSplitVoices(t *testing.T) {
	m := &model.Event{Kind: model.KindMeasure, Number: 1}
	events := []*model.Event{m, voice(2), note(0, "C5"), note(1, "D5"), voice(1), note(0, "C4")}
	top, voices := SplitVoices(events)

	assert := assert.New(t)
	assert.Equal([]*model.Event{m}, top)
	assert.Len(voices, 2)
	assert.Len(voices[0], 2)
	assert.Len(voices[1], 1)
}

func TestCombineVoicesWithoutVoicesIsIdentity(t *testing.T) {
	events := []*model.Event{note(0, "C4"), note(1, "D4")}
	assert.Equal(t, events, CombineVoices(events))
}

func TestCombineVoices(t *testing.T) {
	events := []*model.Event{
		{Kind: model.KindMeasure, Number: 1},
		voice(3), note(0, "C4"), rest(1), rest(2),
		voice(3), note(0, "E4"), note(1, "F4"), rest(2),
	}
	combined := CombineVoices(events)

	assert := assert.New(t)
	assert.Len(combined, 4)
	assert.Equal(model.KindMeasure, combined[0].Kind)
	assert.Equal(model.KindChord, combined[1].Kind)
	assert.Equal("E4 C4", combined[1].String())

	// the first voice's rest at 1 is lost to the second voice's note
	assert.Equal(model.KindNote, combined[2].Kind)
	assert.Equal("F4", combined[2].String())

	assert.Equal(model.KindRest, combined[3].Kind)
	assert.Equal(model.Offset(2), combined[3].Offset)
}
