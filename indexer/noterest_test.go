package indexer

import (
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

func TestNoteRest(t *testing.T) {
	chord := &model.Event{Kind: model.KindChord, Pitches: []model.Pitch{pitch("G4"), pitch("E4"), pitch("C4")}}
	events := eventTable([]model.Offset{0, 1, 2}, []string{"0", "1"},
		[]*model.Event{note("C5"), chord},
		[]*model.Event{rest(), nil},
		[]*model.Event{nil, note("B3")},
	)

	assert := assert.New(t)
	nr := NoteRest(events)
	assert.Equal([]string{"C5", "Rest", ""}, cells(nr, "0"))
	assert.Equal([]string{"G4", "", "B3"}, cells(nr, "1"))

	ms := MultiStop(events)
	assert.Equal([]string{"G4 E4 C4", "", "B3"}, cells(ms, "1"))
}

func TestNoteRestChordInAnyOrder(t *testing.T) {
	authored := &model.Event{Kind: model.KindChord, Pitches: []model.Pitch{pitch("C4"), pitch("G4"), pitch("E4")}}
	events := eventTable([]model.Offset{0}, []string{"0"}, []*model.Event{authored})

	assert.Equal(t, []string{"G4"}, cells(NoteRest(events), "0"))
	assert.Equal(t, "C4", authored.Pitches[0].Name())
}

func TestMissingPropagates(t *testing.T) {
	events := eventTable([]model.Offset{0, 1}, []string{"0"},
		[]*model.Event{nil},
		[]*model.Event{note("C4")},
	)
	for name, table := range map[string]*model.Table{
		"noterest":      NoteRest(events),
		"multistop":     MultiStop(events),
		"beat strength": BeatStrength(events),
		"tie":           Tie(events),
		"lyric":         Lyric(events),
	} {
		t.Run(name, func(t *testing.T) {
			assert.True(t, table.Cell(0, 0).IsNA())
		})
	}
}

func TestMeterIndexers(t *testing.T) {
	events := eventTable([]model.Offset{0, 1, 2, 3}, []string{"0"},
		[]*model.Event{{Kind: model.KindNote, Pitches: []model.Pitch{pitch("C4")}, BeatStrength: 1, Tie: model.TieStart}},
		[]*model.Event{{Kind: model.KindNote, Pitches: []model.Pitch{pitch("C4")}, BeatStrength: 0.25, Tie: model.TieContinue}},
		[]*model.Event{{Kind: model.KindNote, Pitches: []model.Pitch{pitch("C4")}, BeatStrength: 0.5, Tie: model.TieStop, Lyric: "la"}},
		[]*model.Event{{Kind: model.KindRest, BeatStrength: 0.25, Fermata: true}},
	)

	assert := assert.New(t)
	assert.Equal([]string{"1", "0.25", "0.5", "0.25"}, cells(BeatStrength(events), "0"))
	assert.Equal([]string{"[", "_", "]", ""}, cells(Tie(events), "0"))
	assert.Equal([]string{"", "", "la", ""}, cells(Lyric(events), "0"))
	assert.Equal([]string{"", "", "", "Fermata"}, cells(Fermata(events), "0"))
}

func TestDuration(t *testing.T) {
	events := eventTable([]model.Offset{0, 1, 1.5, 4}, []string{"0", "1"},
		[]*model.Event{note("C5"), note("C4")},
		[]*model.Event{note("D5"), nil},
		[]*model.Event{nil, note("D4")},
		[]*model.Event{rest(), nil},
	)

	assert := assert.New(t)
	durations, err := Duration(events, []model.Offset{6, 8})
	assert.NoError(err)
	assert.Equal([]string{"1", "3", "", "2"}, cells(durations, "0"))
	assert.Equal([]string{"1.5", "", "6.5", ""}, cells(durations, "1"))

	_, err = Duration(events, []model.Offset{6})
	assert.ErrorIs(err, model.ErrArgumentMismatch)
}

func TestMeasureAndTimeSignature(t *testing.T) {
	events := eventTable([]model.Offset{0, 3, 6}, []string{"0"},
		[]*model.Event{{Kind: model.KindTimeSignature, Numerator: 3, Denominator: 4}},
		[]*model.Event{{Kind: model.KindMeasure, Number: 2}},
		[]*model.Event{{Kind: model.KindTimeSignature, Numerator: 6, Denominator: 8}},
	)

	assert := assert.New(t)
	ts := TimeSignature(events)
	assert.Equal([]model.Offset{0, 6}, ts.Index)
	assert.Equal([]string{"*M3/4", "*M6/8"}, cells(ts, "0"))

	measures := eventTable([]model.Offset{0, 3}, []string{"0"},
		[]*model.Event{{Kind: model.KindMeasure, Number: 1}},
		[]*model.Event{{Kind: model.KindMeasure, Number: 2}},
	)
	assert.Equal([]string{"1", "2"}, cells(Measure(measures), "0"))
}

func TestActiveVoices(t *testing.T) {
	nr := textTable([]model.Offset{0, 1, 2, 3}, []string{"0", "1"},
		[]string{"C5", "C4"},
		[]string{"D5", ""},
		[]string{"Rest", "D4"},
		[]string{"E5", ""},
	)

	assert := assert.New(t)
	sounding := ActiveVoices(nr, ActiveVoicesSettings{ShowAll: true})
	assert.Equal([]string{"2", "2", "1", "2"}, cells(sounding, ActiveVoicesLabel))

	attacked := ActiveVoices(nr, ActiveVoicesSettings{Attacked: true, ShowAll: true})
	assert.Equal([]string{"2", "1", "1", "1"}, cells(attacked, ActiveVoicesLabel))

	changes := ActiveVoices(nr, ActiveVoicesSettings{})
	assert.Equal([]model.Offset{0, 2, 3}, changes.Index)
}
