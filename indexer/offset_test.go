package indexer

import (
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

func TestOffsetFill(t *testing.T) {
	data := textTable([]model.Offset{0, 0.5, 2, 3.5}, []string{"0", "1"},
		[]string{"C4", ""},
		[]string{"D4", "E3"},
		[]string{"", "F3"},
		[]string{"G4", ""},
	)

	res, err := Offset(data, DefaultOffsetSettings())
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.Offset{0, 1, 2, 3}, res.Index)
	assert.Equal([]string{"C4", "D4", "D4", "D4"}, cells(res, "0"))
	assert.Equal([]string{"", "E3", "F3", "F3"}, cells(res, "1"))
}

func TestOffsetNone(t *testing.T) {
	data := textTable([]model.Offset{0, 0.5, 2}, []string{"0"},
		[]string{"C4"},
		[]string{"D4"},
		[]string{"E4"},
	)

	res, err := Offset(data, OffsetSettings{QuarterLength: 1, Method: MethodNone})
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]model.Offset{0, 2}, res.Index)
	assert.Equal([]string{"C4", "E4"}, cells(res, "0"))
}

func TestOffsetSettings(t *testing.T) {
	cases := []OffsetSettings{
		{QuarterLength: 0, Method: MethodFill},
		{QuarterLength: -1, Method: MethodFill},
		{QuarterLength: 1, Method: "bfill"},
	}
	for _, s := range cases {
		t.Run(s.Key(), func(t *testing.T) {
			_, err := Offset(model.NewTable(nil, nil), s)
			assert.ErrorIs(t, err, model.ErrInvalidSetting)
		})
	}
}

func TestRepeat(t *testing.T) {
	data := textTable([]model.Offset{0, 1, 2, 3}, []string{"0", "1"},
		[]string{"C4", "A3"},
		[]string{"C4", "A3"},
		[]string{"D4", ""},
		[]string{"D4", "A3"},
	)

	res := Repeat(data)
	assert := assert.New(t)
	assert.Equal([]model.Offset{0, 2}, res.Index)
	assert.Equal([]string{"C4", "D4"}, cells(res, "0"))
	assert.Equal([]string{"A3", ""}, cells(res, "1"))
}

func TestFiguredBass(t *testing.T) {
	horiz := textTable([]model.Offset{1, 2}, []string{"0", "1", "2"},
		[]string{"2", "", "-2"},
		[]string{"", "3", "4"},
	)
	vert := textTable([]model.Offset{0, 1, 2}, []string{"0,1", "0,2", "1,2"},
		[]string{"3", "8", "5"},
		[]string{"", "10", "6"},
		[]string{"4", "", "3"},
	)

	res, err := FiguredBass(horiz, vert, DefaultFiguredBassSettings())
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]string{"2 0,2 1,2"}, res.Labels)
	assert.Equal([]string{"NaN 8 5", "-2 10 6", "4 NaN 3"}, cells(res, "2 0,2 1,2"))

	_, err = FiguredBass(horiz, vert, FiguredBassSettings{Horizontal: 5})
	assert.ErrorIs(err, model.ErrArgumentMismatch)
}
