package analyzer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

type fakeSettings struct {
	N         int    `yaml:"n"`
	Continuer string `yaml:"continuer"`
}

func (s fakeSettings) Key() string {
	return fmt.Sprintf("n=%d,continuer=%s", s.N, s.Continuer)
}

func (s fakeSettings) Validate() error {
	if s.N < 1 {
		return fmt.Errorf("%w: n must be at least 1", model.ErrInvalidSetting)
	}
	return nil
}

func TestParse(t *testing.T) {
	cases := map[string]Tag{
		"noterest":                           NoteRest,
		"noterest.NoteRestIndexer":           NoteRest,
		"interval.HorizontalIntervalIndexer": HorizontalInterval,
		"ngram":                              NGram,
		"aggregator.ColumnAggregator":        Aggregator,
	}
	for id, want := range cases {
		t.Run(id, func(t *testing.T) {
			got, err := Parse(id)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("chordify")

	assert := assert.New(t)
	assert.True(errors.Is(err, model.ErrNotAnAnalyzer))
	assert.Contains(err.Error(), `"chordify"`)
	assert.Contains(err.Error(), "vertical_interval")
}

func TestEveryTagHasAName(t *testing.T) {
	for tag := NoteRest; tag <= Aggregator; tag++ {
		parsed, err := Parse(tag.String())
		assert.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}
}

func TestDecode(t *testing.T) {
	defaults := fakeSettings{N: 2, Continuer: "_"}
	assert := assert.New(t)

	s, err := Decode(nil, defaults)
	assert.NoError(err)
	assert.Equal(defaults, s)

	s, err = Decode(map[string]any{"n": 3}, defaults)
	assert.NoError(err)
	assert.Equal(fakeSettings{N: 3, Continuer: "_"}, s)

	_, err = Decode(map[string]any{"size": 3}, defaults)
	assert.True(errors.Is(err, model.ErrInvalidSetting))

	_, err = Decode(map[string]any{"n": 0}, defaults)
	assert.True(errors.Is(err, model.ErrInvalidSetting))
}
