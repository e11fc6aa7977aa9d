package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/voicelead/model"
	"github.com/stretchr/testify/assert"
)

const chorale = `
metadata:
  title: Chorale
parts:
  - name: Soprano
    highest_time: 2
    events:
      - {offset: 0, kind: measure, number: 1}
      - {offset: 0, kind: note, pitches: [C5], duration: 1, beat_strength: 1, tie: start}
      - {offset: 1, kind: note, pitches: [C5], duration: 1, beat_strength: 0.25, tie: stop}
  - name: Bass
    highest_time: 2
    events:
      - {offset: 0, kind: chord, pitches: [G3, C3], duration: 2, beat_strength: 1}
`

func TestParse(t *testing.T) {
	scores, err := Parse([]byte(chorale))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(scores, 1)
	score := scores[0]
	assert.Equal("Chorale", score.Metadata.Title)
	assert.Len(score.Parts, 2)
	assert.Equal(model.TieStop, score.Parts[0].Events[2].Tie)
	assert.Equal("G3 C3", score.Parts[1].Events[0].String())
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"unknown key", "parts: []\ncolour: red\n"},
		{"bad pitch", "parts:\n  - events:\n      - {offset: 0, kind: note, pitches: [H4]}\n"},
		{"bad kind", "parts:\n  - events:\n      - {offset: 0, kind: glissando}\n"},
		{"not yaml", "parts: [\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.doc))
			assert.Error(t, err)
		})
	}
}

func TestOpusRoundTrip(t *testing.T) {
	scores, err := Parse([]byte(chorale))
	assert.NoError(t, err)
	dat, err := Encode(scores[0], scores[0])
	assert.NoError(t, err)

	opus, err := Parse(dat)
	assert.NoError(t, err)
	assert.Len(t, opus, 2)
	assert.Equal(t, scores[0], opus[1])
}

func TestSourcesDispatch(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "chorale.YAML")
	assert.NoError(t, os.WriteFile(yamlPath, []byte(chorale), 0o644))

	scores, err := Default().Load(yamlPath)
	assert.NoError(t, err)
	assert.Len(t, scores, 1)

	_, err = Default().Load(filepath.Join(dir, "chorale.krn"))
	assert.Error(t, err)
}
