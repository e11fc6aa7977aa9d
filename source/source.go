// Package source reads scores that were parsed ahead of time and stored as
// YAML or JSON, and picks the right reader for a file by its extension.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jsphweid/voicelead/midi"
	"github.com/jsphweid/voicelead/model"
	"github.com/jsphweid/voicelead/piece"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// File reads a score document, or an opus document with a top level
// "scores" list. JSON is read as YAML.
type File struct{}

func (File) Load(pathname string) ([]*model.Score, error) {
	dat, err := os.ReadFile(pathname)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", pathname)
	}
	scores, err := Parse(dat)
	return scores, errors.Wrapf(err, "parsing %s", pathname)
}

// Parse decodes one score or an opus. Unknown keys are rejected.
func Parse(dat []byte) ([]*model.Score, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(dat, &probe); err != nil {
		return nil, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(dat))
	dec.KnownFields(true)
	if _, ok := probe["scores"]; ok {
		var opus model.Opus
		if err := dec.Decode(&opus); err != nil {
			return nil, err
		}
		return opus.Scores, nil
	}
	var score model.Score
	if err := dec.Decode(&score); err != nil {
		return nil, err
	}
	return []*model.Score{&score}, nil
}

// Encode writes scores in the form Parse reads back.
func Encode(scores ...*model.Score) ([]byte, error) {
	if len(scores) == 1 {
		return yaml.Marshal(scores[0])
	}
	return yaml.Marshal(model.Opus{Scores: scores})
}

// Sources maps lower-case file extensions to readers.
type Sources map[string]piece.ScoreSource

func Default() Sources {
	return Sources{
		".mid":  midi.Source{},
		".midi": midi.Source{},
		".yaml": File{},
		".yml":  File{},
		".json": File{},
	}
}

func (s Sources) Load(pathname string) ([]*model.Score, error) {
	ext := strings.ToLower(filepath.Ext(pathname))
	src, ok := s[ext]
	if !ok {
		return nil, fmt.Errorf("%s: no reader for %q files", pathname, ext)
	}
	return src.Load(pathname)
}
