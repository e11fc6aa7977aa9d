package indexer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/voicelead/model"
)

type FiguredBassSettings struct {
	// Horizontal is the bass voice; -1 picks the last voice.
	Horizontal int `yaml:"horizontal"`
}

func DefaultFiguredBassSettings() FiguredBassSettings {
	return FiguredBassSettings{Horizontal: -1}
}

func (s FiguredBassSettings) Key() string {
	return "horizontal=" + strconv.Itoa(s.Horizontal)
}

func (s FiguredBassSettings) Validate() error {
	if s.Horizontal < -1 {
		return fmt.Errorf("%w: horizontal must be a voice index or -1, got %d", model.ErrInvalidSetting, s.Horizontal)
	}
	return nil
}

// FiguredBass pairs the melodic motion of the bass voice with every vertical
// interval sounding against it. The single output column is labelled with
// the bass voice followed by the pairs, and each cell lists the bass motion
// then the intervals in pair order.
func FiguredBass(horiz, vert *model.Table, s FiguredBassSettings) (*model.Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	bass := s.Horizontal
	if bass == -1 {
		bass = horiz.Width() - 1
	}
	if bass < 0 || bass >= horiz.Width() {
		return nil, fmt.Errorf("%w: no voice %d for the bass (have %d)", model.ErrArgumentMismatch, bass, horiz.Width())
	}
	bassLabel := horiz.Labels[bass]

	series := []model.Series{horiz.Series(bass)}
	pairs := []string{bassLabel}
	for col, pair := range vert.Labels {
		i, j, err := SplitPair(pair)
		if err != nil {
			return nil, err
		}
		if i == bassLabel || j == bassLabel {
			series = append(series, vert.Series(col))
			pairs = append(pairs, pair)
		}
	}
	joined := model.Align(series...)

	res := model.Series{Label: strings.Join(pairs, " ")}
	for row, o := range joined.Index {
		cells := make([]string, joined.Width())
		for col := range joined.Labels {
			cells[col] = joined.Cell(row, col).String()
		}
		res.Offsets = append(res.Offsets, o)
		res.Values = append(res.Values, model.Text(strings.Join(cells, " ")))
	}
	return model.Align(res), nil
}
