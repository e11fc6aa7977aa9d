package workflow

import (
	"fmt"

	"github.com/jsphweid/voicelead/model"
	"golang.org/x/exp/slices"
)

// Per-piece setting fields.
const (
	OffsetInterval    = "offset interval"
	FilterRepeats     = "filter repeats"
	VoiceCombinations = "voice combinations"
	IntervalQuality   = "interval quality"
	SimpleIntervals   = "simple intervals"
)

var Fields = []string{OffsetInterval, FilterRepeats, VoiceCombinations, IntervalQuality, SimpleIntervals}

// PieceSettings is how one piece is analyzed. The zero value runs no
// filters, keeps every voice pair and spells intervals without quality.
type PieceSettings struct {
	// OffsetInterval samples results every so many quarter notes; 0 keeps
	// every offset.
	OffsetInterval float64
	FilterRepeats  bool
	// VoiceCombinations restricts the analysis to voices listed together,
	// e.g. [[0 3] [1 3] [2 3]] pairs every voice with the lowest of four.
	VoiceCombinations [][]int
	IntervalQuality   bool
	SimpleIntervals   bool
}

func (s *PieceSettings) get(field string) any {
	switch field {
	case OffsetInterval:
		return s.OffsetInterval
	case FilterRepeats:
		return s.FilterRepeats
	case VoiceCombinations:
		return s.VoiceCombinations
	case IntervalQuality:
		return s.IntervalQuality
	default:
		return s.SimpleIntervals
	}
}

func (s *PieceSettings) set(field string, value any) error {
	var err error
	switch field {
	case OffsetInterval:
		s.OffsetInterval, err = toFloat(value)
		if err == nil && s.OffsetInterval < 0 {
			err = fmt.Errorf("%w: %s must not be negative", model.ErrInvalidSetting, field)
		}
	case FilterRepeats:
		s.FilterRepeats, err = toBool(field, value)
	case VoiceCombinations:
		s.VoiceCombinations, err = toCombinations(value)
	case IntervalQuality:
		s.IntervalQuality, err = toBool(field, value)
	case SimpleIntervals:
		s.SimpleIntervals, err = toBool(field, value)
	}
	return err
}

func toBool(field string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s takes true or false, got %T", model.ErrInvalidSetting, field, v)
	}
	return b, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%w: %s takes a number, got %T", model.ErrInvalidSetting, OffsetInterval, v)
}

func toCombinations(v any) ([][]int, error) {
	switch c := v.(type) {
	case [][]int:
		return c, nil
	case []any:
		res := make([][]int, 0, len(c))
		for _, group := range c {
			items, ok := group.([]any)
			if !ok {
				return nil, fmt.Errorf("%w: %s takes lists of voice numbers", model.ErrInvalidSetting, VoiceCombinations)
			}
			var voices []int
			for _, item := range items {
				n, ok := voiceNumber(item)
				if !ok {
					return nil, fmt.Errorf("%w: %s takes lists of voice numbers, got %v", model.ErrInvalidSetting, VoiceCombinations, item)
				}
				voices = append(voices, n)
			}
			res = append(res, voices)
		}
		return res, nil
	}
	return nil, fmt.Errorf("%w: %s takes lists of voice numbers, got %T", model.ErrInvalidSetting, VoiceCombinations, v)
}

// voiceNumber accepts the float64 that JSON decodes numbers to.
func voiceNumber(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}

// Settings reads field of the piece at index, or sets it when value is not
// nil. A nil index sets field on every piece and then requires a value.
func (m *Manager) Settings(index *int, field string, value any) (any, error) {
	if index == nil {
		if value == nil {
			return nil, fmt.Errorf("%w: a value is required when setting every piece", model.ErrArgumentMismatch)
		}
		for i := range m.settings {
			if _, err := m.Settings(&i, field, value); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}
	if *index < 0 || *index >= len(m.settings) {
		return nil, fmt.Errorf("%w: %d (have %d pieces)", model.ErrIndex, *index, len(m.settings))
	}
	if !slices.Contains(Fields, field) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidSetting, field)
	}
	s := &m.settings[*index]
	if value == nil {
		return s.get(field), nil
	}
	return nil, s.set(field, value)
}

// Index is a helper for the index argument of Settings.
func Index(i int) *int {
	return &i
}

// RunSettings are shared by every piece in one Run.
type RunSettings struct {
	N int `yaml:"n"`
	// Continuer replaces repeated content in n-grams. DynamicQuality picks
	// "P1" or "1" depending on the interval quality of each piece.
	Continuer    string `yaml:"continuer"`
	MarkSingles  bool   `yaml:"mark_singles"`
	IncludeRests bool   `yaml:"include_rests"`
}

const DynamicQuality = "dynamic quality"

func DefaultRunSettings() RunSettings {
	return RunSettings{N: 2, Continuer: DynamicQuality, IncludeRests: false}
}
