package analyzer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/voicelead/model"
	"gopkg.in/yaml.v3"
)

// Tag names one indexer or experimenter.
type Tag uint8

const (
	NoteRest Tag = iota + 1
	MultiStop
	BeatStrength
	Duration
	Measure
	Tie
	TimeSignature
	Lyric
	Fermata
	ActiveVoices
	VerticalInterval
	HorizontalInterval
	NGram
	Offset
	Repeat
	Dissonance
	FiguredBass
	Frequency
	Aggregator
)

var names = map[Tag]string{
	NoteRest:           "noterest",
	MultiStop:          "multistop",
	BeatStrength:       "beat_strength",
	Duration:           "duration",
	Measure:            "measure",
	Tie:                "tie",
	TimeSignature:      "time_signature",
	Lyric:              "lyric",
	Fermata:            "fermata",
	ActiveVoices:       "active_voices",
	VerticalInterval:   "vertical_interval",
	HorizontalInterval: "horizontal_interval",
	NGram:              "ngram",
	Offset:             "offset",
	Repeat:             "repeat",
	Dissonance:         "dissonance",
	FiguredBass:        "figured_bass",
	Frequency:          "frequency",
	Aggregator:         "aggregator",
}

// long names used by older analysis scripts
var aliases = map[string]Tag{
	"noterest.NoteRestIndexer":           NoteRest,
	"noterest.MultiStopIndexer":          MultiStop,
	"meter.NoteBeatStrengthIndexer":      BeatStrength,
	"meter.DurationIndexer":              Duration,
	"meter.MeasureIndexer":               Measure,
	"meter.TieIndexer":                   Tie,
	"meter.TimeSignatureIndexer":         TimeSignature,
	"lyric.LyricIndexer":                 Lyric,
	"expression.FermataIndexer":          Fermata,
	"active_voices.ActiveVoicesIndexer":  ActiveVoices,
	"interval.IntervalIndexer":           VerticalInterval,
	"interval":                           VerticalInterval,
	"interval.HorizontalIntervalIndexer": HorizontalInterval,
	"ngram.NGramIndexer":                 NGram,
	"offset.FilterByOffsetIndexer":       Offset,
	"repeat.FilterByRepeatIndexer":       Repeat,
	"dissonance.DissonanceIndexer":       Dissonance,
	"figured_bass.FiguredBassIndexer":    FiguredBass,
	"frequency.FrequencyExperimenter":    Frequency,
	"aggregator.ColumnAggregator":        Aggregator,
}

func (t Tag) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("Tag(%d)", uint8(t))
}

// Valid lists every accepted identifier, sorted.
func Valid() []string {
	res := make([]string, 0, len(names)+len(aliases))
	for _, n := range names {
		res = append(res, n)
	}
	for a := range aliases {
		res = append(res, a)
	}
	sort.Strings(res)
	return res
}

// Parse resolves a short name or one of its aliases.
func Parse(id string) (Tag, error) {
	for t, n := range names {
		if n == id {
			return t, nil
		}
	}
	if t, ok := aliases[id]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("%w: %q; valid analyzers are: %s", model.ErrNotAnAnalyzer, id, strings.Join(Valid(), ", "))
}

// ParseChain resolves every identifier of a chain.
func ParseChain(ids []string) ([]Tag, error) {
	res := make([]Tag, 0, len(ids))
	for _, id := range ids {
		t, err := Parse(id)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

// Settings is the typed configuration of one analyzer. Key must be stable
// and equal for settings that produce the same result.
type Settings interface {
	Key() string
	Validate() error
}

// Decode reads raw settings on top of defaults. Unknown keys are rejected.
func Decode[S Settings](raw map[string]any, defaults S) (S, error) {
	res := defaults
	if len(raw) == 0 {
		return res, res.Validate()
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return res, fmt.Errorf("%w: %v", model.ErrInvalidSetting, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&res); err != nil {
		return res, fmt.Errorf("%w: %v", model.ErrInvalidSetting, err)
	}
	return res, res.Validate()
}
