package model

import (
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindOther Kind = iota
	KindNote
	KindRest
	KindChord
	KindMeasure
	KindTimeSignature
	KindVoice
)

var kindNames = []string{"other", "note", "rest", "chord", "measure", "timesig", "voice"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "other"
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for i, n := range kindNames {
		if n == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", string(b))
}

// Tie marks where an event sits in a chain of tied notes.
type Tie uint8

const (
	TieNone Tie = iota
	TieStart
	TieContinue
	TieStop
)

var tieNames = []string{"", "start", "continue", "stop"}

func (t Tie) String() string {
	if int(t) < len(tieNames) {
		return tieNames[t]
	}
	return ""
}

func (t Tie) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Tie) UnmarshalText(b []byte) error {
	for i, n := range tieNames {
		if n == string(b) {
			*t = Tie(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tie type %q", string(b))
}

// Event is one timed object in a part. Which fields are meaningful depends on
// Kind: Pitches for notes and chords, Number for measures,
// Numerator/Denominator for time signatures and VoiceLen for voice markers
// (the number of events that follow and belong to that voice).
type Event struct {
	Offset       Offset  `yaml:"offset" json:"offset"`
	Kind         Kind    `yaml:"kind" json:"kind"`
	Pitches      []Pitch `yaml:"pitches,omitempty,flow" json:"pitches,omitempty"`
	Duration     float64 `yaml:"duration,omitempty" json:"duration,omitempty"`
	Tie          Tie     `yaml:"tie,omitempty" json:"tie,omitempty"`
	BeatStrength float64 `yaml:"beat_strength,omitempty" json:"beat_strength,omitempty"`
	Number       int     `yaml:"number,omitempty" json:"number,omitempty"`
	Numerator    int     `yaml:"numerator,omitempty" json:"numerator,omitempty"`
	Denominator  int     `yaml:"denominator,omitempty" json:"denominator,omitempty"`
	VoiceLen     int     `yaml:"voice_len,omitempty" json:"voice_len,omitempty"`
	Lyric        string  `yaml:"lyric,omitempty" json:"lyric,omitempty"`
	Fermata      bool    `yaml:"fermata,omitempty" json:"fermata,omitempty"`
}

func (e *Event) IsSounding() bool {
	return e.Kind == KindNote || e.Kind == KindChord
}

func (e *Event) String() string {
	switch e.Kind {
	case KindNote, KindChord:
		names := make([]string, len(e.Pitches))
		for i, p := range e.Pitches {
			names[i] = p.Name()
		}
		return strings.Join(names, " ")
	case KindRest:
		return "Rest"
	case KindMeasure:
		return fmt.Sprintf("m%d", e.Number)
	case KindTimeSignature:
		return fmt.Sprintf("%d/%d", e.Numerator, e.Denominator)
	default:
		return e.Kind.String()
	}
}

// Part is one line of a score, events ordered by offset.
type Part struct {
	ID          string   `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string   `yaml:"name" json:"name"`
	Events      []*Event `yaml:"events" json:"events"`
	HighestTime Offset   `yaml:"highest_time" json:"highest_time"`
}

// Range returns the lowest and highest sounding pitch, or false when the part
// never sounds.
func (p *Part) Range() (lo Pitch, hi Pitch, ok bool) {
	for _, e := range p.Events {
		if !e.IsSounding() {
			continue
		}
		for _, pitch := range e.Pitches {
			if !ok || pitch.MIDI() < lo.MIDI() {
				lo = pitch
			}
			if !ok || pitch.MIDI() > hi.MIDI() {
				hi = pitch
			}
			ok = true
		}
	}
	return lo, hi, ok
}

type ScoreMetadata struct {
	Title               string   `yaml:"title,omitempty" json:"title,omitempty"`
	Composer            string   `yaml:"composer,omitempty" json:"composer,omitempty"`
	Composers           []string `yaml:"composers,omitempty" json:"composers,omitempty"`
	Date                string   `yaml:"date,omitempty" json:"date,omitempty"`
	OpusNumber          string   `yaml:"opus_number,omitempty" json:"opus_number,omitempty"`
	MovementName        string   `yaml:"movement_name,omitempty" json:"movement_name,omitempty"`
	MovementNumber      string   `yaml:"movement_number,omitempty" json:"movement_number,omitempty"`
	Number              string   `yaml:"number,omitempty" json:"number,omitempty"`
	AlternativeTitle    string   `yaml:"alternative_title,omitempty" json:"alternative_title,omitempty"`
	LocaleOfComposition string   `yaml:"locale_of_composition,omitempty" json:"locale_of_composition,omitempty"`
}

// Score is a parsed piece as handed over by a ScoreSource.
type Score struct {
	Metadata ScoreMetadata `yaml:"metadata" json:"metadata"`
	Parts    []*Part       `yaml:"parts" json:"parts"`
}

// Anacrusis is the length of an incomplete first measure, negated as
// notation software reports it, or 0.
func (s *Score) Anacrusis() Offset {
	var first *Event
	for _, p := range s.Parts {
		for _, e := range p.Events {
			if e.Kind == KindMeasure {
				if first == nil || e.Offset < first.Offset {
					first = e
				}
				break
			}
		}
	}
	if first == nil || first.Number != 0 {
		return 0
	}
	for _, p := range s.Parts {
		for _, e := range p.Events {
			if e.Kind == KindMeasure && e.Number == 1 {
				return -e.Offset
			}
		}
	}
	return 0
}

// Opus is several scores stored in one file.
type Opus struct {
	Scores []*Score `yaml:"scores" json:"scores"`
}
