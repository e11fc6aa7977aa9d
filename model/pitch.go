package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Pitch is a spelled pitch. Alter counts semitones away from Step, so a
// double flat is -2.
type Pitch struct {
	Step   byte
	Alter  int
	Octave int
}

var stepSemitones = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// StepIndex returns the diatonic position of the step, C=0 through B=6.
func (p Pitch) StepIndex() int {
	return strings.IndexByte("CDEFGAB", p.Step)
}

// Diatonic is the number of diatonic steps above C0.
func (p Pitch) Diatonic() int {
	return p.Octave*7 + p.StepIndex()
}

// MIDI returns the MIDI key number, C4 being 60.
func (p Pitch) MIDI() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

// Name spells the pitch the way notation software does: sharps as '#',
// flats as '-', then the octave ("C#4", "B-3").
func (p Pitch) Name() string {
	var acc string
	switch {
	case p.Alter > 0:
		acc = strings.Repeat("#", p.Alter)
	case p.Alter < 0:
		acc = strings.Repeat("-", -p.Alter)
	}
	return fmt.Sprintf("%c%s%d", p.Step, acc, p.Octave)
}

func (p Pitch) String() string {
	return p.Name()
}

// ParsePitch reads names produced by Name. 'b' is also accepted as a flat.
func ParsePitch(s string) (Pitch, error) {
	if len(s) < 2 {
		return Pitch{}, fmt.Errorf("invalid pitch %q", s)
	}
	p := Pitch{Step: s[0] &^ 0x20}
	if _, ok := stepSemitones[p.Step]; !ok {
		return Pitch{}, fmt.Errorf("invalid pitch step in %q", s)
	}
	i := 1
accidentals:
	for ; i < len(s); i++ {
		switch s[i] {
		case '#':
			p.Alter++
		case '-', 'b':
			p.Alter--
		default:
			break accidentals
		}
	}
	oct, err := strconv.Atoi(s[i:])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid pitch octave in %q", s)
	}
	p.Octave = oct
	return p, nil
}

var sharpSpelling = []struct {
	step  byte
	alter int
}{
	{'C', 0}, {'C', 1}, {'D', 0}, {'D', 1}, {'E', 0}, {'F', 0},
	{'F', 1}, {'G', 0}, {'G', 1}, {'A', 0}, {'A', 1}, {'B', 0},
}

// PitchFromMIDI spells a key number using sharps.
func PitchFromMIDI(key uint8) Pitch {
	s := sharpSpelling[int(key)%12]
	return Pitch{Step: s.step, Alter: s.alter, Octave: int(key)/12 - 1}
}

// Pitches encode as their names in YAML and JSON.
func (p Pitch) MarshalText() ([]byte, error) {
	return []byte(p.Name()), nil
}

func (p *Pitch) UnmarshalText(b []byte) error {
	parsed, err := ParsePitch(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
