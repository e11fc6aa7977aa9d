// Package midi turns standard MIDI files into scores. Every track that plays
// notes becomes a part; notes starting together become a chord and silences
// become rests.
package midi

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/jsphweid/voicelead/chord"
	"github.com/jsphweid/voicelead/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

const drumChannel = 9

// Source is a piece.ScoreSource for .mid files. A MIDI file always holds a
// single piece.
type Source struct{}

func (Source) Load(pathname string) ([]*model.Score, error) {
	s, err := ReadMidiFile(pathname)
	if err != nil {
		return nil, err
	}
	score, err := ToScore(s)
	if err != nil {
		return nil, errors.Wrapf(err, "converting %s", pathname)
	}
	return []*model.Score{score}, nil
}

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, errors.Wrap(err, "Error reading midi file")
	}
	s, err := Read(bytes.NewReader(dat))
	return s, errors.Wrapf(err, "Error parsing midi file %s", filepath)
}

// Read parses an SMF stream.
func Read(r io.Reader) (s *smf.SMF, e error) {
	// the parser can panic on malformed input
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if p := recover(); p != nil {
			s, e = nil, fmt.Errorf("%v", p)
		}
	}()
	return smf.ReadFrom(r)
}

type sounded struct {
	key        uint8
	start, end int64
}

type meter struct {
	tick       int64
	num, denom uint8
}

type track struct {
	name   string
	notes  []sounded
	lyrics map[int64]string
}

type measure struct {
	number int
	start  int64
	length int64
	meter  meter
}

// ToScore converts a parsed file. Only metric time formats are supported.
func ToScore(s *smf.SMF) (*model.Score, error) {
	tf, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported time format %v", s.TimeFormat)
	}
	quarter := float64(tf.Resolution())

	var tracks []track
	var meters []meter
	var title string
	var end int64
	for i, events := range s.Tracks {
		t := track{lyrics: make(map[int64]string)}
		open := make(map[uint8]int64)
		var absTicks int64
		for _, ev := range events {
			absTicks += int64(ev.Delta)
			var ch, key, vel, num, denom uint8
			var text string
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &vel) && vel > 0:
				if ch == drumChannel {
					continue
				}
				if start, ok := open[key]; ok {
					t.notes = append(t.notes, sounded{key, start, absTicks})
				}
				open[key] = absTicks
			case ev.Message.GetNoteOn(&ch, &key, &vel), ev.Message.GetNoteOff(&ch, &key, &vel):
				if start, ok := open[key]; ok && ch != drumChannel {
					t.notes = append(t.notes, sounded{key, start, absTicks})
					delete(open, key)
				}
			case ev.Message.GetMetaMeter(&num, &denom):
				meters = append(meters, meter{absTicks, num, denom})
			case ev.Message.GetMetaTrackName(&text):
				t.name = text
			case ev.Message.GetMetaLyric(&text):
				t.lyrics[absTicks] = text
			}
		}
		for key, start := range open {
			t.notes = append(t.notes, sounded{key, start, absTicks})
		}
		if len(t.notes) == 0 {
			if i == 0 {
				title = t.name
			}
			continue
		}
		for _, n := range t.notes {
			if n.end > end {
				end = n.end
			}
		}
		tracks = append(tracks, t)
	}

	measures := layoutMeasures(meters, end, int64(quarter))
	score := &model.Score{Metadata: model.ScoreMetadata{Title: title}}
	for _, t := range tracks {
		score.Parts = append(score.Parts, toPart(t, measures, end, quarter))
	}
	return score, nil
}

// layoutMeasures places bars from the meter changes until end, 4/4 when the
// file has none.
func layoutMeasures(meters []meter, end int64, quarter int64) []measure {
	sort.SliceStable(meters, func(i, j int) bool {
		return meters[i].tick < meters[j].tick
	})
	if len(meters) == 0 || meters[0].tick > 0 {
		meters = append([]meter{{0, 4, 4}}, meters...)
	}
	var res []measure
	tick := int64(0)
	for i, m := range meters {
		if m.denom == 0 || m.num == 0 {
			continue
		}
		length := int64(m.num) * quarter * 4 / int64(m.denom)
		until := end
		if i+1 < len(meters) {
			until = meters[i+1].tick
		}
		for tick < until {
			res = append(res, measure{number: len(res) + 1, start: tick, length: length, meter: m})
			tick += length
		}
	}
	return res
}

func toPart(t track, measures []measure, end int64, quarter float64) *model.Part {
	offset := func(tick int64) model.Offset {
		return float64(tick) / quarter
	}
	part := &model.Part{Name: t.name, HighestTime: offset(end)}

	var last meter
	for k, m := range measures {
		part.Events = append(part.Events, &model.Event{Offset: offset(m.start), Kind: model.KindMeasure, Number: m.number})
		if k == 0 || m.meter != last {
			part.Events = append(part.Events, &model.Event{
				Offset:      offset(m.start),
				Kind:        model.KindTimeSignature,
				Numerator:   int(m.meter.num),
				Denominator: int(m.meter.denom),
			})
		}
		last = m.meter
	}

	groups := make(map[int64][]sounded)
	for _, n := range t.notes {
		groups[n.start] = append(groups[n.start], n)
	}
	starts := make([]int64, 0, len(groups))
	for s := range groups {
		starts = append(starts, s)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	rest := func(from, to int64) {
		if to > from {
			part.Events = append(part.Events, &model.Event{
				Offset:       offset(from),
				Kind:         model.KindRest,
				Duration:     offset(to - from),
				BeatStrength: beatStrength(measures, from, quarter),
			})
		}
	}
	cursor := int64(0)
	for i, start := range starts {
		rest(cursor, start)
		stop := start
		var pitches []model.Pitch
		for _, n := range groups[start] {
			if n.end > stop {
				stop = n.end
			}
			pitches = append(pitches, model.PitchFromMIDI(n.key))
		}
		if i+1 < len(starts) && starts[i+1] < stop {
			stop = starts[i+1]
		}
		chord.SortDescending(pitches)
		kind := model.KindNote
		if len(pitches) > 1 {
			kind = model.KindChord
		}
		part.Events = append(part.Events, &model.Event{
			Offset:       offset(start),
			Kind:         kind,
			Pitches:      pitches,
			Duration:     offset(stop - start),
			BeatStrength: beatStrength(measures, start, quarter),
			Lyric:        t.lyrics[start],
		})
		cursor = stop
	}
	rest(cursor, end)

	sort.SliceStable(part.Events, func(i, j int) bool {
		return part.Events[i].Offset < part.Events[j].Offset
	})
	return part
}

// beatStrength follows the metric hierarchy: 1 on the downbeat, 1/2 on the
// first division of the bar (halves in duple meters, beats in triple ones)
// and half again for every binary subdivision below it.
func beatStrength(measures []measure, tick int64, quarter float64) float64 {
	k := sort.Search(len(measures), func(i int) bool {
		return measures[i].start > tick
	}) - 1
	if k < 0 {
		return 0
	}
	m := measures[k]
	pos := float64(tick-m.start) / quarter
	if pos == 0 {
		return 1
	}
	var parts float64
	switch num := m.meter.num; {
	case num%2 == 0:
		parts = 2
	case num%3 == 0:
		parts = 3
	default:
		parts = float64(num)
	}
	unit := float64(m.length) / quarter / parts
	strength := 0.5
	for level := 0; level < 8; level++ {
		if r := math.Mod(pos, unit); r < 1e-9 || unit-r < 1e-9 {
			return strength
		}
		unit /= 2
		strength /= 2
	}
	return 0
}
