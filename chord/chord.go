package chord

import (
	"sort"
	"strings"

	"github.com/jsphweid/voicelead/model"
)

// SortDescending orders pitches highest first. Enharmonic equivalents keep
// their order.
func SortDescending(pitches []model.Pitch) {
	sort.SliceStable(pitches, func(i, j int) bool {
		return pitches[i].MIDI() > pitches[j].MIDI()
	})
}

// CreateChordKey names a set of pitches, highest first, separated by spaces.
func CreateChordKey(pitches []model.Pitch) string {
	sorted := append([]model.Pitch(nil), pitches...)
	SortDescending(sorted)
	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.Name()
	}
	return strings.Join(names, " ")
}

// SplitVoices separates a flattened part into the events outside any voice
// and one slice per voice. A voice marker claims the VoiceLen events after
// it.
func SplitVoices(events []*model.Event) (top []*model.Event, voices [][]*model.Event) {
	for i := 0; i < len(events); i++ {
		e := events[i]
		if e.Kind != model.KindVoice {
			top = append(top, e)
			continue
		}
		end := i + 1 + e.VoiceLen
		if end > len(events) {
			end = len(events)
		}
		voices = append(voices, events[i+1:end])
		i = end - 1
	}
	return top, voices
}

func isNoteRest(e *model.Event) bool {
	return e.Kind == model.KindNote || e.Kind == model.KindRest || e.Kind == model.KindChord
}

// CombineVoices merges simultaneous voices of one part into a single line.
// At every offset where any voice attacks, the sounding pitches of all voices
// attacking there become one chord sorted highest first. When none of them
// sound, a rest is emitted. A voice resting while another sounds is dropped
// from the combined line, so that rest cannot be recovered afterwards.
// Events other than notes, rests and chords keep their place.
func CombineVoices(events []*model.Event) []*model.Event {
	top, voices := SplitVoices(events)
	if len(voices) == 0 {
		return events
	}

	var others []*model.Event
	streams := [][]*model.Event{nil}
	for _, e := range top {
		if isNoteRest(e) {
			streams[0] = append(streams[0], e)
		} else {
			others = append(others, e)
		}
	}
	for _, v := range voices {
		var s []*model.Event
		for _, e := range v {
			if isNoteRest(e) {
				s = append(s, e)
			} else {
				others = append(others, e)
			}
		}
		streams = append(streams, s)
	}

	groups := make(map[model.Offset][]*model.Event)
	var offsets []model.Offset
	for _, s := range streams {
		for _, e := range s {
			if _, ok := groups[e.Offset]; !ok {
				offsets = append(offsets, e.Offset)
			}
			groups[e.Offset] = append(groups[e.Offset], e)
		}
	}
	sort.Float64s(offsets)

	res := make([]*model.Event, 0, len(offsets)+len(others))
	res = append(res, others...)
	for _, o := range offsets {
		res = append(res, collapse(o, groups[o]))
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Offset < res[j].Offset
	})
	return res
}

func collapse(offset model.Offset, group []*model.Event) *model.Event {
	var pitches []model.Pitch
	var sounding []*model.Event
	for _, e := range group {
		if e.IsSounding() {
			sounding = append(sounding, e)
			pitches = append(pitches, e.Pitches...)
		}
	}
	if len(sounding) == 0 {
		rest := *group[0]
		rest.Offset = offset
		return &rest
	}
	SortDescending(pitches)
	first := sounding[0]
	res := &model.Event{
		Offset:       offset,
		Kind:         model.KindChord,
		Pitches:      pitches,
		Tie:          first.Tie,
		BeatStrength: first.BeatStrength,
		Lyric:        first.Lyric,
	}
	if len(pitches) == 1 {
		res.Kind = model.KindNote
	}
	for _, e := range sounding {
		if e.Duration > res.Duration {
			res.Duration = e.Duration
		}
		res.Fermata = res.Fermata || e.Fermata
	}
	return res
}
