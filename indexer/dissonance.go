package indexer

import (
	"fmt"
	"strings"

	"github.com/jsphweid/voicelead/interval"
	"github.com/jsphweid/voicelead/model"
	"golang.org/x/exp/slices"
)

// Dissonance labels.
const (
	Consonant     = "-"
	Unclassified  = "U"
	Passing       = "P"
	Neighbour     = "N"
	Echappee      = "E"
	IncompleteN   = "J"
	Anticipation  = "A"
	Suspension    = "S"
	Retardation   = "R"
	AccentedPass  = "Q"
	AccentedNeigh = "W"
	Appoggiatura  = "G"
)

// StrongBeat is the lowest beat strength counted as strong.
const StrongBeat = 0.5

// Consonances, spelled with quality as simple intervals.
var Consonances = []string{"P1", "m3", "M3", "P5", "m6", "M6"}

type motion uint8

const (
	anyMotion motion = iota
	noMotion
	same
	stepUp
	stepDown
	leapUp
	leapDown
)

type metric uint8

const (
	weak metric = iota
	strong
)

type ruleKey struct {
	metric    metric
	held      bool
	approach  motion
	departure motion
}

// rules is the full classification. A key with anyMotion as approach matches
// every approach.
var rules = map[ruleKey]string{
	{weak, false, stepUp, stepUp}:     Passing,
	{weak, false, stepDown, stepDown}: Passing,
	{weak, false, stepUp, stepDown}:   Neighbour,
	{weak, false, stepDown, stepUp}:   Neighbour,
	{weak, false, stepUp, leapDown}:   Echappee,
	{weak, false, stepDown, leapUp}:   Echappee,
	{weak, false, leapUp, stepDown}:   IncompleteN,
	{weak, false, leapDown, stepUp}:   IncompleteN,
	{weak, false, stepUp, same}:       Anticipation,
	{weak, false, stepDown, same}:     Anticipation,

	{strong, true, anyMotion, stepDown}: Suspension,
	{strong, true, anyMotion, stepUp}:   Retardation,

	{strong, false, stepUp, stepUp}:     AccentedPass,
	{strong, false, stepDown, stepDown}: AccentedPass,
	{strong, false, stepUp, stepDown}:   AccentedNeigh,
	{strong, false, stepDown, stepUp}:   AccentedNeigh,
	{strong, false, leapUp, stepDown}:   Appoggiatura,
	{strong, false, leapDown, stepUp}:   Appoggiatura,
	{strong, false, leapUp, stepUp}:     Appoggiatura,
	{strong, false, leapDown, stepDown}: Appoggiatura,
}

func classify(k ruleKey) string {
	if l, ok := rules[k]; ok {
		return l
	}
	k.approach = anyMotion
	if l, ok := rules[k]; ok {
		return l
	}
	return Unclassified
}

// motionOf reads a horizontal interval spelled directed, compound and
// without quality.
func motionOf(v model.Value) motion {
	if v.IsNA() {
		return noMotion
	}
	i, err := interval.Parse(v.Str())
	if err != nil {
		return noMotion
	}
	switch {
	case i.Number == 1:
		return same
	case i.Number == 2 && i.Descending:
		return stepDown
	case i.Number == 2:
		return stepUp
	case i.Descending:
		return leapDown
	default:
		return leapUp
	}
}

// IsConsonant reports whether a vertical interval label is consonant. The
// label may be directed and compound.
func IsConsonant(label string) bool {
	i, err := interval.Parse(label)
	if err != nil {
		return false
	}
	simple := fmt.Sprintf("%s%d", i.Quality, interval.SimpleNumber(i.Number))
	return slices.Contains(Consonances, simple)
}

// Dissonance classifies every vertical interval from four inputs, in order:
// beat strength, duration, horizontal intervals attached before and without
// quality, and vertical intervals with quality. Consonances and rests are
// "-". A dissonance is classified from the upper voice first, then from the
// lower; "U" when neither fits a rule.
func Dissonance(inputs []*model.Table) (*model.Table, error) {
	if len(inputs) != 4 {
		return nil, fmt.Errorf("%w: dissonance needs beat strength, duration, horizontal and vertical intervals, got %d inputs", model.ErrArity, len(inputs))
	}
	beats, durations, horiz, vert := inputs[0], inputs[1], inputs[2], inputs[3]

	series := make([]model.Series, 0, vert.Width())
	for col, pair := range vert.Labels {
		upper, lower, err := SplitPair(pair)
		if err != nil {
			return nil, err
		}
		for _, l := range []string{upper, lower} {
			if _, err := column(durations, l); err != nil {
				return nil, err
			}
		}
		src := vert.Series(col)
		res := model.Series{Label: pair, Offsets: src.Offsets}
		for k, v := range src.Values {
			o := src.Offsets[k]
			label := Consonant
			if v.Str() != interval.Rest && !IsConsonant(v.Str()) {
				label = voiceDissonance(beats, durations, horiz, upper, o)
				if label == Unclassified {
					label = voiceDissonance(beats, durations, horiz, lower, o)
				}
			}
			res.Values = append(res.Values, model.Text(label))
		}
		series = append(series, res)
	}
	return alignSeries(series), nil
}

// voiceDissonance classifies the note voice holds at offset o.
func voiceDissonance(beats, durations, horiz *model.Table, voice string, o model.Offset) string {
	attacks := durations.Series(mustColumn(durations, voice))
	k := -1
	for k+1 < attacks.Len() && attacks.Offsets[k+1] <= o {
		k++
	}
	if k < 0 {
		return Unclassified
	}
	held := attacks.Offsets[k] != o

	key := ruleKey{
		metric:    metricAt(beats, o),
		held:      held,
		departure: motionOf(lookup(horiz, voice, attacks.Offsets[k])),
	}
	if k > 0 {
		key.approach = motionOf(lookup(horiz, voice, attacks.Offsets[k-1]))
	} else {
		key.approach = noMotion
	}
	return classify(key)
}

func mustColumn(t *model.Table, label string) int {
	col, _ := t.ColumnIndex(label)
	return col
}

// metricAt is the strongest beat strength of any voice attacking at o.
func metricAt(beats *model.Table, o model.Offset) metric {
	row, ok := beats.Row(o)
	if !ok {
		return weak
	}
	best := 0.0
	for col := range beats.Labels {
		if f, ok := beats.Cell(row, col).Float(); ok && f > best {
			best = f
		}
	}
	if best >= StrongBeat {
		return strong
	}
	return weak
}

// RuleTable renders the classification rules, one per line, for reports.
func RuleTable() string {
	var b strings.Builder
	names := map[motion]string{anyMotion: "any", noMotion: "none", same: "same", stepUp: "step up", stepDown: "step down", leapUp: "leap up", leapDown: "leap down"}
	for _, m := range []metric{weak, strong} {
		for _, held := range []bool{false, true} {
			for a := anyMotion; a <= leapDown; a++ {
				for d := noMotion; d <= leapDown; d++ {
					l, ok := rules[ruleKey{m, held, a, d}]
					if !ok {
						continue
					}
					beat := "weak"
					if m == strong {
						beat = "strong"
					}
					fmt.Fprintf(&b, "%s\theld=%t\t%s\t%s\t%s\n", beat, held, names[a], names[d], l)
				}
			}
		}
	}
	return b.String()
}
