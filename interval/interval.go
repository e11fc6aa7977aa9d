package interval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsphweid/voicelead/model"
)

const Rest = "Rest"

// Settings controls how an interval is spelled. The zero value is not the
// default; use DefaultSettings.
type Settings struct {
	Quality          bool `yaml:"quality"`
	Directed         bool `yaml:"directed"`
	Simple           bool `yaml:"simple"`
	HorizAttachLater bool `yaml:"horiz_attach_later"`
}

func DefaultSettings() Settings {
	return Settings{Quality: true, Directed: true, Simple: false, HorizAttachLater: true}
}

// Detailed is the spelling every cached interval table is computed with.
func Detailed() Settings {
	return Settings{Quality: true, Directed: true, Simple: false, HorizAttachLater: true}
}

func (s Settings) Key() string {
	return fmt.Sprintf("quality=%t,directed=%t,simple=%t,attach_later=%t", s.Quality, s.Directed, s.Simple, s.HorizAttachLater)
}

func (s Settings) Validate() error {
	return nil
}

// SameLabels reports whether two settings spell intervals identically,
// ignoring where horizontal intervals are attached.
func (s Settings) SameLabels(o Settings) bool {
	return s.Quality == o.Quality && s.Directed == o.Directed && s.Simple == o.Simple
}

// Interval is the distance from a lower to an upper pitch. Number is the
// compound diatonic size, 1 for a unison.
type Interval struct {
	Number     int
	Quality    string
	Descending bool
}

// major or perfect size in semitones of each simple interval, indexed by
// number-1
var baseSemitones = []int{0, 2, 4, 5, 7, 9, 11}

func isPerfect(simple int) bool {
	return simple == 1 || simple == 4 || simple == 5
}

// Between measures from 'from' to 'to'. If 'to' is below, the interval is
// descending.
func Between(from, to model.Pitch) Interval {
	steps := to.Diatonic() - from.Diatonic()
	semis := to.MIDI() - from.MIDI()
	var res Interval
	if steps < 0 || (steps == 0 && semis < 0) {
		res.Descending = true
		steps, semis = -steps, -semis
	}
	res.Number = steps + 1
	octaves := steps / 7
	diff := semis - baseSemitones[steps%7] - 12*octaves
	res.Quality = quality(steps%7+1, diff)
	return res
}

func quality(simple int, diff int) string {
	if isPerfect(simple) {
		switch {
		case diff == 0:
			return "P"
		case diff > 0:
			return strings.Repeat("A", diff)
		default:
			return strings.Repeat("d", -diff)
		}
	}
	switch {
	case diff == 0:
		return "M"
	case diff == -1:
		return "m"
	case diff > 0:
		return strings.Repeat("A", diff)
	default:
		return strings.Repeat("d", -diff-1)
	}
}

// SimpleNumber folds compound sizes into an octave, so 8 becomes 1 and 10
// becomes 3.
func SimpleNumber(n int) int {
	return (n-1)%7 + 1
}

func format(descending bool, qual string, number int, s Settings) string {
	var b strings.Builder
	if s.Directed && descending {
		b.WriteString("-")
	}
	if s.Quality {
		b.WriteString(qual)
	}
	if s.Simple {
		number = SimpleNumber(number)
	}
	b.WriteString(strconv.Itoa(number))
	return b.String()
}

func (i Interval) Name(s Settings) string {
	return format(i.Descending, i.Quality, i.Number, s)
}

// Label names the interval between two note labels such as "C4" or "Rest".
// Either side being a rest gives Rest.
func Label(from, to string, s Settings) (string, error) {
	if from == Rest || to == Rest {
		return Rest, nil
	}
	lo, err := model.ParsePitch(from)
	if err != nil {
		return "", err
	}
	hi, err := model.ParsePitch(to)
	if err != nil {
		return "", err
	}
	return Between(lo, hi).Name(s), nil
}

// Parse splits a label made by Name. Labels without a quality give "".
func Parse(label string) (Interval, error) {
	var res Interval
	rest := label
	if strings.HasPrefix(rest, "-") {
		res.Descending = true
		rest = rest[1:]
	}
	i := 0
	for i < len(rest) && strings.IndexByte("PMmAd", rest[i]) >= 0 {
		i++
	}
	res.Quality = rest[:i]
	n, err := strconv.Atoi(rest[i:])
	if err != nil || n < 1 {
		return Interval{}, fmt.Errorf("invalid interval label %q", label)
	}
	res.Number = n
	return res, nil
}

// Reduce respells a label computed with Detailed settings. Labels that are
// not intervals, such as Rest, pass through.
func Reduce(label string, s Settings) string {
	i, err := Parse(label)
	if err != nil {
		return label
	}
	return format(i.Descending, i.Quality, i.Number, s)
}
