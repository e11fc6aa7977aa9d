// Package workflow runs the same analysis over many pieces and combines the
// results.
package workflow

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jsphweid/voicelead/constants"
	"github.com/jsphweid/voicelead/experimenter"
	"github.com/jsphweid/voicelead/export"
	"github.com/jsphweid/voicelead/indexer"
	"github.com/jsphweid/voicelead/interval"
	"github.com/jsphweid/voicelead/model"
	"github.com/jsphweid/voicelead/piece"
	"golang.org/x/exp/slices"
)

// Instructions accepted by Run.
const (
	Intervals        = "all-combinations intervals"
	TwoPartNGrams    = "all 2-part interval n-grams"
	AllVoiceNGrams   = "all-voice interval n-grams"
	minInstructionSz = 5
)

var Instructions = []string{Intervals, TwoPartNGrams, AllVoiceNGrams}

type Manager struct {
	pieces   []*piece.Piece
	settings []PieceSettings
	loaded   bool
	result   model.Data
	logger   *log.Logger
}

// New makes a manager whose pieces are parsed by src when first loaded.
func New(src piece.ScoreSource, paths []string, opts ...piece.Option) *Manager {
	pieces := make([]*piece.Piece, 0, len(paths))
	for _, path := range paths {
		pieces = append(pieces, piece.New(path, src, opts...))
	}
	return FromPieces(pieces)
}

func FromPieces(pieces []*piece.Piece) *Manager {
	return &Manager{
		pieces:   pieces,
		settings: make([]PieceSettings, len(pieces)),
		logger:   log.Default(),
	}
}

// Open parses every path now. A file holding several pieces contributes all
// of them and is reported to logger.
func Open(src piece.ScoreSource, paths []string, logger *log.Logger, opts ...piece.Option) (*Manager, error) {
	var pieces []*piece.Piece
	for _, path := range paths {
		imported, err := piece.Import(src, path, false, opts...)
		var warning *piece.OpusWarning
		if errors.As(err, &warning) {
			logger.Printf("Warning: %v", warning)
		} else if err != nil {
			return nil, err
		}
		pieces = append(pieces, imported...)
	}
	m := FromPieces(pieces)
	m.logger = logger
	return m, nil
}

func (m *Manager) SetLogger(l *log.Logger) {
	m.logger = l
}

func (m *Manager) Len() int {
	return len(m.pieces)
}

func (m *Manager) Pieces() []*piece.Piece {
	return m.pieces
}

// Result is the output of the last Run, or nil.
func (m *Manager) Result() model.Data {
	return m.result
}

// Load runs the initial indexing pass. The only supported instruction is
// "pieces".
func (m *Manager) Load(instruction string) error {
	switch strings.ToLower(strings.TrimSpace(instruction)) {
	case "pieces":
	case "hdf5", "stata", "pickle":
		return fmt.Errorf("%w: loading %q", model.ErrNotImplemented, instruction)
	default:
		return fmt.Errorf("%w: %q (use \"pieces\")", model.ErrUnknownInstruction, instruction)
	}
	for i, p := range m.pieces {
		m.logger.Printf("Processing %v of %v: %s", i+1, len(m.pieces), p.Pathname())
		if _, err := p.GetData([]string{"noterest"}, nil); err != nil {
			return fmt.Errorf("loading %s: %w", p.Pathname(), err)
		}
	}
	m.loaded = true
	return nil
}

// Metadata reads or sets a metadata field of the piece at index.
func (m *Manager) Metadata(index int, field any, value any) (any, error) {
	if index < 0 || index >= len(m.pieces) {
		return nil, fmt.Errorf("%w: %d (have %d pieces)", model.ErrIndex, index, len(m.pieces))
	}
	return m.pieces[index].Metadata(field, value)
}

func parseInstruction(instruction string) (string, error) {
	instruction = strings.ToLower(strings.TrimSpace(instruction))
	var found []string
	if len(instruction) >= minInstructionSz {
		for _, name := range Instructions {
			if strings.HasPrefix(name, instruction) {
				found = append(found, name)
			}
		}
	}
	if len(found) != 1 {
		return "", fmt.Errorf("%w: %q (choose %s)", model.ErrUnknownInstruction, instruction, strings.Join(Instructions, ", "))
	}
	return found[0], nil
}

// Run performs one workflow on every loaded piece and returns the combined
// counts, highest first.
func (m *Manager) Run(instruction string, rs RunSettings) (*model.Counts, error) {
	name, err := parseInstruction(instruction)
	if err != nil {
		return nil, err
	}
	if !m.loaded {
		return nil, fmt.Errorf("%w: call Load(\"pieces\") before Run", model.ErrNotLoaded)
	}

	var counts []*model.Counts
	for i, p := range m.pieces {
		var c []*model.Counts
		switch name {
		case Intervals:
			c, err = m.intervals(p, m.settings[i], rs)
		case TwoPartNGrams:
			c, err = m.twoPartNGrams(p, m.settings[i], rs)
		case AllVoiceNGrams:
			c, err = m.allVoiceNGrams(p, m.settings[i], rs)
		}
		if err != nil {
			return nil, fmt.Errorf("%s on %s: %w", name, p.Pathname(), err)
		}
		counts = append(counts, c...)
	}

	res := experimenter.Summarize(counts...)
	m.result = res
	return res, nil
}

// Export writes the last result, keeping at most topX rows whose count is
// above threshold. An empty pathname picks a new file in the output
// directory.
func (m *Manager) Export(form string, pathname string, topX int, threshold float64) (string, error) {
	if m.result == nil {
		return "", model.ErrNoResult
	}
	data := m.result
	if c, ok := data.(*model.Counts); ok {
		data = c.Filter(topX, threshold)
	}
	if pathname == "" {
		pathname = export.DefaultPath(constants.GetOutputDir())
	}
	return export.Write(form, data, pathname)
}

func intervalSettings(s PieceSettings) interval.Settings {
	return interval.Settings{
		Quality:          s.IntervalQuality,
		Directed:         true,
		Simple:           s.SimpleIntervals,
		HorizAttachLater: true,
	}
}

func continuer(s PieceSettings, rs RunSettings) string {
	if rs.Continuer != DynamicQuality {
		return rs.Continuer
	}
	if s.IntervalQuality {
		return "P1"
	}
	return "1"
}

// filter applies the offset and repeat filters the piece asks for.
func filter(p *piece.Piece, s PieceSettings, t *model.Table) (*model.Table, error) {
	var err error
	if s.OffsetInterval > 0 {
		grid := indexer.OffsetSettings{QuarterLength: s.OffsetInterval, Method: indexer.MethodFill}
		if t, err = p.GetTable([]string{"offset"}, grid, t); err != nil {
			return nil, err
		}
	}
	if s.FilterRepeats {
		if t, err = p.GetTable([]string{"repeat"}, nil, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func withoutRests(t *model.Table) *model.Table {
	return indexer.Map(t, func(v model.Value) model.Value {
		if v.IsText() && v.Str() == interval.Rest {
			return model.NA
		}
		return v
	})
}

func together(combos [][]int, voices ...int) bool {
	for _, group := range combos {
		all := true
		for _, v := range voices {
			if !slices.Contains(group, v) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// pairs lists the voice pairs that share a combination.
// Without combinations every pair is used.
func pairs(voices []string, combos [][]int) [][2]int {
	var res [][2]int
	for i := range voices {
		for j := i + 1; j < len(voices); j++ {
			if len(combos) == 0 || together(combos, i, j) {
				res = append(res, [2]int{i, j})
			}
		}
	}
	return res
}

type voiced struct {
	voices []string
	vert   *model.Table
	horiz  *model.Table
}

func intervalTables(p *piece.Piece, s PieceSettings, horizontal bool) (voiced, error) {
	nr, err := p.GetTable([]string{"noterest"}, nil)
	if err != nil {
		return voiced{}, err
	}
	is := intervalSettings(s)
	res := voiced{voices: nr.Labels}
	if res.vert, err = p.GetTable([]string{"vertical_interval"}, is); err != nil {
		return voiced{}, err
	}
	if res.vert, err = filter(p, s, res.vert); err != nil {
		return voiced{}, err
	}
	if !horizontal {
		return res, nil
	}
	if res.horiz, err = p.GetTable([]string{"horizontal_interval"}, is); err != nil {
		return voiced{}, err
	}
	if res.horiz, err = filter(p, s, res.horiz); err != nil {
		return voiced{}, err
	}
	return res, nil
}

func (m *Manager) intervals(p *piece.Piece, s PieceSettings, rs RunSettings) ([]*model.Counts, error) {
	t, err := intervalTables(p, s, false)
	if err != nil {
		return nil, err
	}
	var labels []string
	for _, pair := range pairs(t.voices, s.VoiceCombinations) {
		labels = append(labels, indexer.PairLabel(t.voices[pair[0]], t.voices[pair[1]]))
	}
	vert, err := t.vert.Select(labels...)
	if err != nil {
		return nil, err
	}
	if !rs.IncludeRests {
		vert = withoutRests(vert)
	}
	d, err := p.GetData([]string{"frequency", "aggregator"}, nil, vert)
	if err != nil {
		return nil, err
	}
	return []*model.Counts{d.(*model.Counts)}, nil
}

func ngramSettings(s PieceSettings, rs RunSettings, vertical []string, horizontal string) indexer.NGramSettings {
	ns := indexer.NGramSettings{
		N:           rs.N,
		Vertical:    vertical,
		Horizontal:  []string{horizontal},
		MarkSingles: rs.MarkSingles,
		Continuer:   continuer(s, rs),
		Brackets:    true,
	}
	if !rs.IncludeRests {
		ns.Terminator = []string{interval.Rest}
	}
	return ns
}

// ngramCounts counts the n-grams of some vertical pairs over the motion of
// one voice.
func ngramCounts(p *piece.Piece, t voiced, ns indexer.NGramSettings) (*model.Counts, error) {
	vert, err := t.vert.Select(ns.Vertical...)
	if err != nil {
		return nil, err
	}
	horiz, err := t.horiz.Select(ns.Horizontal...)
	if err != nil {
		return nil, err
	}
	grams, err := p.GetTable([]string{"ngram"}, ns, vert, horiz)
	if err != nil {
		return nil, err
	}
	d, err := p.GetData([]string{"frequency"}, nil, grams)
	if err != nil {
		return nil, err
	}
	return d.(*model.Counts), nil
}

// twoPartNGrams follows every pair over the motion of its lower voice.
func (m *Manager) twoPartNGrams(p *piece.Piece, s PieceSettings, rs RunSettings) ([]*model.Counts, error) {
	t, err := intervalTables(p, s, true)
	if err != nil {
		return nil, err
	}
	var res []*model.Counts
	for _, pair := range pairs(t.voices, s.VoiceCombinations) {
		upper, lower := t.voices[pair[0]], t.voices[pair[1]]
		ns := ngramSettings(s, rs, []string{indexer.PairLabel(upper, lower)}, lower)
		c, err := ngramCounts(p, t, ns)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

// allVoiceNGrams follows every voice against the lowest voice of its
// combination at once.
func (m *Manager) allVoiceNGrams(p *piece.Piece, s PieceSettings, rs RunSettings) ([]*model.Counts, error) {
	t, err := intervalTables(p, s, true)
	if err != nil {
		return nil, err
	}
	groups := s.VoiceCombinations
	if len(groups) == 0 {
		all := make([]int, len(t.voices))
		for i := range all {
			all[i] = i
		}
		groups = [][]int{all}
	}

	var res []*model.Counts
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		voices := slices.Clone(group)
		slices.Sort(voices)
		for _, v := range voices {
			if v < 0 || v >= len(t.voices) {
				return nil, fmt.Errorf("%w: voice %d does not exist", model.ErrInvalidSetting, v)
			}
		}
		bass := t.voices[voices[len(voices)-1]]
		var vertical []string
		for _, v := range voices[:len(voices)-1] {
			vertical = append(vertical, indexer.PairLabel(t.voices[v], bass))
		}
		c, err := ngramCounts(p, t, ngramSettings(s, rs, vertical, bass))
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}
