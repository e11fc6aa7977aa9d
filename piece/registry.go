package piece

import (
	"fmt"

	"github.com/jsphweid/voicelead/analyzer"
	"github.com/jsphweid/voicelead/experimenter"
	"github.com/jsphweid/voicelead/extract"
	"github.com/jsphweid/voicelead/indexer"
	"github.com/jsphweid/voicelead/interval"
	"github.com/jsphweid/voicelead/model"
)

// Handler runs one analyzer for a piece.
type Handler struct {
	// Arity is the number of data inputs: 0 when the analyzer only reads the
	// score, -1 for one or more.
	Arity int
	// SelfContained analyzers compute their inputs from the piece when no data
	// is given.
	SelfContained bool
	// Follows is the analyzer whose default output a self-contained analyzer
	// reads on its own. A chain of the two is cached as the second alone.
	Follows analyzer.Tag
	Defaults analyzer.Settings
	Decode   func(raw map[string]any) (analyzer.Settings, error)
	// Compute gets nil inputs when the analyzer runs on the piece alone.
	Compute func(p *Piece, in []model.Data, s analyzer.Settings) (model.Data, error)
}

// Registry maps each analyzer to its handler.
type Registry map[analyzer.Tag]Handler

// DecodeSettings reads raw settings for tag on top of its defaults.
func (r Registry) DecodeSettings(tag analyzer.Tag, raw map[string]any) (analyzer.Settings, error) {
	h, ok := r[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %v is not available", model.ErrNotAnAnalyzer, tag)
	}
	return h.Decode(raw)
}

// DecodeChainSettings reads raw settings for the first analyzer of chain
// that has any. Empty raw settings give nil, so every stage keeps its
// defaults.
func (r Registry) DecodeChainSettings(chain []string, raw map[string]any) (analyzer.Settings, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	tags, err := analyzer.ParseChain(chain)
	if err != nil {
		return nil, err
	}
	for _, tag := range tags {
		h, ok := r[tag]
		if !ok {
			return nil, fmt.Errorf("%w: %v is not available", model.ErrNotAnAnalyzer, tag)
		}
		if h.Defaults.Key() != "" {
			return h.Decode(raw)
		}
	}
	return nil, fmt.Errorf("%w: none of %v takes settings", model.ErrArgumentMismatch, tags)
}

// DecodeChainSettings is Registry.DecodeChainSettings against the handlers
// this piece runs.
func (p *Piece) DecodeChainSettings(chain []string, raw map[string]any) (analyzer.Settings, error) {
	return p.registry.DecodeChainSettings(chain, raw)
}

func decoder[S analyzer.Settings](defaults S) func(map[string]any) (analyzer.Settings, error) {
	return func(raw map[string]any) (analyzer.Settings, error) {
		s, err := analyzer.Decode(raw, defaults)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// source builds the handler of an analyzer that only reads events.
func source(read func(p *Piece) (*model.Table, error), index func(t *model.Table) (*model.Table, error)) Handler {
	return Handler{
		SelfContained: true,
		Defaults:      indexer.None{},
		Decode:        decoder(indexer.None{}),
		Compute: func(p *Piece, _ []model.Data, _ analyzer.Settings) (model.Data, error) {
			events, err := read(p)
			if err != nil {
				return nil, err
			}
			return index(events)
		},
	}
}

func plain(fn func(*model.Table) *model.Table) func(*model.Table) (*model.Table, error) {
	return func(t *model.Table) (*model.Table, error) {
		return fn(t), nil
	}
}

// Settings used for the inputs of the dissonance analyzer.
var (
	dissonanceHorizontal = interval.Settings{Quality: false, Directed: true, Simple: false, HorizAttachLater: false}
	dissonanceVertical   = interval.DefaultSettings()
)

func DefaultRegistry() Registry {
	return Registry{
		analyzer.NoteRest:      source((*Piece).events, plain(indexer.NoteRest)),
		analyzer.MultiStop:     source((*Piece).events, plain(indexer.MultiStop)),
		analyzer.BeatStrength:  source((*Piece).events, plain(indexer.BeatStrength)),
		analyzer.Tie:           source((*Piece).tiedEvents, plain(indexer.Tie)),
		analyzer.Measure:       source((*Piece).measures, plain(indexer.Measure)),
		analyzer.TimeSignature: source((*Piece).timeSignatures, plain(indexer.TimeSignature)),
		analyzer.Lyric:         source((*Piece).events, plain(indexer.Lyric)),
		analyzer.Fermata:       source((*Piece).events, plain(indexer.Fermata)),
		analyzer.Duration: {
			SelfContained: true,
			Defaults:      indexer.None{},
			Decode:        decoder(indexer.None{}),
			Compute: func(p *Piece, _ []model.Data, _ analyzer.Settings) (model.Data, error) {
				events, err := p.events()
				if err != nil {
					return nil, err
				}
				highest, err := p.highestTimes()
				if err != nil {
					return nil, err
				}
				return indexer.Duration(events, highest)
			},
		},

		analyzer.ActiveVoices: {
			Arity:         1,
			SelfContained: true,
			Follows:       analyzer.NoteRest,
			Defaults:      indexer.ActiveVoicesSettings{},
			Decode:        decoder(indexer.ActiveVoicesSettings{}),
			Compute: func(p *Piece, in []model.Data, s analyzer.Settings) (model.Data, error) {
				nr, err := p.inputOr(in, analyzer.NoteRest)
				if err != nil {
					return nil, err
				}
				return indexer.ActiveVoices(nr, s.(indexer.ActiveVoicesSettings)), nil
			},
		},
		analyzer.VerticalInterval: {
			Arity:         1,
			SelfContained: true,
			Follows:       analyzer.NoteRest,
			Defaults:      interval.DefaultSettings(),
			Decode:        decoder(interval.DefaultSettings()),
			Compute: func(p *Piece, in []model.Data, s analyzer.Settings) (model.Data, error) {
				is := s.(interval.Settings)
				if in != nil {
					nr, err := joined(in)
					if err != nil {
						return nil, err
					}
					return indexer.Vertical(nr, is)
				}
				detailed, err := p.detailedVertical()
				if err != nil {
					return nil, err
				}
				if is.SameLabels(interval.Detailed()) {
					return detailed, nil
				}
				return indexer.ReduceIntervals(detailed, is), nil
			},
		},
		analyzer.HorizontalInterval: {
			Arity:         1,
			SelfContained: true,
			Follows:       analyzer.NoteRest,
			Defaults:      interval.DefaultSettings(),
			Decode:        decoder(interval.DefaultSettings()),
			Compute: func(p *Piece, in []model.Data, s analyzer.Settings) (model.Data, error) {
				is := s.(interval.Settings)
				if in != nil {
					nr, err := joined(in)
					if err != nil {
						return nil, err
					}
					return indexer.Horizontal(nr, is)
				}
				detailed, err := p.detailedHorizontal(is.HorizAttachLater)
				if err != nil {
					return nil, err
				}
				if is.SameLabels(interval.Detailed()) {
					return detailed, nil
				}
				return indexer.ReduceIntervals(detailed, is), nil
			},
		},

		analyzer.Dissonance: {
			Arity:         4,
			SelfContained: true,
			Defaults:      indexer.None{},
			Decode:        decoder(indexer.None{}),
			Compute: func(p *Piece, in []model.Data, _ analyzer.Settings) (model.Data, error) {
				if in != nil {
					inputs, err := asTables(in)
					if err != nil {
						return nil, err
					}
					return indexer.Dissonance(inputs)
				}
				inputs := make([]*model.Table, 0, 4)
				for _, step := range []struct {
					tag analyzer.Tag
					s   analyzer.Settings
				}{
					{analyzer.BeatStrength, nil},
					{analyzer.Duration, nil},
					{analyzer.HorizontalInterval, dissonanceHorizontal},
					{analyzer.VerticalInterval, dissonanceVertical},
				} {
					t, err := p.table(step.tag, step.s)
					if err != nil {
						return nil, err
					}
					inputs = append(inputs, t)
				}
				return indexer.Dissonance(inputs)
			},
		},
		analyzer.FiguredBass: {
			Arity:         2,
			SelfContained: true,
			Defaults:      indexer.DefaultFiguredBassSettings(),
			Decode:        decoder(indexer.DefaultFiguredBassSettings()),
			Compute: func(p *Piece, in []model.Data, s analyzer.Settings) (model.Data, error) {
				var horiz, vert *model.Table
				var err error
				if in != nil {
					var inputs []*model.Table
					if inputs, err = asTables(in); err != nil {
						return nil, err
					}
					horiz, vert = inputs[0], inputs[1]
				} else {
					if horiz, err = p.table(analyzer.HorizontalInterval, nil); err != nil {
						return nil, err
					}
					if vert, err = p.table(analyzer.VerticalInterval, nil); err != nil {
						return nil, err
					}
				}
				return indexer.FiguredBass(horiz, vert, s.(indexer.FiguredBassSettings))
			},
		},

		analyzer.NGram: {
			Arity:    -1,
			Defaults: indexer.DefaultNGramSettings(),
			Decode:   decoder(indexer.DefaultNGramSettings()),
			Compute: func(_ *Piece, in []model.Data, s analyzer.Settings) (model.Data, error) {
				t, err := joined(in)
				if err != nil {
					return nil, err
				}
				return indexer.NGram(t, s.(indexer.NGramSettings))
			},
		},
		analyzer.Offset: {
			Arity:    1,
			Defaults: indexer.DefaultOffsetSettings(),
			Decode:   decoder(indexer.DefaultOffsetSettings()),
			Compute: func(_ *Piece, in []model.Data, s analyzer.Settings) (model.Data, error) {
				t, err := asTable(in[0])
				if err != nil {
					return nil, err
				}
				return indexer.Offset(t, s.(indexer.OffsetSettings))
			},
		},
		analyzer.Repeat: {
			Arity:    1,
			Defaults: indexer.None{},
			Decode:   decoder(indexer.None{}),
			Compute: func(_ *Piece, in []model.Data, _ analyzer.Settings) (model.Data, error) {
				t, err := asTable(in[0])
				if err != nil {
					return nil, err
				}
				return indexer.Repeat(t), nil
			},
		},

		analyzer.Frequency: {
			Arity:    -1,
			Defaults: indexer.None{},
			Decode:   decoder(indexer.None{}),
			Compute: func(_ *Piece, in []model.Data, _ analyzer.Settings) (model.Data, error) {
				t, err := joined(in)
				if err != nil {
					return nil, err
				}
				return experimenter.Frequency(t), nil
			},
		},
		analyzer.Aggregator: {
			Arity:    -1,
			Defaults: indexer.None{},
			Decode:   decoder(indexer.None{}),
			Compute: func(_ *Piece, in []model.Data, _ analyzer.Settings) (model.Data, error) {
				counts := make([]*model.Counts, 0, len(in))
				for _, d := range in {
					c, ok := d.(*model.Counts)
					if !ok {
						return nil, fmt.Errorf("%w: aggregator needs frequencies, got %T", model.ErrArgumentMismatch, d)
					}
					counts = append(counts, c)
				}
				return experimenter.Aggregate(counts...), nil
			},
		},
	}
}

// inputOr joins the given inputs, or runs tag on the piece when there are
// none.
func (p *Piece) inputOr(in []model.Data, tag analyzer.Tag) (*model.Table, error) {
	if in != nil {
		return joined(in)
	}
	return p.table(tag, nil)
}

func (p *Piece) parts(name string, eliminateTies bool, kinds ...model.Kind) (*model.Table, error) {
	d, err := p.cache.get(internalKey(name), func() (model.Data, error) {
		score, err := p.Score()
		if err != nil {
			return nil, err
		}
		return extract.PartsTable(score, eliminateTies, kinds...), nil
	})
	if err != nil {
		return nil, err
	}
	return asTable(d)
}

// events holds the notes, rests and chords of every part, without the
// continuations of tied notes.
func (p *Piece) events() (*model.Table, error) {
	return p.parts("events", true, extract.NoteRest...)
}

func (p *Piece) tiedEvents() (*model.Table, error) {
	return p.parts("events_tied", false, extract.NoteRest...)
}

func (p *Piece) measures() (*model.Table, error) {
	return p.parts("measures", false, extract.Measures...)
}

func (p *Piece) timeSignatures() (*model.Table, error) {
	return p.parts("time_signatures", false, extract.TimeSignature...)
}

// detailedVertical holds the vertical intervals spelled in full, from which
// every other spelling is reduced.
func (p *Piece) detailedVertical() (*model.Table, error) {
	d, err := p.cache.get(internalKey("vertical_detailed"), func() (model.Data, error) {
		nr, err := p.table(analyzer.NoteRest, nil)
		if err != nil {
			return nil, err
		}
		return indexer.Vertical(nr, interval.Detailed())
	})
	if err != nil {
		return nil, err
	}
	return asTable(d)
}

// detailedHorizontal holds the melodic intervals spelled in full. The
// attach-before table is moved from the attach-later one.
func (p *Piece) detailedHorizontal(attachLater bool) (*model.Table, error) {
	name := "horizontal_detailed_before"
	if attachLater {
		name = "horizontal_detailed_later"
	}
	d, err := p.cache.get(internalKey(name), func() (model.Data, error) {
		nr, err := p.table(analyzer.NoteRest, nil)
		if err != nil {
			return nil, err
		}
		if !attachLater {
			later, err := p.detailedHorizontal(true)
			if err != nil {
				return nil, err
			}
			return indexer.AttachBefore(later, nr), nil
		}
		s := interval.Detailed()
		s.HorizAttachLater = true
		return indexer.Horizontal(nr, s)
	})
	if err != nil {
		return nil, err
	}
	return asTable(d)
}
