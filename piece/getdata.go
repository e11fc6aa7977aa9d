package piece

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/jsphweid/voicelead/analyzer"
	"github.com/jsphweid/voicelead/model"
)

type stage struct {
	tag      analyzer.Tag
	handler  Handler
	settings analyzer.Settings
}

func (s stage) isDefault() bool {
	return s.settings.Key() == s.handler.Defaults.Key()
}

// GetData runs chain, each analyzer consuming the output of the one before.
//
// settings applies to every stage whose settings have the same type; other
// stages use their defaults. Settings that fit no stage are an error.
//
// data replaces the input of the first stage. Results computed from data
// are never cached, since nothing ties data to this piece. Without data
// every stage is cached under its DerivationKey and computed at most once.
func (p *Piece) GetData(chain []string, settings analyzer.Settings, data ...model.Data) (model.Data, error) {
	tags, err := analyzer.ParseChain(chain)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: no analyzers given", model.ErrArgumentMismatch)
	}
	stages, err := p.plan(tags, settings)
	if err != nil {
		return nil, err
	}
	return p.run(stages, data)
}

// GetTable is GetData for chains that end in a table.
func (p *Piece) GetTable(chain []string, settings analyzer.Settings, data ...model.Data) (*model.Table, error) {
	d, err := p.GetData(chain, settings, data...)
	if err != nil {
		return nil, err
	}
	return asTable(d)
}

func (p *Piece) handler(tag analyzer.Tag) (Handler, error) {
	h, ok := p.registry[tag]
	if !ok {
		return Handler{}, fmt.Errorf("%w: %v is not available", model.ErrNotAnAnalyzer, tag)
	}
	return h, nil
}

func (p *Piece) plan(tags []analyzer.Tag, settings analyzer.Settings) ([]stage, error) {
	res := make([]stage, 0, len(tags))
	matched := settings == nil
	for _, tag := range tags {
		h, err := p.handler(tag)
		if err != nil {
			return nil, err
		}
		s := h.Defaults
		if settings != nil && reflect.TypeOf(settings) == reflect.TypeOf(h.Defaults) {
			s = settings
			matched = true
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		res = append(res, stage{tag: tag, handler: h, settings: s})
	}
	if !matched {
		return nil, fmt.Errorf("%w: settings of type %T apply to none of %v", model.ErrArgumentMismatch, settings, tags)
	}
	return res, nil
}

func checkArity(tag analyzer.Tag, h Handler, n int) error {
	switch {
	case h.Arity == 0:
		return fmt.Errorf("%w: %v reads the score and takes no data", model.ErrArgumentMismatch, tag)
	case h.Arity > 0 && n != h.Arity:
		return fmt.Errorf("%w: %v takes %d inputs, got %d", model.ErrArity, tag, h.Arity, n)
	}
	return nil
}

func (p *Piece) run(stages []stage, data []model.Data) (model.Data, error) {
	var out model.Data
	var key DerivationKey
	cached := len(data) == 0
	for i, st := range stages {
		h := st.handler
		var in []model.Data
		switch {
		case i == 0 && len(data) > 0:
			in = data
		case i == 0:
			if !h.SelfContained {
				return nil, fmt.Errorf("%w: %v needs data to analyze", model.ErrArgumentMismatch, st.tag)
			}
		case cached && h.SelfContained && h.Follows == stages[i-1].tag && stages[i-1].isDefault():
			// the previous stage is exactly what this one reads by itself
			key = DerivationKey{}
		default:
			in = []model.Data{out}
		}
		if in != nil {
			if err := checkArity(st.tag, h, len(in)); err != nil {
				return nil, err
			}
		}

		key = key.Extend(st.tag, st.settings)
		compute := func() (model.Data, error) {
			return h.Compute(p, in, st.settings)
		}
		var err error
		if cached {
			out, err = p.cache.get(key, compute)
		} else {
			out, err = compute()
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// table runs one analyzer on the piece alone.
func (p *Piece) table(tag analyzer.Tag, s analyzer.Settings) (*model.Table, error) {
	h, err := p.handler(tag)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = h.Defaults
	}
	d, err := p.run([]stage{{tag: tag, handler: h, settings: s}}, nil)
	if err != nil {
		return nil, err
	}
	return asTable(d)
}

// Cached lists the keys of every result held by the piece, sorted.
func (p *Piece) Cached() []DerivationKey {
	keys := p.cache.keys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

func asTable(d model.Data) (*model.Table, error) {
	t, ok := d.(*model.Table)
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: expected a table, got %T", model.ErrArgumentMismatch, d)
	}
	return t, nil
}

func asTables(in []model.Data) ([]*model.Table, error) {
	res := make([]*model.Table, 0, len(in))
	for _, d := range in {
		t, err := asTable(d)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, nil
}

// joined concatenates the columns of every input table.
func joined(in []model.Data) (*model.Table, error) {
	tables, err := asTables(in)
	if err != nil {
		return nil, err
	}
	if len(tables) == 1 {
		return tables[0], nil
	}
	return model.Concat(tables...), nil
}
