// Package piece owns one score and every result derived from it.
package piece

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jsphweid/voicelead/model"
)

// ScoreSource parses the file at pathname. A file holding several pieces
// returns one score per piece.
type ScoreSource interface {
	Load(pathname string) ([]*model.Score, error)
}

// OpusWarning reports that a file did not hold the number of pieces the
// caller expected. The pieces returned with it are usable.
type OpusWarning struct {
	Pathname string
	Found    int
	Expected string
}

func (w *OpusWarning) Error() string {
	return fmt.Sprintf("%s: expected %s but found %d pieces; treating it as %d separate pieces", w.Pathname, w.Expected, w.Found, w.Found)
}

type Piece struct {
	id       uuid.UUID
	pathname string
	src      ScoreSource
	registry Registry

	loadOnce sync.Once
	score    *model.Score
	loadErr  error

	mu       sync.Mutex
	metadata map[string]any
	external MetadataSource

	cache *cache
}

type Option func(p *Piece)

// WithRegistry replaces the analyzers a piece can run.
func WithRegistry(r Registry) Option {
	return func(p *Piece) {
		p.registry = r
	}
}

// New returns a piece that parses pathname with src the first time its score
// is needed.
func New(pathname string, src ScoreSource, opts ...Option) *Piece {
	p := &Piece{
		id:       uuid.New(),
		pathname: pathname,
		src:      src,
		registry: DefaultRegistry(),
		metadata: make(map[string]any),
		cache:    newCache(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FromScore wraps an already parsed score.
func FromScore(score *model.Score, pathname string, opts ...Option) *Piece {
	p := New(pathname, nil, opts...)
	p.loadOnce.Do(func() {
		p.setScore(score)
	})
	return p
}

// Import parses pathname now. When knownOpus is false and the file holds
// several pieces, or knownOpus is true and it holds one, the pieces are
// returned together with an *OpusWarning.
func Import(src ScoreSource, pathname string, knownOpus bool, opts ...Option) ([]*Piece, error) {
	scores, err := src.Load(pathname)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, fmt.Errorf("%s: no pieces found", pathname)
	}
	res := make([]*Piece, 0, len(scores))
	for i, s := range scores {
		name := pathname
		if len(scores) > 1 {
			name = fmt.Sprintf("%s#%d", pathname, i+1)
		}
		res = append(res, FromScore(s, name, opts...))
	}
	switch {
	case len(scores) > 1 && !knownOpus:
		return res, &OpusWarning{Pathname: pathname, Found: len(scores), Expected: "a single piece"}
	case len(scores) == 1 && knownOpus:
		return res, &OpusWarning{Pathname: pathname, Found: 1, Expected: "an opus"}
	}
	return res, nil
}

func (p *Piece) ID() string {
	return p.id.String()
}

func (p *Piece) Pathname() string {
	return p.pathname
}

// Score returns the parsed score, parsing it on first use.
func (p *Piece) Score() (*model.Score, error) {
	p.loadOnce.Do(func() {
		if p.src == nil {
			p.loadErr = fmt.Errorf("%s: no score source", p.pathname)
			return
		}
		scores, err := p.src.Load(p.pathname)
		if err != nil {
			p.loadErr = err
			return
		}
		if len(scores) != 1 {
			p.loadErr = &OpusWarning{Pathname: p.pathname, Found: len(scores), Expected: "a single piece"}
			return
		}
		p.setScore(scores[0])
	})
	return p.score, p.loadErr
}

func (p *Piece) setScore(s *model.Score) {
	p.score = s
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fillMetadata(s)
}

// highestTimes is the end of every part, in part order.
func (p *Piece) highestTimes() ([]model.Offset, error) {
	score, err := p.Score()
	if err != nil {
		return nil, err
	}
	res := make([]model.Offset, len(score.Parts))
	for i, part := range score.Parts {
		res[i] = part.HighestTime
	}
	return res, nil
}

func (p *Piece) String() string {
	title, _ := p.Metadata("title", nil)
	if t, ok := title.(string); ok && t != "" {
		return fmt.Sprintf("<Piece %s>", t)
	}
	return fmt.Sprintf("<Piece %s>", strings.TrimSuffix(filepath.Base(p.pathname), filepath.Ext(p.pathname)))
}
