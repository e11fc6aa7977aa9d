package piece

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jsphweid/voicelead/model"
	"golang.org/x/exp/slices"
	"golang.org/x/text/unicode/norm"
)

// Fields every piece knows about.
var Fields = []string{
	"pathname", "title", "composer", "composers", "date", "parts", "partRanges", "pieceRange",
	"opusNumber", "movementName", "movementNumber", "number", "anacrusis", "alternativeTitle",
	"localeOfComposition",
}

// ExternalFields are known once a MetadataSource is attached.
var ExternalFields = []string{
	"languages", "tags", "instruments_voices", "genres", "vocalization", "sources", "religiosity",
	"locations", "creator",
}

// MetadataSource looks up metadata kept outside the score, keyed by the
// piece's pathname.
type MetadataSource interface {
	Lookup(pathname string) (map[string]any, error)
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func (p *Piece) fillMetadata(s *model.Score) {
	m := p.metadata
	m["pathname"] = p.pathname
	title := normalize(s.Metadata.Title)
	if title == "" {
		base := filepath.Base(p.pathname)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	m["title"] = title
	m["composer"] = normalize(s.Metadata.Composer)
	composers := make([]string, 0, len(s.Metadata.Composers))
	for _, c := range s.Metadata.Composers {
		composers = append(composers, normalize(c))
	}
	m["composers"] = composers
	m["date"] = s.Metadata.Date
	m["opusNumber"] = s.Metadata.OpusNumber
	m["movementName"] = normalize(s.Metadata.MovementName)
	m["movementNumber"] = s.Metadata.MovementNumber
	m["number"] = s.Metadata.Number
	m["alternativeTitle"] = normalize(s.Metadata.AlternativeTitle)
	m["localeOfComposition"] = normalize(s.Metadata.LocaleOfComposition)
	m["anacrusis"] = s.Anacrusis()

	parts := make([]string, len(s.Parts))
	ranges := make([][2]string, 0, len(s.Parts))
	var lowest, highest model.Pitch
	found := false
	for i, part := range s.Parts {
		parts[i] = normalize(part.Name)
		if parts[i] == "" {
			parts[i] = fmt.Sprintf("Part %d", i+1)
		}
		lo, hi, ok := part.Range()
		if !ok {
			ranges = append(ranges, [2]string{})
			continue
		}
		ranges = append(ranges, [2]string{lo.Name(), hi.Name()})
		if !found || lo.MIDI() < lowest.MIDI() {
			lowest = lo
		}
		if !found || hi.MIDI() > highest.MIDI() {
			highest = hi
		}
		found = true
	}
	m["parts"] = parts
	m["partRanges"] = ranges
	if found {
		m["pieceRange"] = [2]string{lowest.Name(), highest.Name()}
	} else {
		m["pieceRange"] = [2]string{}
	}
}

// Metadata reads field, or sets it when value is not nil. field must be a
// string naming one of Fields, or of ExternalFields once a MetadataSource is
// attached.
func (p *Piece) Metadata(field any, value any) (any, error) {
	name, ok := field.(string)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", model.ErrFieldType, field)
	}
	p.mu.Lock()
	external := p.external != nil
	p.mu.Unlock()
	if !slices.Contains(Fields, name) && !(external && slices.Contains(ExternalFields, name)) {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidField, name)
	}
	if name != "pathname" {
		if _, err := p.Score(); err != nil {
			return nil, err
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.metadata["pathname"]; !ok {
		p.metadata["pathname"] = p.pathname
	}
	if value != nil {
		p.metadata[name] = value
		return value, nil
	}
	return p.metadata[name], nil
}

// AttachMetadata reads the external fields of this piece from src.
func (p *Piece) AttachMetadata(src MetadataSource) error {
	fields, err := src.Lookup(p.Pathname())
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.external = src
	for _, f := range ExternalFields {
		if v, ok := fields[f]; ok {
			p.metadata[f] = v
		}
	}
	return nil
}
