package indexer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/voicelead/model"
	"golang.org/x/exp/slices"
)

type NGramSettings struct {
	N int `yaml:"n"`
	// Vertical and Horizontal name the input columns read at each step.
	// When Vertical is empty every column not in Horizontal is vertical.
	Vertical   []string `yaml:"vertical,flow"`
	Horizontal []string `yaml:"horizontal,flow"`
	// MarkSingles wraps groups of a single column in brackets too.
	MarkSingles bool `yaml:"mark_singles"`
	// Continuer replaces a missing cell in a row where another selected
	// column has a value.
	Continuer string `yaml:"continuer"`
	// Terminator lists values that no n-gram may contain.
	Terminator []string `yaml:"terminator,flow"`
	Brackets   bool     `yaml:"brackets"`
}

func DefaultNGramSettings() NGramSettings {
	return NGramSettings{N: 2, Continuer: "_", Brackets: true}
}

func (s NGramSettings) Key() string {
	return fmt.Sprintf("n=%d,vertical=%q,horizontal=%q,mark_singles=%t,continuer=%q,terminator=%q,brackets=%t",
		s.N, s.Vertical, s.Horizontal, s.MarkSingles, s.Continuer, s.Terminator, s.Brackets)
}

func (s NGramSettings) Validate() error {
	if s.N < 1 {
		return fmt.Errorf("%w: n must be at least 1, got %d", model.ErrInvalidSetting, s.N)
	}
	return nil
}

// Label is the output column name, vertical columns then horizontal ones.
func (s NGramSettings) Label(vertical []string) string {
	if len(s.Horizontal) == 0 {
		return strings.Join(vertical, " ")
	}
	return strings.Join(vertical, " ") + " : " + strings.Join(s.Horizontal, " ")
}

// NGram slides a window of N rows over the selected columns. Each token is
// the vertical group of the first row followed, for every later row, by that
// row's horizontal group and vertical group. The token sits at the offset of
// its first row.
func NGram(data *model.Table, s NGramSettings) (*model.Table, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	vertical := s.Vertical
	if len(vertical) == 0 {
		for _, l := range data.Labels {
			if !slices.Contains(s.Horizontal, l) {
				vertical = append(vertical, l)
			}
		}
	}
	if len(vertical) > 1 {
		vertical = sortLabels(vertical, data.Labels)
	}
	vcols, err := columns(data, vertical)
	if err != nil {
		return nil, err
	}
	hcols, err := columns(data, s.Horizontal)
	if err != nil {
		return nil, err
	}

	var rows []int
	for row := range data.Index {
		for _, col := range append(append([]int(nil), vcols...), hcols...) {
			if !data.Cell(row, col).IsNA() {
				rows = append(rows, row)
				break
			}
		}
	}

	cell := func(row, col int) string {
		v := data.Cell(row, col)
		if v.IsNA() {
			return s.Continuer
		}
		return v.String()
	}
	group := func(row int, cols []int, open, close string) (string, bool) {
		parts := make([]string, len(cols))
		for i, col := range cols {
			parts[i] = cell(row, col)
			if slices.Contains(s.Terminator, parts[i]) {
				return "", false
			}
		}
		joined := strings.Join(parts, " ")
		if s.Brackets && (len(cols) > 1 || s.MarkSingles) {
			joined = open + joined + close
		}
		return joined, true
	}

	res := model.Series{Label: s.Label(vertical)}
	for start := 0; start+s.N <= len(rows); start++ {
		var tokens []string
		ok := true
		for k := 0; k < s.N && ok; k++ {
			row := rows[start+k]
			if k > 0 && len(hcols) > 0 {
				var h string
				if h, ok = group(row, hcols, "(", ")"); ok {
					tokens = append(tokens, h)
				}
			}
			if !ok {
				break
			}
			var v string
			if v, ok = group(row, vcols, "[", "]"); ok {
				tokens = append(tokens, v)
			}
		}
		if !ok {
			continue
		}
		res.Offsets = append(res.Offsets, data.Index[rows[start]])
		res.Values = append(res.Values, model.Text(strings.Join(tokens, " ")))
	}
	return model.Align(res), nil
}

func columns(t *model.Table, labels []string) ([]int, error) {
	res := make([]int, 0, len(labels))
	for _, l := range labels {
		col, ok := t.ColumnIndex(l)
		if !ok {
			return nil, fmt.Errorf("%w: no column %q (have %v)", model.ErrArgumentMismatch, l, t.Labels)
		}
		res = append(res, col)
	}
	return res, nil
}

// sortLabels orders vertical labels by their position in the input so a
// simultaneity always reads in voice order.
func sortLabels(labels []string, order []string) []string {
	res := slices.Clone(labels)
	sort.SliceStable(res, func(i, j int) bool {
		return slices.Index(order, res[i]) < slices.Index(order, res[j])
	})
	return res
}
