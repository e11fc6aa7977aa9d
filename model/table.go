package model

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// Data is anything an analyzer consumes or produces: a *Table or a *Counts.
type Data interface {
	isData()
}

// Series is one voice's present cells, offsets strictly increasing.
type Series struct {
	Label   string
	Offsets []Offset
	Values  []Value
}

func (s Series) Len() int {
	return len(s.Offsets)
}

// Table is an aligned table: one row per offset in the union of its
// columns' offsets, one column per voice or voice pair. Tables handed out by
// a piece are shared and must be treated as read-only.
type Table struct {
	Index  []Offset
	Labels []string
	cells  [][]Value
}

func (t *Table) isData() {}

// NewTable returns a table with every cell missing.
func NewTable(index []Offset, labels []string) *Table {
	t := &Table{
		Index:  append([]Offset(nil), index...),
		Labels: append([]string(nil), labels...),
		cells:  make([][]Value, len(labels)),
	}
	for i := range t.cells {
		t.cells[i] = make([]Value, len(index))
	}
	return t
}

func (t *Table) Len() int {
	return len(t.Index)
}

func (t *Table) Width() int {
	return len(t.Labels)
}

func (t *Table) Cell(row, col int) Value {
	return t.cells[col][row]
}

func (t *Table) Set(row, col int, v Value) {
	t.cells[col][row] = v
}

// Column returns the cells of one column, one per row of the index.
func (t *Table) Column(col int) []Value {
	return t.cells[col]
}

func (t *Table) ColumnIndex(label string) (int, bool) {
	for i, l := range t.Labels {
		if l == label {
			return i, true
		}
	}
	return -1, false
}

// Row returns the row holding offset o.
func (t *Table) Row(o Offset) (int, bool) {
	i := sort.SearchFloat64s(t.Index, o)
	if i < len(t.Index) && t.Index[i] == o {
		return i, true
	}
	return -1, false
}

// Series returns the present cells of one column.
func (t *Table) Series(col int) Series {
	s := Series{Label: t.Labels[col]}
	for row, v := range t.cells[col] {
		if v.IsNA() {
			continue
		}
		s.Offsets = append(s.Offsets, t.Index[row])
		s.Values = append(s.Values, v)
	}
	return s
}

// AllSeries returns every column as a Series.
func (t *Table) AllSeries() []Series {
	res := make([]Series, 0, t.Width())
	for col := range t.Labels {
		res = append(res, t.Series(col))
	}
	return res
}

// FillForward returns one column with each missing cell replaced by the
// nearest present cell above it. Cells before the first present one stay
// missing.
func (t *Table) FillForward(col int) []Value {
	res := make([]Value, t.Len())
	last := NA
	for row, v := range t.cells[col] {
		if !v.IsNA() {
			last = v
		}
		res[row] = last
	}
	return res
}

// Select returns the named columns realigned on their own offsets.
func (t *Table) Select(labels ...string) (*Table, error) {
	series := make([]Series, 0, len(labels))
	for _, l := range labels {
		col, ok := t.ColumnIndex(l)
		if !ok {
			return nil, fmt.Errorf("%w: no column %q (have %v)", ErrArgumentMismatch, l, t.Labels)
		}
		series = append(series, t.Series(col))
	}
	return Align(series...), nil
}

// Compact drops rows where every column is missing.
func (t *Table) Compact() *Table {
	keep := make([]int, 0, t.Len())
	for row := range t.Index {
		for col := range t.Labels {
			if !t.cells[col][row].IsNA() {
				keep = append(keep, row)
				break
			}
		}
	}
	res := &Table{Labels: append([]string(nil), t.Labels...), cells: make([][]Value, t.Width())}
	res.Index = make([]Offset, 0, len(keep))
	for _, row := range keep {
		res.Index = append(res.Index, t.Index[row])
	}
	for col := range t.Labels {
		res.cells[col] = make([]Value, 0, len(keep))
		for _, row := range keep {
			res.cells[col] = append(res.cells[col], t.cells[col][row])
		}
	}
	return res
}

func (t *Table) Clone() *Table {
	res := NewTable(t.Index, t.Labels)
	for col := range t.cells {
		copy(res.cells[col], t.cells[col])
	}
	return res
}

func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if !slices.Equal(t.Index, o.Index) || !slices.Equal(t.Labels, o.Labels) {
		return false
	}
	for col := range t.cells {
		if !slices.Equal(t.cells[col], o.cells[col]) {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("offset")
	for _, l := range t.Labels {
		b.WriteString("\t" + l)
	}
	b.WriteString("\n")
	for row, o := range t.Index {
		b.WriteString(fmt.Sprintf("%v", o))
		for col := range t.Labels {
			b.WriteString("\t" + t.cells[col][row].String())
		}
		b.WriteString("\n")
	}
	return b.String()
}

// unionIndex merges every offset into one sorted, duplicate free index.
func unionIndex(lists ...[]Offset) []Offset {
	var all []Offset
	for _, l := range lists {
		all = append(all, l...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}

// Align outer-joins series on their offsets. Each series must already have
// strictly increasing offsets.
func Align(series ...Series) *Table {
	lists := make([][]Offset, 0, len(series))
	labels := make([]string, 0, len(series))
	for _, s := range series {
		lists = append(lists, s.Offsets)
		labels = append(labels, s.Label)
	}
	t := NewTable(unionIndex(lists...), labels)
	for col, s := range series {
		row := 0
		for i, o := range s.Offsets {
			for t.Index[row] < o {
				row++
			}
			t.cells[col][row] = s.Values[i]
		}
	}
	return t
}

// Concat joins the columns of several tables on the union of their indexes.
func Concat(tables ...*Table) *Table {
	var series []Series
	for _, t := range tables {
		series = append(series, t.AllSeries()...)
	}
	return Align(series...)
}
