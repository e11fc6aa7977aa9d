package model

import (
	"sort"
	"strings"

	"golang.org/x/exp/slices"
)

// Counts is a frequency table: one row per token, one numeric column per
// counted input column. A token absent from a column is missing there.
type Counts struct {
	Keys   []string
	Labels []string
	cells  [][]Value
}

func (c *Counts) isData() {}

func NewCounts(keys []string, labels []string) *Counts {
	c := &Counts{
		Keys:   append([]string(nil), keys...),
		Labels: append([]string(nil), labels...),
		cells:  make([][]Value, len(labels)),
	}
	for i := range c.cells {
		c.cells[i] = make([]Value, len(keys))
	}
	return c
}

func (c *Counts) Len() int {
	return len(c.Keys)
}

func (c *Counts) Width() int {
	return len(c.Labels)
}

func (c *Counts) Cell(row, col int) Value {
	return c.cells[col][row]
}

func (c *Counts) Set(row, col int, v Value) {
	c.cells[col][row] = v
}

func (c *Counts) Row(key string) (int, bool) {
	for i, k := range c.Keys {
		if k == key {
			return i, true
		}
	}
	return -1, false
}

// Get returns the count of key in the first column, or 0.
func (c *Counts) Get(key string) float64 {
	row, ok := c.Row(key)
	if !ok || c.Width() == 0 {
		return 0
	}
	f, _ := c.cells[0][row].Float()
	return f
}

// SortDescending orders rows by the first column, highest first. Ties keep
// token order so the result is deterministic.
func (c *Counts) SortDescending() {
	if c.Width() == 0 {
		return
	}
	order := make([]int, c.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		fa, _ := c.cells[0][order[a]].Float()
		fb, _ := c.cells[0][order[b]].Float()
		if fa != fb {
			return fa > fb
		}
		return c.Keys[order[a]] < c.Keys[order[b]]
	})
	c.reorder(order)
}

func (c *Counts) reorder(order []int) {
	keys := make([]string, len(order))
	for i, row := range order {
		keys[i] = c.Keys[row]
	}
	for col := range c.cells {
		cells := make([]Value, len(order))
		for i, row := range order {
			cells[i] = c.cells[col][row]
		}
		c.cells[col] = cells
	}
	c.Keys = keys
}

// Filter keeps rows whose first-column count is strictly greater than
// threshold, then at most topX of them. Zero disables either limit.
func (c *Counts) Filter(topX int, threshold float64) *Counts {
	var order []int
	for row := range c.Keys {
		if threshold > 0 && c.Width() > 0 {
			f, _ := c.cells[0][row].Float()
			if f <= threshold {
				continue
			}
		}
		order = append(order, row)
	}
	if topX > 0 && len(order) > topX {
		order = order[:topX]
	}
	res := &Counts{Keys: c.Keys, Labels: append([]string(nil), c.Labels...), cells: append([][]Value(nil), c.cells...)}
	res.reorder(order)
	return res
}

func (c *Counts) Equal(o *Counts) bool {
	if c == nil || o == nil {
		return c == o
	}
	if !slices.Equal(c.Keys, o.Keys) || !slices.Equal(c.Labels, o.Labels) {
		return false
	}
	for col := range c.cells {
		if !slices.Equal(c.cells[col], o.cells[col]) {
			return false
		}
	}
	return true
}

func (c *Counts) String() string {
	var b strings.Builder
	b.WriteString("token")
	for _, l := range c.Labels {
		b.WriteString("\t" + l)
	}
	b.WriteString("\n")
	for row, k := range c.Keys {
		b.WriteString(k)
		for col := range c.Labels {
			b.WriteString("\t" + c.cells[col][row].String())
		}
		b.WriteString("\n")
	}
	return b.String()
}
