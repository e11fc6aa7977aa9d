// Package experimenter summarizes indexer output across voices and pieces.
package experimenter

import (
	"sort"

	"github.com/jsphweid/voicelead/model"
	"github.com/viterin/vek"
)

// AggregatedLabel names the single column produced by Aggregate.
const AggregatedLabel = "Aggregated Results"

// Frequency counts how often each value occurs in every column. A value
// that never occurs in a column is missing there, not zero.
func Frequency(t *model.Table) *model.Counts {
	perColumn := make([]map[string]float64, t.Width())
	seen := make(map[string]bool)
	for col := range t.Labels {
		perColumn[col] = make(map[string]float64)
		for _, v := range t.Column(col) {
			if v.IsNA() {
				continue
			}
			key := v.String()
			perColumn[col][key]++
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := model.NewCounts(keys, t.Labels)
	for row, k := range keys {
		for col := range t.Labels {
			if n, ok := perColumn[col][k]; ok {
				res.Set(row, col, model.Number(n))
			}
		}
	}
	return res
}

// Aggregate sums every column of every Counts into one column, treating a
// missing count as zero.
func Aggregate(counts ...*model.Counts) *model.Counts {
	index := make(map[string]int)
	var keys []string
	for _, c := range counts {
		for _, k := range c.Keys {
			if _, ok := index[k]; !ok {
				index[k] = len(keys)
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	for i, k := range keys {
		index[k] = i
	}

	rows := make([][]float64, len(keys))
	for _, c := range counts {
		for row, k := range c.Keys {
			for col := 0; col < c.Width(); col++ {
				if f, ok := c.Cell(row, col).Float(); ok {
					rows[index[k]] = append(rows[index[k]], f)
				}
			}
		}
	}

	res := model.NewCounts(keys, []string{AggregatedLabel})
	for i := range keys {
		total := 0.0
		if len(rows[i]) > 0 {
			total = vek.Sum(rows[i])
		}
		res.Set(i, 0, model.Number(total))
	}
	return res
}

// Summarize aggregates counts, highest count first.
func Summarize(counts ...*model.Counts) *model.Counts {
	res := Aggregate(counts...)
	res.SortDescending()
	return res
}
