package signavio

import (
	"sort"

	"github.com/tidwall/btree"
)

// Census aggregates stencil usage across parsed diagrams. Reports come
// back in a stable order so repeated runs over the same corpus print the
// same text.
type Census struct {
	Files  int
	Shapes int

	counts btree.Map[string, int]
	kinds  btree.Map[string, int]
}

func NewCensus() *Census {
	return &Census{}
}

func (c *Census) Add(d *Diagram) {
	c.Files++
	n, _ := c.kinds.Get(d.Kind.String())
	c.kinds.Set(d.Kind.String(), n+1)

	for _, node := range d.Nodes {
		c.bump(node.Stencil)
	}
	for _, edge := range d.Edges {
		c.bump(edge.Stencil)
	}
}

func (c *Census) bump(stencil string) {
	n, _ := c.counts.Get(stencil)
	c.counts.Set(stencil, n+1)
	c.Shapes++
}

func (c *Census) Count(stencil string) int {
	n, _ := c.counts.Get(stencil)
	return n
}

// Stencils returns every observed stencil in lexical order.
func (c *Census) Stencils() []string {
	out := make([]string, 0, c.counts.Len())
	c.counts.Scan(func(stencil string, _ int) bool {
		out = append(out, stencil)
		return true
	})
	return out
}

type CensusRow struct {
	Stencil string
	Count   int
}

// Rows returns stencil counts ordered by count descending, then stencil
// name.
func (c *Census) Rows() []CensusRow {
	rows := make([]CensusRow, 0, c.counts.Len())
	c.counts.Scan(func(stencil string, n int) bool {
		rows = append(rows, CensusRow{Stencil: stencil, Count: n})
		return true
	})
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Stencil < rows[j].Stencil
	})
	return rows
}

type KindCount struct {
	Kind  string
	Files int
}

// Kinds returns per-diagram-kind file counts in lexical kind order.
func (c *Census) Kinds() []KindCount {
	out := make([]KindCount, 0, c.kinds.Len())
	c.kinds.Scan(func(kind string, n int) bool {
		out = append(out, KindCount{Kind: kind, Files: n})
		return true
	})
	return out
}
