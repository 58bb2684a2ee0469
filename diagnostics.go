// MIT License
//
// Copyright (c) 2023 Lack
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package sigbpmn

import (
	"fmt"

	"github.com/tidwall/btree"
	log "github.com/vine-io/vine/lib/logger"
)

// Category classifies the problems a conversion can survive. A fatal
// problem is an error return instead.
type Category string

const (
	UnknownStencil         Category = "unknown-stencil"
	UnknownTaskType        Category = "unknown-task-type"
	UnknownEventDefinition Category = "unknown-event-definition"
	DanglingReference      Category = "dangling-reference"
	InvalidBounds          Category = "invalid-bounds"
	CyclicContainment      Category = "cyclic-containment"
	OrphanedElement        Category = "orphaned-element"
	UncategorizedElement   Category = "uncategorized-element"
	DuplicateID            Category = "duplicate-id"
	MissingID              Category = "missing-id"
	MissingStencil         Category = "missing-stencil"
)

// Diagnostic records one shape the conversion dropped or repaired
// instead of failing the whole document.
type Diagnostic struct {
	Category Category
	Element  string
	Stencil  string
	Message  string
}

func (d Diagnostic) String() string {
	switch {
	case d.Element == "":
		return fmt.Sprintf("%s: %s", d.Category, d.Message)
	case d.Stencil == "":
		return fmt.Sprintf("%s: %s: %s", d.Category, d.Element, d.Message)
	default:
		return fmt.Sprintf("%s: %s [%s]: %s", d.Category, d.Element, d.Stencil, d.Message)
	}
}

// CategoryCount is one row of a per-category diagnostic tally.
type CategoryCount struct {
	Category Category
	Count    int
}

// collector accumulates the diagnostics of a single document.
type collector struct {
	verbose bool
	diags   []Diagnostic
	counts  btree.Map[string, int]
}

func newCollector(verbose bool) *collector {
	return &collector{verbose: verbose}
}

func (c *collector) report(cat Category, element, stencil, format string, args ...interface{}) {
	d := Diagnostic{
		Category: cat,
		Element:  element,
		Stencil:  stencil,
		Message:  fmt.Sprintf(format, args...),
	}
	c.diags = append(c.diags, d)
	n, _ := c.counts.Get(string(cat))
	c.counts.Set(string(cat), n+1)
	if c.verbose {
		log.Warnf("%s", d.String())
	}
}

func (c *collector) diagnostics() []Diagnostic {
	return c.diags
}

// rows returns per-category counts in lexical category order.
func (c *collector) rows() []CategoryCount {
	out := make([]CategoryCount, 0, c.counts.Len())
	c.counts.Scan(func(cat string, n int) bool {
		out = append(out, CategoryCount{Category: Category(cat), Count: n})
		return true
	})
	return out
}
