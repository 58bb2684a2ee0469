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
	"math"
	"strings"

	"github.com/vine-io/sigbpmn/bpmn"
	"github.com/vine-io/sigbpmn/signavio"
)

// layout holds the absolute upper-left corner of every shape in the
// source tree. Export coordinates are relative to the enclosing shape;
// the interchange section wants canvas coordinates.
type layout struct {
	origins map[string]signavio.Point
}

// buildLayout accumulates origins over the whole raw tree. Unmapped
// containers still shift their children, so this runs over the diagram,
// not the resolution.
func buildLayout(d *signavio.Diagram) *layout {
	l := &layout{origins: make(map[string]signavio.Point, len(d.Nodes))}
	for _, node := range d.Nodes {
		var base signavio.Point
		if node.Parent != nil {
			base = l.origins[node.Parent.ID]
		}
		if node.Bounds == nil {
			l.origins[node.ID] = base
			continue
		}
		l.origins[node.ID] = signavio.Point{X: base.X + node.Bounds.X, Y: base.Y + node.Bounds.Y}
	}
	return l
}

// absBounds flattens one shape's box to canvas coordinates. Missing or
// negative geometry is clamped and reported, never fatal.
func (l *layout) absBounds(node *signavio.Node, col *collector) signavio.Bounds {
	origin := l.origins[node.ID]
	if node.Bounds == nil {
		col.report(InvalidBounds, node.ID, node.Stencil, "shape has no bounds, zero box emitted")
		return signavio.Bounds{X: origin.X, Y: origin.Y}
	}
	b := signavio.Bounds{
		X:      origin.X,
		Y:      origin.Y,
		Width:  node.Bounds.Width,
		Height: node.Bounds.Height,
	}
	if b.X < 0 || b.Y < 0 || b.Width < 0 || b.Height < 0 {
		col.report(InvalidBounds, node.ID, node.Stencil, "negative geometry clamped")
		b.X = math.Max(b.X, 0)
		b.Y = math.Max(b.Y, 0)
		b.Width = math.Max(b.Width, 0)
		b.Height = math.Max(b.Height, 0)
	}
	return b
}

// diagramSection renders the BPMNDI plane: one shape per surviving node
// and one edge per surviving connector, in model order.
func diagramSection(r *resolution, l *layout, opts *Options, col *collector) *bpmn.Diagram {
	dg := &bpmn.Diagram{ID: "BPMNDiagram_1"}
	dg.Plane.ID = "BPMNPlane_1"
	if r.processes[0].pool != nil {
		dg.Plane.Element = "Collaboration_1"
	} else {
		dg.Plane.Element = r.processes[0].id
	}

	boxes := make(map[string]signavio.Bounds, len(r.order))
	for _, rn := range r.order {
		if rn.dropped {
			continue
		}
		b := l.absBounds(rn.src, col)
		boxes[rn.src.ID] = b

		shape := &bpmn.DiShape{
			ID:      rn.src.ID + "_di",
			Element: rn.src.ID,
			X:       int64(b.X),
			Y:       int64(b.Y),
			Width:   maxInt64(int64(b.Width), 1),
			Height:  maxInt64(int64(b.Height), 1),
		}
		if rn.entry.Pool || rn.entry.Lane {
			h := rn.entry.Horizontal
			shape.Horizontal = &h
		}
		dg.Plane.Shapes = append(dg.Plane.Shapes, shape)
	}

	for _, re := range r.edges {
		points := edgePoints(re, l, boxes)
		if opts.SnapWaypoints {
			snapEndpoints(r, re, points, boxes)
		}
		if opts.RouteMessageFlows && re.kind == bpmn.KindMessageFlow {
			points = routeMessageFlow(points)
		}

		edge := &bpmn.DiEdge{ID: re.src.ID + "_di", Element: re.src.ID}
		for _, p := range points {
			edge.WayPoints = append(edge.WayPoints, bpmn.WayPoint{X: int64(p.X), Y: int64(p.Y)})
		}
		dg.Plane.Edges = append(dg.Plane.Edges, edge)
	}
	return dg
}

// edgePoints rebases an edge's dockers from the frame of its declared
// parent shape. Fewer than two dockers fall back to a straight run
// between the endpoint centers.
func edgePoints(re *resolvedEdge, l *layout, boxes map[string]signavio.Bounds) []signavio.Point {
	if len(re.src.Dockers) >= 2 {
		var base signavio.Point
		if re.src.Parent != nil {
			base = l.origins[re.src.Parent.ID]
		}
		out := make([]signavio.Point, len(re.src.Dockers))
		for i, p := range re.src.Dockers {
			out[i] = signavio.Point{X: base.X + p.X, Y: base.Y + p.Y}
		}
		return out
	}
	return []signavio.Point{boxes[re.source].Center(), boxes[re.target].Center()}
}

// snapEndpoints moves the first and last waypoint onto the border of
// the shape they touch. Pool endpoints keep their dockers, a pool
// border is already where the flow visually lands.
func snapEndpoints(r *resolution, re *resolvedEdge, points []signavio.Point, boxes map[string]signavio.Bounds) {
	if len(points) < 2 {
		return
	}
	src, okSrc := r.lookup(re.source)
	dst, okDst := r.lookup(re.target)
	if !okSrc || !okDst || src.entry.Pool || dst.entry.Pool {
		return
	}
	points[0] = borderPoint(src.src.Stencil, boxes[re.source], points[1])
	points[len(points)-1] = borderPoint(dst.src.Stencil, boxes[re.target], points[len(points)-2])
}

// borderPoint projects the ray from a shape's center toward an outside
// point onto the shape border. Events are circles, gateways diamonds,
// everything else rectangles.
func borderPoint(stencil string, box signavio.Bounds, toward signavio.Point) signavio.Point {
	c := box.Center()
	dx, dy := toward.X-c.X, toward.Y-c.Y
	halfW, halfH := box.Width/2, box.Height/2
	if (dx == 0 && dy == 0) || halfW <= 0 || halfH <= 0 {
		return c
	}

	lower := strings.ToLower(stencil)
	switch {
	case strings.Contains(lower, "event"):
		radius := math.Min(halfW, halfH)
		norm := math.Hypot(dx, dy)
		return signavio.Point{X: c.X + dx/norm*radius, Y: c.Y + dy/norm*radius}
	case strings.Contains(lower, "gateway"):
		t := 1 / (math.Abs(dx)/halfW + math.Abs(dy)/halfH)
		return signavio.Point{X: c.X + dx*t, Y: c.Y + dy*t}
	default:
		t := math.Inf(1)
		if dx != 0 {
			t = halfW / math.Abs(dx)
		}
		if dy != 0 {
			t = math.Min(t, halfH/math.Abs(dy))
		}
		return signavio.Point{X: c.X + dx*t, Y: c.Y + dy*t}
	}
}

// routeMessageFlow bends a straight two-point message flow into an
// s-run when the endpoints are far enough apart for the elbows to
// read.
func routeMessageFlow(points []signavio.Point) []signavio.Point {
	if len(points) != 2 {
		return points
	}
	p1, p2 := points[0], points[1]
	dy := p2.Y - p1.Y
	if math.Abs(dy) < 50 || math.Abs(p2.X-p1.X) < 20 {
		return points
	}
	return []signavio.Point{
		p1,
		{X: p1.X, Y: p1.Y + 0.3*dy},
		{X: p2.X, Y: p1.Y + 0.7*dy},
		p2,
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
