package sigbpmn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/sigbpmn/signavio"
)

// layoutExport nests a task two levels deep, with the middle frame
// drawn in a stencil the converter does not know.
const layoutExport = `{
  "resourceId": "c",
  "stencilset": {"namespace": "http://b3mn.org/stencilset/bpmn2.0#"},
  "childShapes": [
    {
      "resourceId": "outer",
      "stencil": {"id": "Pool"},
      "properties": {},
      "bounds": {"upperLeft": {"x": 10, "y": 20}, "lowerRight": {"x": 400, "y": 300}},
      "childShapes": [
        {
          "resourceId": "mid",
          "stencil": {"id": "UMLFrame"},
          "properties": {},
          "bounds": {"upperLeft": {"x": 5, "y": 10}, "lowerRight": {"x": 350, "y": 250}},
          "childShapes": [
            {
              "resourceId": "leaf",
              "stencil": {"id": "Task"},
              "properties": {},
              "bounds": {"upperLeft": {"x": 30, "y": 40}, "lowerRight": {"x": 130, "y": 120}},
              "childShapes": []
            }
          ]
        },
        {"resourceId": "boxless", "stencil": {"id": "Task"}, "properties": {}, "childShapes": []}
      ]
    },
    {
      "resourceId": "neg",
      "stencil": {"id": "Task"},
      "properties": {},
      "bounds": {"upperLeft": {"x": -30, "y": -10}, "lowerRight": {"x": 70, "y": 70}},
      "childShapes": []
    }
  ]
}`

const dockerExport = `{
  "resourceId": "c",
  "stencilset": {"namespace": "http://b3mn.org/stencilset/bpmn2.0#"},
  "childShapes": [
    {
      "resourceId": "pool1",
      "stencil": {"id": "Pool"},
      "properties": {},
      "bounds": {"upperLeft": {"x": 100, "y": 50}, "lowerRight": {"x": 500, "y": 250}},
      "childShapes": [
        {
          "resourceId": "a",
          "stencil": {"id": "Task"},
          "properties": {},
          "bounds": {"upperLeft": {"x": 20, "y": 20}, "lowerRight": {"x": 120, "y": 100}},
          "outgoing": [{"resourceId": "f"}],
          "childShapes": []
        },
        {
          "resourceId": "b",
          "stencil": {"id": "Task"},
          "properties": {},
          "bounds": {"upperLeft": {"x": 200, "y": 20}, "lowerRight": {"x": 300, "y": 100}},
          "childShapes": []
        },
        {
          "resourceId": "f",
          "stencil": {"id": "SequenceFlow"},
          "properties": {},
          "target": {"resourceId": "b"},
          "dockers": [{"x": 50, "y": 60}, {"x": 160, "y": 140}, {"x": 250, "y": 60}],
          "childShapes": []
        }
      ]
    }
  ]
}`

func TestBuildLayout(t *testing.T) {
	d, err := signavio.Parse([]byte(layoutExport))
	assert.NoError(t, err)
	l := buildLayout(d)
	col := newCollector(false)

	// the unmapped frame still shifts its children
	leaf, ok := d.Node("leaf")
	assert.True(t, ok)
	b := l.absBounds(leaf, col)
	assert.Equal(t, signavio.Bounds{X: 45, Y: 70, Width: 100, Height: 80}, b)
	assert.Empty(t, col.diagnostics())
}

func TestAbsBoundsMissing(t *testing.T) {
	d, err := signavio.Parse([]byte(layoutExport))
	assert.NoError(t, err)
	l := buildLayout(d)
	col := newCollector(false)

	boxless, _ := d.Node("boxless")
	b := l.absBounds(boxless, col)
	assert.Equal(t, signavio.Bounds{X: 10, Y: 20}, b)
	assert.Equal(t, []CategoryCount{{Category: InvalidBounds, Count: 1}}, col.rows())
}

func TestAbsBoundsNegativeClamped(t *testing.T) {
	d, err := signavio.Parse([]byte(layoutExport))
	assert.NoError(t, err)
	l := buildLayout(d)
	col := newCollector(false)

	neg, _ := d.Node("neg")
	b := l.absBounds(neg, col)
	assert.Equal(t, signavio.Bounds{X: 0, Y: 0, Width: 100, Height: 80}, b)
	assert.Equal(t, []CategoryCount{{Category: InvalidBounds, Count: 1}}, col.rows())
}

func TestEdgePointsDockers(t *testing.T) {
	r, col := testResolution(t, dockerExport)
	assert.Len(t, r.edges, 1)

	l := buildLayout(r.diagram)
	boxes := map[string]signavio.Bounds{}
	for _, rn := range r.order {
		boxes[rn.src.ID] = l.absBounds(rn.src, col)
	}

	points := edgePoints(r.edges[0], l, boxes)
	assert.Equal(t, []signavio.Point{{X: 150, Y: 110}, {X: 260, Y: 190}, {X: 350, Y: 110}}, points)
}

func TestSnapEndpoints(t *testing.T) {
	r, col := testResolution(t, dockerExport)
	l := buildLayout(r.diagram)
	boxes := map[string]signavio.Bounds{}
	for _, rn := range r.order {
		boxes[rn.src.ID] = l.absBounds(rn.src, col)
	}

	points := edgePoints(r.edges[0], l, boxes)
	snapEndpoints(r, r.edges[0], points, boxes)

	assert.InDelta(t, 215, points[0].X, 1e-9)
	assert.InDelta(t, 150, points[0].Y, 1e-9)
	assert.Equal(t, signavio.Point{X: 260, Y: 190}, points[1])
	assert.InDelta(t, 305, points[2].X, 1e-9)
	assert.InDelta(t, 150, points[2].Y, 1e-9)
}

func TestBorderPointCircle(t *testing.T) {
	box := signavio.Bounds{X: 0, Y: 0, Width: 40, Height: 40}

	p := borderPoint("StartNoneEvent", box, signavio.Point{X: 100, Y: 20})
	assert.InDelta(t, 40, p.X, 1e-9)
	assert.InDelta(t, 20, p.Y, 1e-9)

	p = borderPoint("EndNoneEvent", box, signavio.Point{X: 60, Y: 60})
	assert.InDelta(t, 34.142135, p.X, 1e-5)
	assert.InDelta(t, 34.142135, p.Y, 1e-5)
}

func TestBorderPointDiamond(t *testing.T) {
	box := signavio.Bounds{X: 0, Y: 0, Width: 40, Height: 40}

	p := borderPoint("ParallelGateway", box, signavio.Point{X: 100, Y: 20})
	assert.InDelta(t, 40, p.X, 1e-9)
	assert.InDelta(t, 20, p.Y, 1e-9)

	p = borderPoint("Exclusive_Databased_Gateway", box, signavio.Point{X: 40, Y: 40})
	assert.InDelta(t, 30, p.X, 1e-9)
	assert.InDelta(t, 30, p.Y, 1e-9)
}

func TestBorderPointRectangle(t *testing.T) {
	box := signavio.Bounds{X: 0, Y: 0, Width: 100, Height: 60}

	p := borderPoint("Task", box, signavio.Point{X: 200, Y: 50})
	assert.InDelta(t, 100, p.X, 1e-9)
	assert.InDelta(t, 36.666666, p.Y, 1e-5)

	// straight down hits the bottom edge
	p = borderPoint("Subprocess", box, signavio.Point{X: 50, Y: 200})
	assert.InDelta(t, 50, p.X, 1e-9)
	assert.InDelta(t, 60, p.Y, 1e-9)
}

func TestBorderPointDegenerate(t *testing.T) {
	box := signavio.Bounds{X: 0, Y: 0, Width: 100, Height: 60}

	// target on the center has no direction to project along
	p := borderPoint("Task", box, signavio.Point{X: 50, Y: 30})
	assert.Equal(t, signavio.Point{X: 50, Y: 30}, p)

	flat := signavio.Bounds{X: 0, Y: 0, Width: 0, Height: 0}
	p = borderPoint("Task", flat, signavio.Point{X: 10, Y: 10})
	assert.Equal(t, signavio.Point{X: 0, Y: 0}, p)
}

func TestRouteMessageFlow(t *testing.T) {
	routed := routeMessageFlow([]signavio.Point{{X: 0, Y: 0}, {X: 100, Y: 100}})
	assert.Equal(t, []signavio.Point{
		{X: 0, Y: 0},
		{X: 0, Y: 30},
		{X: 100, Y: 70},
		{X: 100, Y: 100},
	}, routed)

	// upward flows bend the same way
	routed = routeMessageFlow([]signavio.Point{{X: 0, Y: 100}, {X: 100, Y: 0}})
	assert.Equal(t, []signavio.Point{
		{X: 0, Y: 100},
		{X: 0, Y: 70},
		{X: 100, Y: 30},
		{X: 100, Y: 0},
	}, routed)
}

func TestRouteMessageFlowKeepsShortRuns(t *testing.T) {
	flat := []signavio.Point{{X: 0, Y: 0}, {X: 100, Y: 40}}
	assert.Equal(t, flat, routeMessageFlow(flat))

	narrow := []signavio.Point{{X: 0, Y: 0}, {X: 10, Y: 100}}
	assert.Equal(t, narrow, routeMessageFlow(narrow))

	dockered := []signavio.Point{{X: 0, Y: 0}, {X: 50, Y: 50}, {X: 100, Y: 100}}
	assert.Equal(t, dockered, routeMessageFlow(dockered))
}
