package signavio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const exportFixture = `{
  "resourceId": "canvas",
  "properties": {"name": "Order handling"},
  "stencilset": {"namespace": "http://b3mn.org/stencilset/bpmn2.0#"},
  "stencil": {"id": "BPMNDiagram"},
  "childShapes": [
    {
      "resourceId": "pool1",
      "stencil": {"id": "Pool"},
      "properties": {"name": "Customer"},
      "bounds": {"upperLeft": {"x": 10, "y": 20}, "lowerRight": {"x": 610, "y": 270}},
      "outgoing": [],
      "childShapes": [
        {
          "resourceId": "7task",
          "stencil": {"id": "Task"},
          "properties": {"name": "Review"},
          "bounds": {"upperLeft": {"x": 30, "y": 40}, "lowerRight": {"x": 130, "y": 120}},
          "outgoing": [{"resourceId": "flow1"}],
          "childShapes": []
        },
        {
          "resourceId": "end1",
          "stencil": {"id": "EndNoneEvent"},
          "bounds": {"upperLeft": {"x": 200, "y": 60}, "lowerRight": {"x": 228, "y": 88}},
          "childShapes": []
        },
        {
          "resourceId": "flow1",
          "stencil": {"id": "SequenceFlow"},
          "dockers": [{"x": 50, "y": 40}, {"x": 214, "y": 74}],
          "outgoing": [{"resourceId": "end1"}],
          "target": {"resourceId": "end1"},
          "childShapes": []
        }
      ]
    }
  ]
}`

func TestParseExport(t *testing.T) {
	d, err := Parse([]byte(exportFixture))
	assert.NoError(t, err)
	assert.Equal(t, "Order handling", d.Name())
	assert.Equal(t, KindBPMN20, d.Kind)
	assert.Len(t, d.Nodes, 3)
	assert.Len(t, d.Edges, 1)
	assert.Empty(t, d.Warnings)

	pool, ok := d.Node("pool1")
	assert.True(t, ok)
	assert.Equal(t, "Pool", pool.Stencil)
	assert.Len(t, pool.Children, 2)
	assert.Equal(t, 600.0, pool.Bounds.Width)
	assert.Equal(t, 250.0, pool.Bounds.Height)

	task, ok := d.Node("id_7task")
	assert.True(t, ok)
	assert.Equal(t, "Review", task.Name())
	assert.Equal(t, pool, task.Parent)
	assert.Equal(t, []string{"flow1"}, task.Outgoing)

	edge := d.Edges[0]
	assert.Equal(t, "flow1", edge.ID)
	assert.Equal(t, "end1", edge.Target)
	assert.Equal(t, pool, edge.Parent)
	assert.Len(t, edge.Dockers, 2)
	assert.Equal(t, Point{X: 50, Y: 40}, edge.Dockers[0])
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("not json"))
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestParseRequiresChildShapes(t *testing.T) {
	_, err := Parse([]byte(`{"resourceId": "canvas"}`))
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
	assert.Contains(t, err.Error(), "childShapes")
}

func TestParseWarnsAndSkips(t *testing.T) {
	doc := `{
	  "resourceId": "canvas",
	  "stencilset": {"namespace": "http://b3mn.org/stencilset/bpmn2.0#"},
	  "childShapes": [
	    {"resourceId": "a1", "stencil": {"id": "Task"}, "childShapes": []},
	    {"resourceId": "a1", "stencil": {"id": "Task"}, "childShapes": [
	      {"resourceId": "nested", "stencil": {"id": "Task"}, "childShapes": []}
	    ]},
	    {"resourceId": "a2", "childShapes": []},
	    {"stencil": {"id": "Task"}, "childShapes": []}
	  ]
	}`
	d, err := Parse([]byte(doc))
	assert.NoError(t, err)
	assert.Len(t, d.Nodes, 1)

	var codes []string
	for _, w := range d.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []string{WarnDuplicateID, WarnMissingStencil, WarnMissingID}, codes)

	_, ok := d.Node("nested")
	assert.False(t, ok, "children of a skipped shape must be skipped too")
}

func TestParseDuplicateEdgeIDs(t *testing.T) {
	doc := `{
	  "resourceId": "canvas",
	  "stencilset": {"namespace": "http://b3mn.org/stencilset/bpmn2.0#"},
	  "childShapes": [
	    {"resourceId": "a", "stencil": {"id": "Task"}, "childShapes": []},
	    {"resourceId": "f", "stencil": {"id": "SequenceFlow"}, "target": {"resourceId": "a"}, "childShapes": []},
	    {"resourceId": "f", "stencil": {"id": "SequenceFlow"}, "target": {"resourceId": "a"}, "childShapes": []},
	    {"resourceId": "a", "stencil": {"id": "MessageFlow"}, "target": {"resourceId": "f"}, "childShapes": []}
	  ]
	}`
	d, err := Parse([]byte(doc))
	assert.NoError(t, err)
	assert.Len(t, d.Nodes, 1)
	assert.Len(t, d.Edges, 1)

	var codes []string
	for _, w := range d.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []string{WarnDuplicateID, WarnDuplicateID}, codes,
		"an edge reusing any earlier shape id must be skipped")
}

func TestParseReader(t *testing.T) {
	d, err := ParseReader(strings.NewReader(exportFixture))
	assert.NoError(t, err)
	assert.Equal(t, KindBPMN20, d.Kind)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	assert.NoError(t, os.WriteFile(path, []byte(exportFixture), 0o644))

	d, err := ParseFile(path)
	assert.NoError(t, err)
	assert.Len(t, d.Nodes, 3)

	_, err = ParseFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, KindBPMN20, DetectKind("http://b3mn.org/stencilset/bpmn2.0#"))
	assert.Equal(t, KindConversation, DetectKind("http://b3mn.org/stencilset/bpmn2.0conversation#"))
	assert.Equal(t, KindChoreography, DetectKind("http://b3mn.org/stencilset/bpmn2.0choreography#"))
	assert.Equal(t, KindBPMN11, DetectKind("http://b3mn.org/stencilset/bpmn1.1#"))
	assert.Equal(t, KindBPMN20, DetectKind("http://b3mn.org/stencilset/bpmn#"))
	assert.Equal(t, KindOrgChart, DetectKind("http://b3mn.org/stencilset/organigram#"))
	assert.Equal(t, KindEPC, DetectKind("http://b3mn.org/stencilset/epc#"))
	assert.Equal(t, KindUnknown, DetectKind(""))
	assert.Equal(t, KindOther, DetectKind("http://example.com/custom#"))
}

func TestSanitizeID(t *testing.T) {
	assert.Equal(t, "id_42abc", SanitizeID("42abc"))
	assert.Equal(t, "sid-1", SanitizeID("sid-1"))
	assert.Equal(t, "", SanitizeID(""))
}

func TestNodeProp(t *testing.T) {
	n := &Node{Properties: map[string]interface{}{
		"flag":  true,
		"count": 3.0,
		"name":  "x",
		"list":  []interface{}{},
	}}
	assert.Equal(t, "true", n.Prop("flag"))
	assert.Equal(t, "3", n.Prop("count"))
	assert.Equal(t, "x", n.Prop("name"))
	assert.Equal(t, "", n.Prop("list"))
	assert.Equal(t, "", n.Prop("missing"))
}
