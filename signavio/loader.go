package signavio

import (
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"
)

// ParseError marks input that is not a recognizable shape collection.
// Anything the loader can skip shape-by-shape is a Warning instead.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse export: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parse export: %s", e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type rawRef struct {
	ResourceID string `json:"resourceId"`
}

type rawStencil struct {
	ID string `json:"id"`
}

type rawStencilSet struct {
	URL       string `json:"url"`
	Namespace string `json:"namespace"`
}

type rawPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type rawBounds struct {
	UpperLeft  rawPoint `json:"upperLeft"`
	LowerRight rawPoint `json:"lowerRight"`
}

type rawShape struct {
	ResourceID  string                 `json:"resourceId"`
	Stencil     rawStencil             `json:"stencil"`
	Properties  map[string]interface{} `json:"properties"`
	StencilSet  *rawStencilSet         `json:"stencilset"`
	ChildShapes []*rawShape            `json:"childShapes"`
	Outgoing    []rawRef               `json:"outgoing"`
	Bounds      *rawBounds             `json:"bounds"`
	Dockers     []rawPoint             `json:"dockers"`
	Target      *rawRef                `json:"target"`
}

// Parse decodes one export document into a Diagram. The transform is
// pure: no file system or cross-document state is touched.
func Parse(data []byte) (*Diagram, error) {
	var root rawShape
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Reason: "invalid document", Err: err}
	}
	if root.ChildShapes == nil {
		return nil, &ParseError{Reason: "missing childShapes list"}
	}

	d := &Diagram{
		ResourceID: SanitizeID(root.ResourceID),
		Properties: root.Properties,
	}
	if root.StencilSet != nil {
		d.Namespace = root.StencilSet.Namespace
	}
	d.Kind = DetectKind(d.Namespace)

	d.walk(root.ChildShapes, nil)
	return d, nil
}

// ParseReader decodes an export document from r.
func ParseReader(r io.Reader) (*Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Reason: "read input", Err: err}
	}
	return Parse(data)
}

// ParseFile decodes the export document at path.
func ParseFile(path string) (*Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (d *Diagram) walk(shapes []*rawShape, parent *Node) {
	for _, raw := range shapes {
		if raw == nil {
			continue
		}
		stencil := raw.Stencil.ID
		id := SanitizeID(raw.ResourceID)

		if stencil == "" {
			d.warn(WarnMissingStencil, id, "", "shape has no stencil id")
			continue
		}
		if id == "" {
			d.warn(WarnMissingID, "", stencil, "shape has no resource id")
			continue
		}

		if d.seen.Contains(id) {
			d.warn(WarnDuplicateID, id, stencil, "resource id already used, shape ignored")
			continue
		}
		d.seen.Insert(id)

		if IsConnector(stencil) {
			edge := &Edge{
				ID:         id,
				Stencil:    stencil,
				Properties: raw.Properties,
				Parent:     parent,
				Outgoing:   refIDs(raw.Outgoing),
				Dockers:    points(raw.Dockers),
			}
			if raw.Target != nil {
				edge.Target = SanitizeID(raw.Target.ResourceID)
			}
			d.Edges = append(d.Edges, edge)
			continue
		}

		node := &Node{
			ID:         id,
			Stencil:    stencil,
			Properties: raw.Properties,
			Parent:     parent,
			Outgoing:   refIDs(raw.Outgoing),
		}
		if raw.Bounds != nil {
			node.Bounds = &Bounds{
				X:      raw.Bounds.UpperLeft.X,
				Y:      raw.Bounds.UpperLeft.Y,
				Width:  raw.Bounds.LowerRight.X - raw.Bounds.UpperLeft.X,
				Height: raw.Bounds.LowerRight.Y - raw.Bounds.UpperLeft.Y,
			}
		}
		if parent != nil {
			parent.Children = append(parent.Children, node)
		}
		d.Nodes = append(d.Nodes, node)
		d.index.Set(id, node)

		d.walk(raw.ChildShapes, node)
	}
}

func (d *Diagram) warn(code, id, stencil, msg string) {
	d.Warnings = append(d.Warnings, Warning{Code: code, ShapeID: id, Stencil: stencil, Message: msg})
}

func refIDs(refs []rawRef) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.ResourceID != "" {
			out = append(out, SanitizeID(r.ResourceID))
		}
	}
	return out
}

func points(raw []rawPoint) []Point {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Point, len(raw))
	for i, p := range raw {
		out[i] = Point{X: p.X, Y: p.Y}
	}
	return out
}
