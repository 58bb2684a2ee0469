package signavio

import (
	"strconv"
	"strings"

	"github.com/tidwall/btree"
)

// Point is a coordinate in the frame of its enclosing shape.
type Point struct {
	X float64
	Y float64
}

// Bounds is a shape's box relative to its immediate container.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Node is one non-connector shape of the export. Bounds are relative to
// the parent node, or to the canvas when Parent is nil.
type Node struct {
	ID         string
	Stencil    string
	Properties map[string]interface{}
	Bounds     *Bounds
	Parent     *Node
	Children   []*Node
	Outgoing   []string
}

func (n *Node) Prop(key string) string {
	return propString(n.Properties, key)
}

func (n *Node) Name() string {
	return n.Prop("name")
}

// Edge is a connector shape. Dockers are waypoints relative to the frame
// of the declared parent node.
type Edge struct {
	ID         string
	Stencil    string
	Properties map[string]interface{}
	Parent     *Node
	Target     string
	Outgoing   []string
	Dockers    []Point
}

func (e *Edge) Prop(key string) string {
	return propString(e.Properties, key)
}

func (e *Edge) Name() string {
	return e.Prop("name")
}

func propString(props map[string]interface{}, key string) string {
	if props == nil {
		return ""
	}
	switch v := props[key].(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// Warning records a shape the loader had to skip.
type Warning struct {
	Code    string
	ShapeID string
	Stencil string
	Message string
}

const (
	WarnDuplicateID    = "duplicate-id"
	WarnMissingID      = "missing-id"
	WarnMissingStencil = "missing-stencil"
)

// Diagram is one parsed export document. Nodes and Edges keep discovery
// order; parent links on nodes form the containment tree.
type Diagram struct {
	ResourceID string
	Properties map[string]interface{}
	Namespace  string
	Kind       DiagramKind
	Nodes      []*Node
	Edges      []*Edge
	Warnings   []Warning

	index btree.Map[string, *Node]
	seen  btree.Set[string]
}

func (d *Diagram) Node(id string) (*Node, bool) {
	return d.index.Get(id)
}

func (d *Diagram) Name() string {
	return propString(d.Properties, "name")
}

// DiagramKind classifies the stencil set a diagram was drawn with.
type DiagramKind int32

const (
	KindUnknown DiagramKind = iota
	KindBPMN20
	KindBPMN11
	KindChoreography
	KindConversation
	KindDMN
	KindEPC
	KindValueChain
	KindOrgChart
	KindJourneyMap
	KindXForms
	KindOther
)

func (k DiagramKind) String() string {
	switch k {
	case KindBPMN20:
		return "bpmn2.0"
	case KindBPMN11:
		return "bpmn1.1"
	case KindChoreography:
		return "bpmn2.0choreography"
	case KindConversation:
		return "bpmn2.0conversation"
	case KindDMN:
		return "dmn"
	case KindEPC:
		return "epc"
	case KindValueChain:
		return "valuechain"
	case KindOrgChart:
		return "orgchart"
	case KindJourneyMap:
		return "journeymap"
	case KindXForms:
		return "xforms"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// DetectKind maps a stencil-set namespace to a DiagramKind. Conversation
// and choreography carry the bpmn2.0 prefix, so they are matched first.
func DetectKind(namespace string) DiagramKind {
	ns := strings.ToLower(namespace)
	switch {
	case ns == "":
		return KindUnknown
	case strings.Contains(ns, "bpmn2.0conv"):
		return KindConversation
	case strings.Contains(ns, "bpmn2.0chor"):
		return KindChoreography
	case strings.Contains(ns, "bpmn1.1"):
		return KindBPMN11
	case strings.Contains(ns, "bpmn"):
		return KindBPMN20
	case strings.Contains(ns, "dmn"):
		return KindDMN
	case strings.Contains(ns, "epc"):
		return KindEPC
	case strings.Contains(ns, "valuechain"):
		return KindValueChain
	case strings.Contains(ns, "organigram") || strings.Contains(ns, "orgchart"):
		return KindOrgChart
	case strings.Contains(ns, "journey"):
		return KindJourneyMap
	case strings.Contains(ns, "xforms"):
		return KindXForms
	default:
		return KindOther
	}
}

var connectorStencils = map[string]struct{}{
	"SequenceFlow":               {},
	"MessageFlow":                {},
	"Association_Undirected":     {},
	"Association_Unidirectional": {},
	"Association_Bidirectional":  {},
	"ConversationLink":           {},
}

// IsConnector reports whether a stencil draws as an edge rather than a
// node.
func IsConnector(stencil string) bool {
	_, ok := connectorStencils[stencil]
	return ok
}

// SanitizeID makes an exported resource id usable as an XML xs:ID, which
// must not begin with a digit.
func SanitizeID(id string) string {
	if id == "" {
		return ""
	}
	if id[0] >= '0' && id[0] <= '9' {
		return "id_" + id
	}
	return id
}
