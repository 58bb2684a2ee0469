package bpmn

// Definitions is the document model the builder serializes. It carries
// exactly what the output needs, already resolved and ordered, so the
// builder never has to look anything up.
type Definitions struct {
	ID              string
	TargetNamespace string
	Exporter        string
	ExporterVersion string

	// Messages are root elements, emitted before the collaboration so
	// message shapes stay referenceable from any process.
	Messages []*Message

	// Collaboration is nil when the model has no pools and no message
	// flows.
	Collaboration *Collaboration

	Processes []*Process

	Diagram *Diagram
}

type Message struct {
	ID   string
	Name string
}

type Collaboration struct {
	ID           string
	Participants []*Participant
	MessageFlows []*MessageFlow
}

type Participant struct {
	ID   string
	Name string
	// ProcessRef is empty for participants that reference no process,
	// such as black-box pools and choreography participants.
	ProcessRef string
}

// Process is one executable-shaped process. Its direct content lives in
// the embedded Container; nested sub-processes carry their own.
type Process struct {
	ID      string
	LaneSet *LaneSet
	Container
}

// Container holds the ordered content of a process or sub-process. The
// builder emits the slices in order: nodes, then sequence flows, then
// artifacts, then associations.
type Container struct {
	Nodes        []*FlowNode
	Flows        []*SequenceFlow
	Artifacts    []*Artifact
	Associations []*Association
}

// Empty reports whether the container has no content at all.
func (c *Container) Empty() bool {
	return len(c.Nodes) == 0 && len(c.Flows) == 0 &&
		len(c.Artifacts) == 0 && len(c.Associations) == 0
}

type LaneSet struct {
	ID    string
	Lanes []*Lane
}

type Lane struct {
	ID           string
	Name         string
	FlowNodeRefs []string
}

// FlowNode is any node emitted inside a process: activities, gateways,
// events and data references.
type FlowNode struct {
	Kind Kind
	ID   string
	Name string

	Incoming []string
	Outgoing []string

	EventDefs []*EventDefinition

	// TriggeredByEvent marks event sub-processes.
	TriggeredByEvent bool

	// ParallelMultiple marks events waiting on all of their triggers.
	ParallelMultiple bool

	// AttachedToRef and CancelActivity apply to boundary events only.
	// CancelActivity is emitted only when explicitly false; nil keeps
	// the schema default of true off the wire.
	AttachedToRef  string
	CancelActivity *bool

	// Content holds the children of an expanded sub-process.
	Content *Container
}

// EventDefinition is one trigger of an event node. When ID is empty the
// builder derives it from the owning event's id.
type EventDefinition struct {
	Kind EventDefKind
	ID   string

	// Condition is the expression of a conditional definition.
	Condition string

	// Name is the link name of a link definition.
	Name string
}

type SequenceFlow struct {
	ID        string
	Name      string
	SourceRef string
	TargetRef string

	// Condition becomes a conditionExpression child when set.
	Condition string
}

// MessageFlow covers both message flows and conversation links; Kind
// selects the element name.
type MessageFlow struct {
	Kind      Kind
	ID        string
	Name      string
	SourceRef string
	TargetRef string
}

type Association struct {
	ID        string
	SourceRef string
	TargetRef string

	// Direction is One, Both or empty for undirected.
	Direction string
}

// Artifact is a text annotation or a group.
type Artifact struct {
	Kind Kind
	ID   string

	// Text is the body of a text annotation.
	Text string
}

// Diagram is the BPMNDI section: one plane, flat lists of shapes and
// edges in model order.
type Diagram struct {
	ID    string
	Plane Plane
}

type Plane struct {
	ID      string
	Element string
	Shapes  []*DiShape
	Edges   []*DiEdge
}

// DiShape places one element on the plane. Coordinates are truncated to
// whole pixels; Width and Height are at least 1.
type DiShape struct {
	ID      string
	Element string
	X       int64
	Y       int64
	Width   int64
	Height  int64

	// Horizontal is set on pool and lane shapes only.
	Horizontal *bool
}

type DiEdge struct {
	ID        string
	Element   string
	WayPoints []WayPoint
}

type WayPoint struct {
	X int64
	Y int64
}
