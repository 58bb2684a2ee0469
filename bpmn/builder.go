package bpmn

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// Namespaces of a BPMN 2.0 interchange document.
const (
	NSBPMN   = "http://www.omg.org/spec/BPMN/20100524/MODEL"
	NSBPMNDI = "http://www.omg.org/spec/BPMN/20100524/DI"
	NSDC     = "http://www.omg.org/spec/DD/20100524/DC"
	NSDI     = "http://www.omg.org/spec/DD/20100524/DI"
	NSXSI    = "http://www.w3.org/2001/XMLSchema-instance"
)

// formalExpression is the xsi:type of expression bodies.
const formalExpression = "bpmn:tFormalExpression"

// Build renders the document model into an etree document. The element
// order inside every container follows the schema content model, so the
// output validates without post-processing.
func Build(d *Definitions) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("bpmn:definitions")
	root.CreateAttr("xmlns:bpmn", NSBPMN)
	root.CreateAttr("xmlns:bpmndi", NSBPMNDI)
	root.CreateAttr("xmlns:dc", NSDC)
	root.CreateAttr("xmlns:di", NSDI)
	root.CreateAttr("xmlns:xsi", NSXSI)
	root.CreateAttr("id", d.ID)
	root.CreateAttr("targetNamespace", d.TargetNamespace)
	if d.Exporter != "" {
		root.CreateAttr("exporter", d.Exporter)
	}
	if d.ExporterVersion != "" {
		root.CreateAttr("exporterVersion", d.ExporterVersion)
	}

	for _, m := range d.Messages {
		el := root.CreateElement("bpmn:message")
		el.CreateAttr("id", m.ID)
		if m.Name != "" {
			el.CreateAttr("name", m.Name)
		}
	}

	if d.Collaboration != nil {
		buildCollaboration(root, d.Collaboration)
	}

	for _, p := range d.Processes {
		buildProcess(root, p)
	}

	if d.Diagram != nil {
		buildDiagram(root, d.Diagram)
	}
	return doc
}

// Marshal builds and serializes the document. indent <= 0 keeps the
// output on one line.
func Marshal(d *Definitions, indent int) ([]byte, error) {
	doc := Build(d)
	if indent > 0 {
		doc.Indent(indent)
	}
	return doc.WriteToBytes()
}

func buildCollaboration(root *etree.Element, c *Collaboration) {
	el := root.CreateElement("bpmn:collaboration")
	el.CreateAttr("id", c.ID)
	for _, p := range c.Participants {
		pe := el.CreateElement("bpmn:participant")
		pe.CreateAttr("id", p.ID)
		if p.Name != "" {
			pe.CreateAttr("name", p.Name)
		}
		if p.ProcessRef != "" {
			pe.CreateAttr("processRef", p.ProcessRef)
		}
	}
	for _, f := range c.MessageFlows {
		kind := f.Kind
		if kind == "" {
			kind = KindMessageFlow
		}
		fe := el.CreateElement("bpmn:" + string(kind))
		fe.CreateAttr("id", f.ID)
		if f.Name != "" {
			fe.CreateAttr("name", f.Name)
		}
		fe.CreateAttr("sourceRef", f.SourceRef)
		fe.CreateAttr("targetRef", f.TargetRef)
	}
}

func buildProcess(root *etree.Element, p *Process) {
	el := root.CreateElement("bpmn:process")
	el.CreateAttr("id", p.ID)
	el.CreateAttr("isExecutable", "false")

	if p.LaneSet != nil && len(p.LaneSet.Lanes) > 0 {
		ls := el.CreateElement("bpmn:laneSet")
		ls.CreateAttr("id", p.LaneSet.ID)
		for _, lane := range p.LaneSet.Lanes {
			le := ls.CreateElement("bpmn:lane")
			le.CreateAttr("id", lane.ID)
			if lane.Name != "" {
				le.CreateAttr("name", lane.Name)
			}
			for _, ref := range lane.FlowNodeRefs {
				le.CreateElement("bpmn:flowNodeRef").SetText(ref)
			}
		}
	}

	buildContainer(el, &p.Container)
}

func buildContainer(el *etree.Element, c *Container) {
	for _, n := range c.Nodes {
		buildFlowNode(el, n)
	}
	for _, f := range c.Flows {
		buildSequenceFlow(el, f)
	}
	for _, a := range c.Artifacts {
		buildArtifact(el, a)
	}
	for _, a := range c.Associations {
		ae := el.CreateElement("bpmn:association")
		ae.CreateAttr("id", a.ID)
		ae.CreateAttr("sourceRef", a.SourceRef)
		ae.CreateAttr("targetRef", a.TargetRef)
		if a.Direction != "" {
			ae.CreateAttr("associationDirection", a.Direction)
		}
	}
}

func buildFlowNode(parent *etree.Element, n *FlowNode) {
	el := parent.CreateElement("bpmn:" + string(n.Kind))
	el.CreateAttr("id", n.ID)
	if n.Name != "" {
		el.CreateAttr("name", n.Name)
	}
	if n.TriggeredByEvent {
		el.CreateAttr("triggeredByEvent", "true")
	}
	if n.ParallelMultiple {
		el.CreateAttr("parallelMultiple", "true")
	}
	if n.AttachedToRef != "" {
		el.CreateAttr("attachedToRef", n.AttachedToRef)
	}
	if n.CancelActivity != nil && !*n.CancelActivity {
		el.CreateAttr("cancelActivity", "false")
	}

	if !IsDataElement(n.Kind) {
		for _, in := range n.Incoming {
			el.CreateElement("bpmn:incoming").SetText(in)
		}
		for _, out := range n.Outgoing {
			el.CreateElement("bpmn:outgoing").SetText(out)
		}
	}

	buildEventDefs(el, n)

	if n.Content != nil {
		buildContainer(el, n.Content)
	}
}

func buildEventDefs(el *etree.Element, n *FlowNode) {
	for i, def := range n.EventDefs {
		de := el.CreateElement("bpmn:" + string(def.Kind))
		id := def.ID
		if id == "" {
			if len(n.EventDefs) == 1 {
				id = n.ID + "_def"
			} else {
				id = fmt.Sprintf("%s_def_%d", n.ID, i+1)
			}
		}
		de.CreateAttr("id", id)
		switch def.Kind {
		case DefConditional:
			ce := de.CreateElement("bpmn:condition")
			ce.CreateAttr("xsi:type", formalExpression)
			if def.Condition != "" {
				ce.SetText(def.Condition)
			}
		case DefLink:
			if def.Name != "" {
				de.CreateAttr("name", def.Name)
			}
		}
	}
}

func buildSequenceFlow(parent *etree.Element, f *SequenceFlow) {
	el := parent.CreateElement("bpmn:sequenceFlow")
	el.CreateAttr("id", f.ID)
	if f.Name != "" {
		el.CreateAttr("name", f.Name)
	}
	el.CreateAttr("sourceRef", f.SourceRef)
	el.CreateAttr("targetRef", f.TargetRef)
	if f.Condition != "" {
		ce := el.CreateElement("bpmn:conditionExpression")
		ce.CreateAttr("xsi:type", formalExpression)
		ce.SetText(f.Condition)
	}
}

func buildArtifact(parent *etree.Element, a *Artifact) {
	el := parent.CreateElement("bpmn:" + string(a.Kind))
	el.CreateAttr("id", a.ID)
	if a.Kind == KindTextAnnotation && a.Text != "" {
		el.CreateElement("bpmn:text").SetText(a.Text)
	}
}

func buildDiagram(root *etree.Element, dg *Diagram) {
	el := root.CreateElement("bpmndi:BPMNDiagram")
	el.CreateAttr("id", dg.ID)

	plane := el.CreateElement("bpmndi:BPMNPlane")
	plane.CreateAttr("id", dg.Plane.ID)
	plane.CreateAttr("bpmnElement", dg.Plane.Element)

	for _, s := range dg.Plane.Shapes {
		se := plane.CreateElement("bpmndi:BPMNShape")
		se.CreateAttr("id", s.ID)
		se.CreateAttr("bpmnElement", s.Element)
		if s.Horizontal != nil {
			se.CreateAttr("isHorizontal", strconv.FormatBool(*s.Horizontal))
		}
		be := se.CreateElement("dc:Bounds")
		be.CreateAttr("x", strconv.FormatInt(s.X, 10))
		be.CreateAttr("y", strconv.FormatInt(s.Y, 10))
		be.CreateAttr("width", strconv.FormatInt(s.Width, 10))
		be.CreateAttr("height", strconv.FormatInt(s.Height, 10))
	}
	for _, e := range dg.Plane.Edges {
		ee := plane.CreateElement("bpmndi:BPMNEdge")
		ee.CreateAttr("id", e.ID)
		ee.CreateAttr("bpmnElement", e.Element)
		for _, p := range e.WayPoints {
			we := ee.CreateElement("di:waypoint")
			we.CreateAttr("x", strconv.FormatInt(p.X, 10))
			we.CreateAttr("y", strconv.FormatInt(p.Y, 10))
		}
	}
}
