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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
	log "github.com/vine-io/vine/lib/logger"

	"github.com/vine-io/sigbpmn/bpmn"
	"github.com/vine-io/sigbpmn/signavio"
)

// Converter translates Signavio JSON exports into BPMN 2.0 XML. A
// Converter is immutable and safe for concurrent use.
type Converter struct {
	opts *Options
}

func New(opts ...Option) (*Converter, error) {
	options := NewOptions(opts...)
	if err := options.Validate(); err != nil {
		return nil, fmt.Errorf("converter options: %w", err)
	}
	return &Converter{opts: options}, nil
}

// Result is the outcome of converting one document.
type Result struct {
	// ID tags the conversion in logs.
	ID string

	// Input and Output are set when the conversion ran against files.
	Input  string
	Output string

	// Kind is the stencil set the source diagram was drawn with.
	Kind string

	// Skipped marks diagrams the converter refused to translate.
	Skipped bool

	XML         []byte
	Diagnostics []Diagnostic
}

// Tally counts diagnostics per category in lexical category order.
func (r *Result) Tally() []CategoryCount {
	var counts btree.Map[string, int]
	for _, d := range r.Diagnostics {
		n, _ := counts.Get(string(d.Category))
		counts.Set(string(d.Category), n+1)
	}
	out := make([]CategoryCount, 0, counts.Len())
	counts.Scan(func(cat string, n int) bool {
		out = append(out, CategoryCount{Category: Category(cat), Count: n})
		return true
	})
	return out
}

// Convert translates one export document held in memory.
func (c *Converter) Convert(data []byte) (*Result, error) {
	d, err := signavio.Parse(data)
	if err != nil {
		return nil, err
	}
	return c.convertDiagram(d)
}

// ConvertReader translates one export document from r.
func (c *Converter) ConvertReader(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return c.Convert(data)
}

// ConvertFile translates the document at src and writes the result to
// dst. An empty dst derives the output path from src and the configured
// suffix. Skipped diagrams write nothing.
func (c *Converter) ConvertFile(src, dst string) (*Result, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	res, err := c.Convert(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}
	res.Input = src
	if res.Skipped {
		return res, nil
	}
	if dst == "" {
		dst = OutputPath(src, c.opts.OutputSuffix)
	}
	if err = os.WriteFile(dst, res.XML, 0o644); err != nil {
		return nil, err
	}
	res.Output = dst
	return res, nil
}

// Convert translates a single document, constructing a throwaway
// converter from the given options.
func Convert(data []byte, opts ...Option) (*Result, error) {
	c, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return c.Convert(data)
}

// OutputPath swaps the extension of an input path for the given
// suffix.
func OutputPath(src, suffix string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + suffix
}

func (c *Converter) convertDiagram(d *signavio.Diagram) (*Result, error) {
	res := &Result{
		ID:   uuid.New().String(),
		Kind: d.Kind.String(),
	}
	if c.opts.SkipNonBPMN && !isBPMN(d.Kind) {
		res.Skipped = true
		log.Debugf("conversion %s: %s diagram skipped", res.ID, res.Kind)
		return res, nil
	}

	col := newCollector(c.opts.Verbose)
	for _, w := range d.Warnings {
		col.report(Category(w.Code), w.ShapeID, w.Stencil, "%s", w.Message)
	}

	r := resolve(d, col)
	defs := c.assemble(r, col)

	xml, err := bpmn.Marshal(defs, c.opts.Indent)
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	res.XML = xml
	res.Diagnostics = col.diagnostics()
	for _, row := range col.rows() {
		log.Debugf("conversion %s: %s x%d", res.ID, row.Category, row.Count)
	}
	return res, nil
}

func isBPMN(k signavio.DiagramKind) bool {
	switch k {
	case signavio.KindBPMN20, signavio.KindBPMN11, signavio.KindChoreography, signavio.KindConversation:
		return true
	default:
		return false
	}
}

// slot addresses one container of the output: a process root or a
// sub-process within it.
type slot struct {
	proc      *procInfo
	container *resolvedNode
}

// assemble builds the document model from a finished resolution.
func (c *Converter) assemble(r *resolution, col *collector) *bpmn.Definitions {
	defs := &bpmn.Definitions{
		ID:              "Definitions_1",
		TargetNamespace: c.opts.TargetNamespace,
		Exporter:        c.opts.Exporter,
		ExporterVersion: c.opts.ExporterVersion,
	}

	for _, m := range r.messages {
		defs.Messages = append(defs.Messages, &bpmn.Message{ID: m.src.ID, Name: m.src.Name()})
	}

	collab := &bpmn.Collaboration{ID: "Collaboration_1"}
	for _, rn := range r.order {
		if rn.dropped || !rn.entry.Pool {
			continue
		}
		part := &bpmn.Participant{ID: rn.src.ID, Name: rn.src.Name()}
		// a collapsed pool is a black box, nothing stands behind it
		if !rn.entry.Collapsed {
			part.ProcessRef = rn.proc.id
		}
		collab.Participants = append(collab.Participants, part)
	}
	for _, rn := range r.participants {
		collab.Participants = append(collab.Participants, &bpmn.Participant{
			ID:   rn.src.ID,
			Name: rn.src.Name(),
		})
	}
	for _, re := range r.edges {
		if re.kind != bpmn.KindMessageFlow && re.kind != bpmn.KindConversationLink {
			continue
		}
		collab.MessageFlows = append(collab.MessageFlows, &bpmn.MessageFlow{
			Kind:      re.kind,
			ID:        re.src.ID,
			Name:      re.src.Name(),
			SourceRef: re.source,
			TargetRef: re.target,
		})
	}
	if len(collab.Participants) > 0 || len(collab.MessageFlows) > 0 {
		defs.Collaboration = collab
	}

	nodesIn := map[slot][]*resolvedNode{}
	for _, rn := range r.order {
		if rn.dropped || rn.proc == nil || rn.entry.Pool {
			continue
		}
		s := slot{proc: rn.proc, container: rn.container}
		nodesIn[s] = append(nodesIn[s], rn)
	}
	edgesIn := map[slot][]*resolvedEdge{}
	for _, re := range r.edges {
		if re.proc == nil {
			continue
		}
		s := slot{proc: re.proc, container: re.container}
		edgesIn[s] = append(edgesIn[s], re)
	}

	var fill func(box *bpmn.Container, s slot)
	fill = func(box *bpmn.Container, s slot) {
		for _, rn := range nodesIn[s] {
			switch bpmn.CategoryOf(rn.kind) {
			case bpmn.CategoryLane:
				// lanes render inside the laneSet
			case bpmn.CategoryArtifact:
				box.Artifacts = append(box.Artifacts, artifactOf(rn))
			default:
				fn := flowNodeOf(rn)
				if rn.kind == bpmn.KindSubProcess {
					fn.Content = &bpmn.Container{}
					fill(fn.Content, slot{proc: s.proc, container: rn})
				}
				box.Nodes = append(box.Nodes, fn)
			}
		}
		for _, re := range edgesIn[s] {
			switch re.kind {
			case bpmn.KindSequenceFlow:
				box.Flows = append(box.Flows, &bpmn.SequenceFlow{
					ID:        re.src.ID,
					Name:      re.src.Name(),
					SourceRef: re.source,
					TargetRef: re.target,
					Condition: re.condition,
				})
			case bpmn.KindAssociation:
				box.Associations = append(box.Associations, &bpmn.Association{
					ID:        re.src.ID,
					SourceRef: re.source,
					TargetRef: re.target,
					Direction: re.direction,
				})
			}
		}
	}

	for _, proc := range r.processes {
		if proc.external {
			continue
		}
		p := &bpmn.Process{ID: proc.id}
		if len(proc.lanes) > 0 {
			ls := &bpmn.LaneSet{ID: "LaneSet_" + proc.id}
			for _, lane := range proc.lanes {
				bl := &bpmn.Lane{ID: lane.src.ID, Name: lane.src.Name()}
				for _, child := range lane.src.Children {
					rn, ok := r.lookup(child.ID)
					if !ok || bpmn.CategoryOf(rn.kind) != bpmn.CategoryFlowNode {
						continue
					}
					bl.FlowNodeRefs = append(bl.FlowNodeRefs, child.ID)
				}
				ls.Lanes = append(ls.Lanes, bl)
			}
			p.LaneSet = ls
		}
		fill(&p.Container, slot{proc: proc})
		defs.Processes = append(defs.Processes, p)
	}

	defs.Diagram = diagramSection(r, buildLayout(r.diagram), c.opts, col)
	return defs
}

func flowNodeOf(rn *resolvedNode) *bpmn.FlowNode {
	return &bpmn.FlowNode{
		Kind:             rn.kind,
		ID:               rn.src.ID,
		Name:             rn.src.Name(),
		Incoming:         rn.incoming,
		Outgoing:         rn.outgoing,
		EventDefs:        rn.defs,
		TriggeredByEvent: rn.entry.TriggeredByEvent,
		ParallelMultiple: rn.parallel,
		AttachedToRef:    rn.attachedTo,
		CancelActivity:   rn.cancel,
	}
}

func artifactOf(rn *resolvedNode) *bpmn.Artifact {
	a := &bpmn.Artifact{Kind: rn.kind, ID: rn.src.ID}
	if rn.kind == bpmn.KindTextAnnotation {
		a.Text = rn.src.Name()
		if a.Text == "" {
			a.Text = rn.src.Prop("text")
		}
	}
	return a
}
