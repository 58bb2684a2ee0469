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
	"sort"
	"strings"

	"github.com/vine-io/sigbpmn/bpmn"
	"github.com/vine-io/sigbpmn/signavio"
)

// procInfo is one process of the output: a pool's process, or the
// default process of a pool-less diagram. Pools that declare the same
// processid share one procInfo.
type procInfo struct {
	id   string
	pool *resolvedNode

	// external is true while only collapsed pools declare the process.
	// Black-box participants carry no processRef and emit no process.
	external bool

	lanes []*resolvedNode
}

// resolvedNode is one shape that survived stencil mapping.
type resolvedNode struct {
	src   *signavio.Node
	entry bpmn.MappingEntry
	kind  bpmn.Kind

	defs     []*bpmn.EventDefinition
	parallel bool

	// boundary event wiring, set when an event is drawn on an activity
	attachedTo string
	cancel     *bool

	// proc is the owning process; container the nearest enclosing
	// sub-process within it, nil for the process root.
	proc      *procInfo
	container *resolvedNode

	incoming []string
	outgoing []string

	dropped bool
}

// resolvedEdge is one connector with both endpoints resolved.
type resolvedEdge struct {
	src  *signavio.Edge
	kind bpmn.Kind

	source string
	target string

	condition string
	direction string

	proc      *procInfo
	container *resolvedNode
}

// resolution is the semantic half of a conversion: stencils mapped,
// containment decided, references resolved. Geometry and assembly read
// from it without touching the raw diagram again.
type resolution struct {
	diagram *signavio.Diagram

	nodes map[string]*resolvedNode
	order []*resolvedNode
	edges []*resolvedEdge

	processes []*procInfo
	byProcess map[string]*procInfo

	messages     []*resolvedNode
	participants []*resolvedNode
}

func resolve(d *signavio.Diagram, col *collector) *resolution {
	r := &resolution{
		diagram:   d,
		nodes:     make(map[string]*resolvedNode, len(d.Nodes)),
		byProcess: make(map[string]*procInfo),
	}
	r.mapNodes(d, col)
	r.buildProcesses()
	r.assignContainers(col)
	r.resolveEdges(d, col)
	r.linkFlows()
	return r
}

func (r *resolution) lookup(id string) (*resolvedNode, bool) {
	rn, ok := r.nodes[id]
	if !ok || rn.dropped {
		return nil, false
	}
	return rn, true
}

// mapNodes translates every shape through the stencil table. Nodes come
// in pre-order, so a shape's ancestors are always mapped before it.
func (r *resolution) mapNodes(d *signavio.Diagram, col *collector) {
	for _, node := range d.Nodes {
		if r.underCollapsedPool(node) {
			continue
		}

		entry, ok := bpmn.Lookup(node.Stencil)
		if !ok {
			col.report(UnknownStencil, node.ID, node.Stencil, "no mapping for stencil, shape dropped")
			continue
		}
		if entry.Kind == bpmn.KindDefinitions {
			continue
		}

		rn := &resolvedNode{
			src:      node,
			entry:    entry,
			kind:     entry.Kind,
			parallel: entry.ParallelMultiple,
		}

		switch {
		case entry.Kind == bpmn.KindTask:
			sub := node.Prop("tasktype")
			kind, known := bpmn.TaskKind(sub)
			if !known {
				col.report(UnknownTaskType, node.ID, node.Stencil, "task type %q not recognized, plain task emitted", sub)
				kind = bpmn.KindTask
			}
			rn.kind = kind
		case entry.DeriveDefs:
			rn.defs = deriveEventDefs(node, col)
		case entry.EventDef != "":
			rn.defs = []*bpmn.EventDefinition{eventDef(entry.EventDef, node)}
		}

		// an event drawn on an activity is a boundary event
		if rn.kind == bpmn.KindIntermediateCatchEvent && node.Parent != nil {
			if host, ok := r.nodes[node.Parent.ID]; ok && bpmn.IsActivity(host.kind) {
				rn.kind = bpmn.KindBoundaryEvent
				rn.attachedTo = host.src.ID
				rn.cancel = cancelFlag(node)
			}
		}

		r.nodes[node.ID] = rn
		r.order = append(r.order, rn)
	}
}

// underCollapsedPool reports whether any ancestor is a collapsed pool.
// Collapsed pools export their children, the output does not carry
// them.
func (r *resolution) underCollapsedPool(node *signavio.Node) bool {
	seen := map[string]bool{node.ID: true}
	for p := node.Parent; p != nil; p = p.Parent {
		if seen[p.ID] {
			return false
		}
		seen[p.ID] = true
		if rp, ok := r.nodes[p.ID]; ok && rp.entry.Pool && rp.entry.Collapsed {
			return true
		}
	}
	return false
}

func (r *resolution) buildProcesses() {
	for _, rn := range r.order {
		if !rn.entry.Pool {
			continue
		}
		pid := signavio.SanitizeID(rn.src.Prop("processid"))
		if pid == "" {
			pid = "Process_" + rn.src.ID
		}
		proc, ok := r.byProcess[pid]
		if !ok {
			proc = &procInfo{id: pid, pool: rn, external: rn.entry.Collapsed}
			r.byProcess[pid] = proc
			r.processes = append(r.processes, proc)
		} else if !rn.entry.Collapsed {
			proc.external = false
		}
		rn.proc = proc
	}
	if len(r.processes) == 0 {
		proc := &procInfo{id: "Process_1"}
		r.byProcess[proc.id] = proc
		r.processes = append(r.processes, proc)
	}
}

func (r *resolution) assignContainers(col *collector) {
	hasPools := r.processes[0].pool != nil

	for _, rn := range r.order {
		if rn.entry.Pool {
			continue
		}
		switch rn.kind {
		case bpmn.KindMessage:
			r.messages = append(r.messages, rn)
			continue
		case bpmn.KindParticipant:
			r.participants = append(r.participants, rn)
			continue
		}

		if bpmn.CategoryOf(rn.kind) == bpmn.CategoryUnknown {
			col.report(UncategorizedElement, rn.src.ID, rn.src.Stencil, "element kind %s has no output slot, shape dropped", rn.kind)
			rn.dropped = true
			continue
		}

		// a boundary event lives beside its host, never inside it
		if rn.kind == bpmn.KindBoundaryEvent {
			if host, ok := r.lookup(rn.attachedTo); ok && host.proc != nil {
				rn.proc = host.proc
				rn.container = host.container
				continue
			}
			col.report(DanglingReference, rn.src.ID, rn.src.Stencil, "boundary host %q not available, plain event emitted", rn.attachedTo)
			rn.kind = bpmn.KindIntermediateCatchEvent
			rn.attachedTo = ""
			rn.cancel = nil
		}

		proc, container, cyclic := r.locate(rn.src)
		if cyclic {
			col.report(CyclicContainment, rn.src.ID, rn.src.Stencil, "containment loop, shape dropped")
			rn.dropped = true
			continue
		}
		if proc == nil {
			if pid := signavio.SanitizeID(rn.src.Prop("processid")); pid != "" {
				if byProp, ok := r.byProcess[pid]; ok && !byProp.external {
					proc = byProp
					container = nil
				}
			}
		}
		if proc == nil && !hasPools {
			proc = r.processes[0]
		}
		if proc == nil {
			col.report(OrphanedElement, rn.src.ID, rn.src.Stencil, "no enclosing pool or process, shape dropped")
			rn.dropped = true
			continue
		}

		rn.proc = proc
		rn.container = container

		if rn.entry.Lane {
			proc.lanes = append(proc.lanes, rn)
		}
	}
}

// locate walks the containment chain of a shape up to its pool,
// remembering the nearest enclosing sub-process on the way. Ancestors
// that did not map are looked through.
func (r *resolution) locate(node *signavio.Node) (proc *procInfo, container *resolvedNode, cyclic bool) {
	seen := map[string]bool{node.ID: true}
	for p := node.Parent; p != nil; p = p.Parent {
		if seen[p.ID] {
			return nil, nil, true
		}
		seen[p.ID] = true

		rp, ok := r.lookup(p.ID)
		if !ok {
			continue
		}
		if container == nil && rp.kind == bpmn.KindSubProcess {
			container = rp
		}
		if rp.entry.Pool {
			return rp.proc, container, false
		}
	}
	return nil, container, false
}

func (r *resolution) resolveEdges(d *signavio.Diagram, col *collector) {
	// flows are wired through the outgoing list of their source shape
	sourceOf := make(map[string]string, len(d.Edges))
	for _, rn := range r.order {
		if rn.dropped {
			continue
		}
		for _, out := range rn.src.Outgoing {
			if _, ok := sourceOf[out]; !ok {
				sourceOf[out] = rn.src.ID
			}
		}
	}

	for _, edge := range d.Edges {
		entry, ok := bpmn.Lookup(edge.Stencil)
		if !ok {
			col.report(UnknownStencil, edge.ID, edge.Stencil, "no mapping for stencil, connector dropped")
			continue
		}

		re := &resolvedEdge{src: edge, kind: entry.Kind}
		re.source = sourceOf[edge.ID]
		re.target = edge.Target
		if _, ok = r.lookup(re.target); !ok {
			re.target = ""
			for _, out := range edge.Outgoing {
				if _, ok = r.lookup(out); ok {
					re.target = out
					break
				}
			}
		}

		src, srcOK := r.lookup(re.source)
		dst, dstOK := r.lookup(re.target)
		if !srcOK || !dstOK {
			col.report(DanglingReference, edge.ID, edge.Stencil, "unresolved endpoint (source %q, target %q), connector dropped", re.source, re.target)
			continue
		}

		switch re.kind {
		case bpmn.KindSequenceFlow:
			re.condition = edge.Prop("conditionexpression")
			if src.proc != nil && src.proc == dst.proc && !src.proc.external {
				re.proc = src.proc
				re.container = commonContainer(src, dst)
			} else {
				// a flow that leaves its pool carries a message
				re.kind = bpmn.KindMessageFlow
				re.condition = ""
			}
		case bpmn.KindAssociation:
			switch edge.Stencil {
			case "Association_Unidirectional":
				re.direction = "One"
			case "Association_Bidirectional":
				re.direction = "Both"
			}
			re.proc, re.container = homeContainer(src, dst)
			if re.proc == nil {
				re.proc = r.defaultProc()
			}
			if re.proc == nil {
				col.report(OrphanedElement, edge.ID, edge.Stencil, "no enclosing pool or process, connector dropped")
				continue
			}
		}

		r.edges = append(r.edges, re)
	}
}

// commonContainer returns the nearest sub-process enclosing both nodes,
// or nil for the process root.
func commonContainer(a, b *resolvedNode) *resolvedNode {
	chain := map[*resolvedNode]bool{}
	for c := a.container; c != nil; c = c.container {
		chain[c] = true
	}
	for c := b.container; c != nil; c = c.container {
		if chain[c] {
			return c
		}
	}
	return nil
}

// homeContainer picks where an association lands: beside its source
// when the source sits in an emitted process, else beside its target.
func homeContainer(src, dst *resolvedNode) (*procInfo, *resolvedNode) {
	if src.proc != nil && !src.proc.external {
		return src.proc, src.container
	}
	if dst.proc != nil && !dst.proc.external {
		return dst.proc, dst.container
	}
	return nil, nil
}

// defaultProc returns the first process the output will carry, nil when
// every pool is a black box.
func (r *resolution) defaultProc() *procInfo {
	for _, proc := range r.processes {
		if !proc.external {
			return proc
		}
	}
	return nil
}

func (r *resolution) linkFlows() {
	for _, re := range r.edges {
		if re.kind != bpmn.KindSequenceFlow {
			continue
		}
		if src, ok := r.lookup(re.source); ok {
			src.outgoing = append(src.outgoing, re.src.ID)
		}
		if dst, ok := r.lookup(re.target); ok {
			dst.incoming = append(dst.incoming, re.src.ID)
		}
	}
}

// deriveEventDefs enumerates the eventdefinitions property of a
// multiple-trigger event. The property is either a list of items or an
// object with an items list; each item names its trigger under a type
// (or eventtype) key.
func deriveEventDefs(node *signavio.Node, col *collector) []*bpmn.EventDefinition {
	raw := node.Properties["eventdefinitions"]
	if raw == nil {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		if m, isMap := raw.(map[string]interface{}); isMap {
			items, _ = m["items"].([]interface{})
		}
	}

	var defs []*bpmn.EventDefinition
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := itemType(m)
		if name == "" {
			continue
		}
		kind, ok := bpmn.EventDefFromName(name)
		if !ok {
			col.report(UnknownEventDefinition, node.ID, node.Stencil, "event definition %q not recognized", name)
			continue
		}
		defs = append(defs, eventDef(kind, node))
	}
	return defs
}

func itemType(m map[string]interface{}) string {
	for _, key := range []string{"type", "eventtype"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
		var variants []string
		for k := range m {
			if k != key && strings.ToLower(k) == key {
				variants = append(variants, k)
			}
		}
		sort.Strings(variants)
		for _, k := range variants {
			if s, ok := m[k].(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func eventDef(kind bpmn.EventDefKind, node *signavio.Node) *bpmn.EventDefinition {
	def := &bpmn.EventDefinition{Kind: kind}
	switch kind {
	case bpmn.DefConditional:
		def.Condition = node.Prop("conditionexpression")
	case bpmn.DefLink:
		name := node.Name()
		if name == "" {
			name = node.Prop("linkname")
		}
		if name == "" {
			name = node.ID
		}
		def.Name = name
	}
	return def
}

// cancelFlag reads the boundary interrupt property. Only an explicit
// false is carried, the schema default is true.
func cancelFlag(node *signavio.Node) *bool {
	v := node.Prop("boundarycancelactivity")
	if v == "" {
		v = node.Prop("cancelactivity")
	}
	if strings.EqualFold(v, "false") {
		f := false
		return &f
	}
	return nil
}
