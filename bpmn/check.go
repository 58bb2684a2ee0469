package bpmn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

type Severity int32

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is one structural finding in a produced document.
type Issue struct {
	Severity Severity
	Element  string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Element, i.Message)
}

// Pass reports whether the findings contain no errors.
func Pass(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

var refAttrs = []string{"sourceRef", "targetRef", "processRef", "attachedToRef", "bpmnElement"}

// Check parses a document and verifies its structural integrity: one
// definitions root, unique ids, resolvable references, shapes with
// bounds and edges with at least two waypoints. It is not a schema
// validation, it catches what a broken conversion would produce.
func Check(data []byte) ([]Issue, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}

	var issues []Issue
	if root.Tag != "definitions" {
		issues = append(issues, Issue{SeverityError, root.Tag, "root element is not definitions"})
	}

	ids := make(map[string]bool)
	walk(root, func(el *etree.Element) {
		id := el.SelectAttrValue("id", "")
		if id == "" {
			return
		}
		if ids[id] {
			issues = append(issues, Issue{SeverityError, id, "duplicate id"})
		}
		ids[id] = true
	})

	walk(root, func(el *etree.Element) {
		id := el.SelectAttrValue("id", el.Tag)

		for _, name := range refAttrs {
			if v := el.SelectAttrValue(name, ""); v != "" && !ids[v] {
				issues = append(issues, Issue{SeverityError, id,
					fmt.Sprintf("%s references unknown id %q", name, v)})
			}
		}

		switch el.Tag {
		case "sequenceFlow", "messageFlow", "conversationLink", "association":
			if el.SelectAttrValue("sourceRef", "") == "" {
				issues = append(issues, Issue{SeverityError, id, "missing sourceRef"})
			}
			if el.SelectAttrValue("targetRef", "") == "" {
				issues = append(issues, Issue{SeverityError, id, "missing targetRef"})
			}
		case "flowNodeRef", "incoming", "outgoing":
			if v := strings.TrimSpace(el.Text()); v != "" && !ids[v] {
				issues = append(issues, Issue{SeverityError, el.Tag,
					fmt.Sprintf("references unknown id %q", v)})
			}
		case "BPMNShape":
			bounds := el.SelectElement("Bounds")
			if bounds == nil {
				issues = append(issues, Issue{SeverityError, id, "shape has no bounds"})
				return
			}
			w, _ := strconv.ParseFloat(bounds.SelectAttrValue("width", "0"), 64)
			h, _ := strconv.ParseFloat(bounds.SelectAttrValue("height", "0"), 64)
			if w <= 0 || h <= 0 {
				issues = append(issues, Issue{SeverityWarning, id, "degenerate bounds"})
			}
		case "BPMNEdge":
			if len(el.SelectElements("waypoint")) < 2 {
				issues = append(issues, Issue{SeverityError, id, "edge has fewer than two waypoints"})
			}
		}
	})

	return issues, nil
}

func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}
