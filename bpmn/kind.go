package bpmn

// Kind is the local name of a BPMN 2.0 element the converter can emit.
type Kind string

const (
	KindDefinitions Kind = "definitions"

	KindParticipant Kind = "participant"
	KindLane        Kind = "lane"

	KindTask             Kind = "task"
	KindSendTask         Kind = "sendTask"
	KindReceiveTask      Kind = "receiveTask"
	KindUserTask         Kind = "userTask"
	KindManualTask       Kind = "manualTask"
	KindServiceTask      Kind = "serviceTask"
	KindBusinessRuleTask Kind = "businessRuleTask"
	KindScriptTask       Kind = "scriptTask"
	KindSubProcess       Kind = "subProcess"

	KindExclusiveGateway  Kind = "exclusiveGateway"
	KindParallelGateway   Kind = "parallelGateway"
	KindInclusiveGateway  Kind = "inclusiveGateway"
	KindEventBasedGateway Kind = "eventBasedGateway"
	KindComplexGateway    Kind = "complexGateway"

	KindStartEvent             Kind = "startEvent"
	KindEndEvent               Kind = "endEvent"
	KindIntermediateCatchEvent Kind = "intermediateCatchEvent"
	KindIntermediateThrowEvent Kind = "intermediateThrowEvent"
	KindBoundaryEvent          Kind = "boundaryEvent"

	KindSequenceFlow     Kind = "sequenceFlow"
	KindMessageFlow      Kind = "messageFlow"
	KindAssociation      Kind = "association"
	KindConversationLink Kind = "conversationLink"

	KindDataObjectReference Kind = "dataObjectReference"
	KindDataStoreReference  Kind = "dataStoreReference"
	KindMessage             Kind = "message"

	KindTextAnnotation Kind = "textAnnotation"
	KindGroup          Kind = "group"

	KindChoreographyTask Kind = "choreographyTask"
	KindSubChoreography  Kind = "subChoreography"
	KindConversation     Kind = "conversation"
)

// Category groups kinds into the slots of the schema's container content
// models. The builder emits one category after another, never
// interleaved.
type Category int32

const (
	CategoryUnknown Category = iota
	CategoryParticipant
	CategoryLane
	CategoryFlowNode
	CategoryDataElement
	CategorySequenceFlow
	CategoryArtifact
	CategoryAssociation
	CategoryMessageFlow
	CategoryMessage
)

func (c Category) String() string {
	switch c {
	case CategoryParticipant:
		return "participant"
	case CategoryLane:
		return "lane"
	case CategoryFlowNode:
		return "flowNode"
	case CategoryDataElement:
		return "dataElement"
	case CategorySequenceFlow:
		return "sequenceFlow"
	case CategoryArtifact:
		return "artifact"
	case CategoryAssociation:
		return "association"
	case CategoryMessageFlow:
		return "messageFlow"
	case CategoryMessage:
		return "message"
	default:
		return "unknown"
	}
}

// CategoryOf returns the schema slot for a kind, or CategoryUnknown for
// kinds that have no place in the output (the diagram root among them).
func CategoryOf(k Kind) Category {
	switch k {
	case KindParticipant:
		return CategoryParticipant
	case KindLane:
		return CategoryLane
	case KindTask, KindSendTask, KindReceiveTask, KindUserTask, KindManualTask,
		KindServiceTask, KindBusinessRuleTask, KindScriptTask, KindSubProcess,
		KindExclusiveGateway, KindParallelGateway, KindInclusiveGateway,
		KindEventBasedGateway, KindComplexGateway,
		KindStartEvent, KindEndEvent, KindIntermediateCatchEvent,
		KindIntermediateThrowEvent, KindBoundaryEvent,
		KindChoreographyTask, KindSubChoreography, KindConversation:
		return CategoryFlowNode
	case KindDataObjectReference, KindDataStoreReference:
		return CategoryDataElement
	case KindSequenceFlow:
		return CategorySequenceFlow
	case KindTextAnnotation, KindGroup:
		return CategoryArtifact
	case KindAssociation:
		return CategoryAssociation
	case KindMessageFlow, KindConversationLink:
		return CategoryMessageFlow
	case KindMessage:
		return CategoryMessage
	default:
		return CategoryUnknown
	}
}

// IsActivity reports whether a kind can host a boundary event.
func IsActivity(k Kind) bool {
	switch k {
	case KindTask, KindSendTask, KindReceiveTask, KindUserTask, KindManualTask,
		KindServiceTask, KindBusinessRuleTask, KindScriptTask, KindSubProcess:
		return true
	default:
		return false
	}
}

// IsDataElement reports whether a kind is a data reference. Data
// references never carry incoming/outgoing children and never appear in
// lane flowNodeRef lists.
func IsDataElement(k Kind) bool {
	return k == KindDataObjectReference || k == KindDataStoreReference
}
