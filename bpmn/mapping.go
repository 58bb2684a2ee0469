package bpmn

import (
	"sort"
	"strings"
)

// EventDefKind is the element name of an event definition child.
type EventDefKind string

const (
	DefMessage     EventDefKind = "messageEventDefinition"
	DefTimer       EventDefKind = "timerEventDefinition"
	DefConditional EventDefKind = "conditionalEventDefinition"
	DefSignal      EventDefKind = "signalEventDefinition"
	DefError       EventDefKind = "errorEventDefinition"
	DefEscalation  EventDefKind = "escalationEventDefinition"
	DefTerminate   EventDefKind = "terminateEventDefinition"
	DefCancel      EventDefKind = "cancelEventDefinition"
	DefCompensate  EventDefKind = "compensateEventDefinition"
	DefLink        EventDefKind = "linkEventDefinition"
)

// MappingEntry describes how one Signavio stencil lands in BPMN 2.0.
type MappingEntry struct {
	// Kind is the BPMN element the stencil maps to.
	Kind Kind

	// EventDef is the fixed event definition the stencil implies, if any.
	EventDef EventDefKind

	// DeriveDefs marks multiple-trigger event stencils whose definitions
	// are enumerated from the shape's eventdefinitions property instead
	// of being fixed by the stencil.
	DeriveDefs bool

	// ParallelMultiple marks events that wait for all of their triggers.
	ParallelMultiple bool

	// TriggeredByEvent marks event sub-processes.
	TriggeredByEvent bool

	// Pool and Lane identify the two container stencil families.
	Pool bool
	Lane bool

	// Collapsed marks pools whose child shapes are not exported.
	Collapsed bool

	// Horizontal reports the pool or lane orientation for the diagram
	// interchange shape.
	Horizontal bool
}

var mappingTable = map[string]MappingEntry{
	"BPMNDiagram": {Kind: KindDefinitions},

	"Pool":                  {Kind: KindParticipant, Pool: true, Horizontal: true},
	"VerticalPool":          {Kind: KindParticipant, Pool: true},
	"CollapsedPool":         {Kind: KindParticipant, Pool: true, Collapsed: true, Horizontal: true},
	"CollapsedVerticalPool": {Kind: KindParticipant, Pool: true, Collapsed: true},
	"Lane":                  {Kind: KindLane, Lane: true, Horizontal: true},
	"VerticalLane":          {Kind: KindLane, Lane: true},

	"Task":                {Kind: KindTask},
	"CollapsedSubprocess": {Kind: KindSubProcess},
	"Subprocess":          {Kind: KindSubProcess},
	"EventSubprocess":     {Kind: KindSubProcess, TriggeredByEvent: true},

	"Exclusive_Databased_Gateway": {Kind: KindExclusiveGateway},
	"ParallelGateway":             {Kind: KindParallelGateway},
	"AND_Gateway":                 {Kind: KindParallelGateway},
	"InclusiveGateway":            {Kind: KindInclusiveGateway},
	"EventbasedGateway":           {Kind: KindEventBasedGateway},
	"ComplexGateway":              {Kind: KindComplexGateway},

	"StartNoneEvent":             {Kind: KindStartEvent},
	"StartEvent":                 {Kind: KindStartEvent},
	"StartMessageEvent":          {Kind: KindStartEvent, EventDef: DefMessage},
	"StartTimerEvent":            {Kind: KindStartEvent, EventDef: DefTimer},
	"StartConditionalEvent":      {Kind: KindStartEvent, EventDef: DefConditional},
	"StartSignalEvent":           {Kind: KindStartEvent, EventDef: DefSignal},
	"StartErrorEvent":            {Kind: KindStartEvent, EventDef: DefError},
	"StartMultipleEvent":         {Kind: KindStartEvent, DeriveDefs: true},
	"StartParallelMultipleEvent": {Kind: KindStartEvent, DeriveDefs: true, ParallelMultiple: true},

	"EndNoneEvent":       {Kind: KindEndEvent},
	"EndEvent":           {Kind: KindEndEvent},
	"EndMessageEvent":    {Kind: KindEndEvent, EventDef: DefMessage},
	"EndEscalationEvent": {Kind: KindEndEvent, EventDef: DefEscalation},
	"EndErrorEvent":      {Kind: KindEndEvent, EventDef: DefError},
	"EndTerminateEvent":  {Kind: KindEndEvent, EventDef: DefTerminate},
	"EndCancelEvent":     {Kind: KindEndEvent, EventDef: DefCancel},
	"EndSignalEvent":     {Kind: KindEndEvent, EventDef: DefSignal},

	"IntermediateEvent":                        {Kind: KindIntermediateCatchEvent},
	"IntermediateMessageEventCatching":         {Kind: KindIntermediateCatchEvent, EventDef: DefMessage},
	"IntermediateTimerEvent":                   {Kind: KindIntermediateCatchEvent, EventDef: DefTimer},
	"IntermediateConditionalEvent":             {Kind: KindIntermediateCatchEvent, EventDef: DefConditional},
	"IntermediateSignalEventCatching":          {Kind: KindIntermediateCatchEvent, EventDef: DefSignal},
	"IntermediateLinkEventCatching":            {Kind: KindIntermediateCatchEvent, EventDef: DefLink},
	"IntermediateErrorEvent":                   {Kind: KindIntermediateCatchEvent, EventDef: DefError},
	"IntermediateCancelEvent":                  {Kind: KindIntermediateCatchEvent, EventDef: DefCancel},
	"IntermediateCompensationEventCatching":    {Kind: KindIntermediateCatchEvent, EventDef: DefCompensate},
	"IntermediateMultipleEventCatching":        {Kind: KindIntermediateCatchEvent, DeriveDefs: true},
	"IntermediateParallelMultipleEventCatching": {Kind: KindIntermediateCatchEvent, DeriveDefs: true, ParallelMultiple: true},

	"IntermediateMessageEventThrowing":      {Kind: KindIntermediateThrowEvent, EventDef: DefMessage},
	"IntermediateSignalEventThrowing":       {Kind: KindIntermediateThrowEvent, EventDef: DefSignal},
	"IntermediateLinkEventThrowing":         {Kind: KindIntermediateThrowEvent, EventDef: DefLink},
	"IntermediateCompensationEventThrowing": {Kind: KindIntermediateThrowEvent, EventDef: DefCompensate},
	"IntermediateEscalationEvent":           {Kind: KindIntermediateThrowEvent, EventDef: DefEscalation},
	"IntermediateEscalationEventThrowing":   {Kind: KindIntermediateThrowEvent, EventDef: DefEscalation},

	"SequenceFlow": {Kind: KindSequenceFlow},
	"MessageFlow":  {Kind: KindMessageFlow},

	"Association_Unidirectional": {Kind: KindAssociation},
	"Association_Undirected":     {Kind: KindAssociation},
	"Association_Bidirectional":  {Kind: KindAssociation},
	"ConversationLink":           {Kind: KindConversationLink},

	"DataObject": {Kind: KindDataObjectReference},
	"DataStore":  {Kind: KindDataStoreReference},
	"Message":    {Kind: KindMessage},

	"TextAnnotation": {Kind: KindTextAnnotation},
	"Group":          {Kind: KindGroup},

	"ChoreographyTask":                {Kind: KindChoreographyTask},
	"ChoreographyParticipant":         {Kind: KindParticipant},
	"ChoreographySubprocessCollapsed": {Kind: KindSubChoreography},
	"ChoreographySubprocessExpanded":  {Kind: KindSubChoreography},
	"Communication":                   {Kind: KindConversation},
	"Participant":                     {Kind: KindParticipant},

	// Non-BPMN stencils that show up inside process diagrams. Mapping
	// them to data references loses detail but keeps the shapes.
	"ITSystem":           {Kind: KindDataStoreReference},
	"processparticipant": {Kind: KindDataObjectReference},
}

// Lookup resolves a stencil id against the mapping table.
func Lookup(stencil string) (MappingEntry, bool) {
	e, ok := mappingTable[stencil]
	return e, ok
}

// Stencils returns every mapped stencil id in lexical order.
func Stencils() []string {
	out := make([]string, 0, len(mappingTable))
	for s := range mappingTable {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

var taskKinds = map[string]Kind{
	"None":          KindTask,
	"Send":          KindSendTask,
	"Receive":       KindReceiveTask,
	"User":          KindUserTask,
	"Manual":        KindManualTask,
	"Service":       KindServiceTask,
	"Business Rule": KindBusinessRuleTask,
	"Script":        KindScriptTask,
}

// TaskKind resolves the tasktype property of a Task shape to a concrete
// activity kind. The empty string counts as a plain task.
func TaskKind(subtype string) (Kind, bool) {
	if subtype == "" {
		return KindTask, true
	}
	k, ok := taskKinds[subtype]
	return k, ok
}

var defNames = map[string]EventDefKind{
	"message":      DefMessage,
	"timer":        DefTimer,
	"conditional":  DefConditional,
	"condition":    DefConditional,
	"signal":       DefSignal,
	"error":        DefError,
	"escalation":   DefEscalation,
	"terminate":    DefTerminate,
	"cancel":       DefCancel,
	"compensation": DefCompensate,
	"compensate":   DefCompensate,
	"link":         DefLink,
}

// EventDefFromName resolves a trigger name from an eventdefinitions
// property item. Matching is case-insensitive.
func EventDefFromName(name string) (EventDefKind, bool) {
	k, ok := defNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

// Coverage splits an observed stencil census against the mapping table:
// stencils we translate, stencils we do not, and table entries the
// census never exercised.
func Coverage(observed []string) (mapped, unmapped, unused []string) {
	seen := make(map[string]bool, len(observed))
	for _, s := range observed {
		if seen[s] {
			continue
		}
		seen[s] = true
		if _, ok := mappingTable[s]; ok {
			mapped = append(mapped, s)
		} else {
			unmapped = append(unmapped, s)
		}
	}
	for s := range mappingTable {
		if !seen[s] {
			unused = append(unused, s)
		}
	}
	sort.Strings(mapped)
	sort.Strings(unmapped)
	sort.Strings(unused)
	return mapped, unmapped, unused
}
