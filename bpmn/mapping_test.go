package bpmn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	e, ok := Lookup("StartMessageEvent")
	assert.True(t, ok)
	assert.Equal(t, KindStartEvent, e.Kind)
	assert.Equal(t, DefMessage, e.EventDef)

	e, ok = Lookup("CollapsedPool")
	assert.True(t, ok)
	assert.True(t, e.Pool)
	assert.True(t, e.Collapsed)
	assert.True(t, e.Horizontal)

	e, ok = Lookup("VerticalLane")
	assert.True(t, ok)
	assert.True(t, e.Lane)
	assert.False(t, e.Horizontal)

	_, ok = Lookup("UMLClass")
	assert.False(t, ok)
}

func TestLookupMultipleEvents(t *testing.T) {
	e, ok := Lookup("StartParallelMultipleEvent")
	assert.True(t, ok)
	assert.True(t, e.DeriveDefs)
	assert.True(t, e.ParallelMultiple)
	assert.Empty(t, e.EventDef)

	e, ok = Lookup("IntermediateMultipleEventCatching")
	assert.True(t, ok)
	assert.True(t, e.DeriveDefs)
	assert.False(t, e.ParallelMultiple)
}

func TestLookupEventSubprocess(t *testing.T) {
	e, ok := Lookup("EventSubprocess")
	assert.True(t, ok)
	assert.Equal(t, KindSubProcess, e.Kind)
	assert.True(t, e.TriggeredByEvent)
}

func TestTaskKind(t *testing.T) {
	cases := map[string]Kind{
		"":              KindTask,
		"None":          KindTask,
		"Send":          KindSendTask,
		"Receive":       KindReceiveTask,
		"User":          KindUserTask,
		"Manual":        KindManualTask,
		"Service":       KindServiceTask,
		"Business Rule": KindBusinessRuleTask,
		"Script":        KindScriptTask,
	}
	for sub, want := range cases {
		k, ok := TaskKind(sub)
		assert.True(t, ok, "subtype %q", sub)
		assert.Equal(t, want, k, "subtype %q", sub)
	}

	_, ok := TaskKind("Magic")
	assert.False(t, ok)
}

func TestEventDefFromName(t *testing.T) {
	k, ok := EventDefFromName("Message")
	assert.True(t, ok)
	assert.Equal(t, DefMessage, k)

	k, ok = EventDefFromName(" timer ")
	assert.True(t, ok)
	assert.Equal(t, DefTimer, k)

	k, ok = EventDefFromName("Compensation")
	assert.True(t, ok)
	assert.Equal(t, DefCompensate, k)

	_, ok = EventDefFromName("vibration")
	assert.False(t, ok)
}

func TestCoverage(t *testing.T) {
	mapped, unmapped, unused := Coverage([]string{"Task", "UMLClass", "Task", "Pool"})
	assert.Equal(t, []string{"Pool", "Task"}, mapped)
	assert.Equal(t, []string{"UMLClass"}, unmapped)
	assert.NotContains(t, unused, "Task")
	assert.Contains(t, unused, "EndCancelEvent")
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, CategoryFlowNode, CategoryOf(KindTask))
	assert.Equal(t, CategoryFlowNode, CategoryOf(KindBoundaryEvent))
	assert.Equal(t, CategoryDataElement, CategoryOf(KindDataStoreReference))
	assert.Equal(t, CategoryMessage, CategoryOf(KindMessage))
	assert.Equal(t, CategoryMessageFlow, CategoryOf(KindConversationLink))
	assert.Equal(t, CategoryArtifact, CategoryOf(KindGroup))
	assert.Equal(t, CategoryUnknown, CategoryOf(KindDefinitions))
}

func TestMappingKindsCategorized(t *testing.T) {
	for _, s := range Stencils() {
		e, ok := Lookup(s)
		assert.True(t, ok)
		if e.Kind == KindDefinitions {
			continue
		}
		assert.NotEqual(t, CategoryUnknown, CategoryOf(e.Kind), "stencil %s maps to uncategorized kind %s", s, e.Kind)
	}
}

func TestIsActivity(t *testing.T) {
	assert.True(t, IsActivity(KindScriptTask))
	assert.True(t, IsActivity(KindSubProcess))
	assert.False(t, IsActivity(KindExclusiveGateway))
	assert.False(t, IsActivity(KindStartEvent))
}
