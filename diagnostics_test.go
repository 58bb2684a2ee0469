package sigbpmn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vine-io/sigbpmn/signavio"
)

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Category: UnknownStencil, Element: "sid-1", Stencil: "UMLClass", Message: "no mapping"}
	assert.Equal(t, "unknown-stencil: sid-1 [UMLClass]: no mapping", d.String())

	d = Diagnostic{Category: DanglingReference, Element: "sid-1", Message: "gone"}
	assert.Equal(t, "dangling-reference: sid-1: gone", d.String())

	d = Diagnostic{Category: MissingID, Message: "shape has no resource id"}
	assert.Equal(t, "missing-id: shape has no resource id", d.String())
}

func TestCollectorCounts(t *testing.T) {
	col := newCollector(false)
	col.report(UnknownStencil, "a", "X", "one")
	col.report(UnknownStencil, "b", "Y", "two")
	col.report(DanglingReference, "c", "", "three")

	assert.Len(t, col.diagnostics(), 3)
	assert.Equal(t, "unknown-stencil: a [X]: one", col.diagnostics()[0].String())
	assert.Equal(t, []CategoryCount{
		{Category: DanglingReference, Count: 1},
		{Category: UnknownStencil, Count: 2},
	}, col.rows())
}

// the loader's warning codes double as diagnostic categories, so a
// conversion result carries both under one vocabulary
func TestLoaderWarningCodesAreCategories(t *testing.T) {
	assert.Equal(t, DuplicateID, Category(signavio.WarnDuplicateID))
	assert.Equal(t, MissingID, Category(signavio.WarnMissingID))
	assert.Equal(t, MissingStencil, Category(signavio.WarnMissingStencil))
}
