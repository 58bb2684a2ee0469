package sigbpmn

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const plainExport = `{
  "resourceId": "c",
  "stencilset": {"namespace": "http://b3mn.org/stencilset/bpmn2.0#"},
  "childShapes": [
    {
      "resourceId": "t1",
      "stencil": {"id": "Task"},
      "properties": {"name": "Work"},
      "bounds": {"upperLeft": {"x": 0, "y": 0}, "lowerRight": {"x": 100, "y": 80}},
      "childShapes": []
    }
  ]
}`

func writeBatchDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"alpha.json":  collaborationExport,
		"beta.json":   plainExport,
		"chain.json":  epcExport,
		"broken.json": `{"resourceId": "x"}`,
		"README.txt":  "not an export",
	}
	for name, body := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644)
		assert.NoError(t, err)
	}
	err := os.Mkdir(filepath.Join(dir, "nested"), 0o755)
	assert.NoError(t, err)
	return dir
}

func TestConvertDir(t *testing.T) {
	in := writeBatchDir(t)
	out := filepath.Join(t.TempDir(), "out")

	c, err := New(WithWorkers(2))
	assert.NoError(t, err)

	sum, err := c.ConvertDir(context.TODO(), in, out)
	assert.NoError(t, err)

	assert.True(t, strings.HasPrefix(sum.RunID, "RUN_"))
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, 1, sum.Failed)

	assert.Len(t, sum.Results, 3)
	assert.Equal(t, filepath.Join(in, "alpha.json"), sum.Results[0].Input)
	assert.Equal(t, filepath.Join(in, "beta.json"), sum.Results[1].Input)
	assert.Equal(t, filepath.Join(in, "chain.json"), sum.Results[2].Input)
	assert.True(t, sum.Results[2].Skipped)

	assert.Len(t, sum.Failures, 1)
	assert.Equal(t, filepath.Join(in, "broken.json"), sum.Failures[0].Input)
	assert.Error(t, sum.Failures[0].Err)

	_, err = os.Stat(filepath.Join(out, "alpha.bpmn"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "beta.bpmn"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "chain.bpmn"))
	assert.True(t, os.IsNotExist(err))
}

func TestConvertDirDefaultOutput(t *testing.T) {
	base := t.TempDir()
	in := filepath.Join(base, "models")
	err := os.Mkdir(in, 0o755)
	assert.NoError(t, err)
	err = os.WriteFile(filepath.Join(in, "simple.json"), []byte(plainExport), 0o644)
	assert.NoError(t, err)

	c, err := New(WithWorkers(1))
	assert.NoError(t, err)

	sum, err := c.ConvertDir(context.TODO(), in, "")
	assert.NoError(t, err)
	assert.Equal(t, 1, sum.Succeeded)

	_, err = os.Stat(filepath.Join(base, "models_bpmn", "simple.bpmn"))
	assert.NoError(t, err)
}

func TestConvertDirMissingInput(t *testing.T) {
	c, err := New()
	assert.NoError(t, err)

	_, err = c.ConvertDir(context.TODO(), filepath.Join(t.TempDir(), "absent"), "")
	assert.Error(t, err)
}

func TestConvertDirCanceled(t *testing.T) {
	in := writeBatchDir(t)
	out := filepath.Join(t.TempDir(), "out")

	ctx, cancel := context.WithCancel(context.TODO())
	cancel()

	c, err := New(WithWorkers(2))
	assert.NoError(t, err)

	sum, err := c.ConvertDir(ctx, in, out)
	assert.NoError(t, err)
	assert.Equal(t, 4, sum.Total)
	assert.Equal(t, 4, sum.Failed)
	assert.Empty(t, sum.Results)
}
