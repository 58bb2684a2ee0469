package sigbpmn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOptions(t *testing.T) {
	opts := NewOptions()

	assert.Equal(t, "sigbpmn", opts.Exporter)
	assert.Equal(t, Version, opts.ExporterVersion)
	assert.Equal(t, "http://bpmn.io/schema/bpmn", opts.TargetNamespace)
	assert.Greater(t, opts.Workers, 0)
	assert.Equal(t, 2, opts.Indent)
	assert.False(t, opts.Verbose)
	assert.True(t, opts.SnapWaypoints)
	assert.True(t, opts.RouteMessageFlows)
	assert.True(t, opts.SkipNonBPMN)
	assert.Equal(t, ".bpmn", opts.OutputSuffix)

	assert.NoError(t, opts.Validate())
}

func TestNewOptionsOverrides(t *testing.T) {
	opts := NewOptions(
		WithExporter("custom"),
		WithExporterVersion("9.9"),
		WithTargetNamespace("http://example.com/bpmn"),
		WithWorkers(3),
		WithIndent(0),
		WithVerbose(true),
		WithSnapWaypoints(false),
		WithRouteMessageFlows(false),
		WithSkipNonBPMN(false),
		WithOutputSuffix(".bpmn20.xml"),
	)

	assert.Equal(t, "custom", opts.Exporter)
	assert.Equal(t, "9.9", opts.ExporterVersion)
	assert.Equal(t, "http://example.com/bpmn", opts.TargetNamespace)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, 0, opts.Indent)
	assert.True(t, opts.Verbose)
	assert.False(t, opts.SnapWaypoints)
	assert.False(t, opts.RouteMessageFlows)
	assert.False(t, opts.SkipNonBPMN)
	assert.Equal(t, ".bpmn20.xml", opts.OutputSuffix)

	assert.NoError(t, opts.Validate())
}

func TestOptionsValidate(t *testing.T) {
	assert.Error(t, NewOptions(WithWorkers(-1)).Validate())
	assert.Error(t, NewOptions(WithWorkers(1024)).Validate())
	assert.Error(t, NewOptions(WithIndent(12)).Validate())
	assert.Error(t, NewOptions(WithIndent(-1)).Validate())
	assert.Error(t, NewOptions(WithOutputSuffix("bpmn")).Validate())
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigbpmn.yaml")
	cfg := `exporter: flowstudio
workers: 3
indent: 4
snapWaypoints: false
outputSuffix: ".xml"
`
	err := os.WriteFile(path, []byte(cfg), 0o644)
	assert.NoError(t, err)

	loaded, err := LoadOptions(path)
	assert.NoError(t, err)
	opts := NewOptions(loaded...)

	assert.Equal(t, "flowstudio", opts.Exporter)
	assert.Equal(t, 3, opts.Workers)
	assert.Equal(t, 4, opts.Indent)
	assert.False(t, opts.SnapWaypoints)
	assert.Equal(t, ".xml", opts.OutputSuffix)

	// untouched keys keep their defaults
	assert.Equal(t, Version, opts.ExporterVersion)
	assert.True(t, opts.RouteMessageFlows)
	assert.True(t, opts.SkipNonBPMN)
}

func TestLoadOptionsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sigbpmn.yaml")
	err := os.WriteFile(path, []byte("indnet: 4\n"), 0o644)
	assert.NoError(t, err)

	_, err = LoadOptions(path)
	assert.Error(t, err)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	_, err := LoadOptions(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
