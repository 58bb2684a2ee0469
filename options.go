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
	"os"
	"runtime"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"
)

// Options control how export documents are converted.
type Options struct {
	// Exporter and ExporterVersion are stamped on the definitions root.
	Exporter        string `yaml:"exporter"`
	ExporterVersion string `yaml:"exporterVersion"`

	// TargetNamespace of produced documents.
	TargetNamespace string `yaml:"targetNamespace"`

	// Workers bounds the concurrency of directory conversions.
	Workers int `yaml:"workers"`

	// Indent is the XML indent width. Zero writes single-line output.
	Indent int `yaml:"indent"`

	// Verbose echoes every diagnostic to the log as it is reported.
	Verbose bool `yaml:"verbose"`

	// SnapWaypoints projects edge endpoints onto the border of the shape
	// they touch.
	SnapWaypoints bool `yaml:"snapWaypoints"`

	// RouteMessageFlows adds elbow points to message flows that span
	// pools.
	RouteMessageFlows bool `yaml:"routeMessageFlows"`

	// SkipNonBPMN skips diagrams drawn with a non-BPMN stencil set
	// instead of translating whatever happens to map.
	SkipNonBPMN bool `yaml:"skipNonBPMN"`

	// OutputSuffix replaces the input suffix of converted files.
	OutputSuffix string `yaml:"outputSuffix"`
}

// Option represents a configuration option for the Converter.
type Option func(option *Options)

func NewOptions(opts ...Option) *Options {
	var options Options
	options.Indent = 2
	options.SnapWaypoints = true
	options.RouteMessageFlows = true
	options.SkipNonBPMN = true
	for _, o := range opts {
		o(&options)
	}

	if options.Exporter == "" {
		options.Exporter = "sigbpmn"
	}
	if options.ExporterVersion == "" {
		options.ExporterVersion = Version
	}
	if options.TargetNamespace == "" {
		options.TargetNamespace = "http://bpmn.io/schema/bpmn"
	}
	if options.Workers == 0 {
		options.Workers = runtime.NumCPU()
	}
	if options.OutputSuffix == "" {
		options.OutputSuffix = ".bpmn"
	}

	return &options
}

// Validate checks option values before a Converter is built around them.
func (o *Options) Validate() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.Exporter, validation.Required),
		validation.Field(&o.ExporterVersion, validation.Required),
		validation.Field(&o.TargetNamespace, validation.Required),
		validation.Field(&o.Workers, validation.Min(1), validation.Max(512)),
		validation.Field(&o.Indent, validation.Min(0), validation.Max(8)),
		validation.Field(&o.OutputSuffix, validation.Required, validation.By(suffixRule)),
	)
}

func suffixRule(v interface{}) error {
	s, _ := v.(string)
	if !strings.HasPrefix(s, ".") {
		return fmt.Errorf("must start with '.'")
	}
	return nil
}

// WithExporter sets the Exporter field of *Options to the specified value.
func WithExporter(name string) Option {
	return func(o *Options) {
		o.Exporter = name
	}
}

// WithExporterVersion sets the ExporterVersion field of *Options to the specified value.
func WithExporterVersion(version string) Option {
	return func(o *Options) {
		o.ExporterVersion = version
	}
}

// WithTargetNamespace sets the TargetNamespace field of *Options to the specified value.
func WithTargetNamespace(ns string) Option {
	return func(o *Options) {
		o.TargetNamespace = ns
	}
}

// WithWorkers sets the Workers field of *Options to the specified value.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithIndent sets the Indent field of *Options to the specified value.
func WithIndent(n int) Option {
	return func(o *Options) {
		o.Indent = n
	}
}

// WithVerbose sets the Verbose field of *Options to the specified value.
func WithVerbose(on bool) Option {
	return func(o *Options) {
		o.Verbose = on
	}
}

// WithSnapWaypoints sets the SnapWaypoints field of *Options to the specified value.
func WithSnapWaypoints(on bool) Option {
	return func(o *Options) {
		o.SnapWaypoints = on
	}
}

// WithRouteMessageFlows sets the RouteMessageFlows field of *Options to the specified value.
func WithRouteMessageFlows(on bool) Option {
	return func(o *Options) {
		o.RouteMessageFlows = on
	}
}

// WithSkipNonBPMN sets the SkipNonBPMN field of *Options to the specified value.
func WithSkipNonBPMN(on bool) Option {
	return func(o *Options) {
		o.SkipNonBPMN = on
	}
}

// WithOutputSuffix sets the OutputSuffix field of *Options to the specified value.
func WithOutputSuffix(suffix string) Option {
	return func(o *Options) {
		o.OutputSuffix = suffix
	}
}

// configFile mirrors Options with pointer fields so a config file only
// overrides the keys it actually sets.
type configFile struct {
	Exporter          *string `yaml:"exporter"`
	ExporterVersion   *string `yaml:"exporterVersion"`
	TargetNamespace   *string `yaml:"targetNamespace"`
	Workers           *int    `yaml:"workers"`
	Indent            *int    `yaml:"indent"`
	Verbose           *bool   `yaml:"verbose"`
	SnapWaypoints     *bool   `yaml:"snapWaypoints"`
	RouteMessageFlows *bool   `yaml:"routeMessageFlows"`
	SkipNonBPMN       *bool   `yaml:"skipNonBPMN"`
	OutputSuffix      *string `yaml:"outputSuffix"`
}

// LoadOptions reads a YAML config file into a list of options. Unknown
// keys are an error. The path may start with '~'.
func LoadOptions(path string) ([]Option, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}

	var f configFile
	if err = yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var opts []Option
	if f.Exporter != nil {
		opts = append(opts, WithExporter(*f.Exporter))
	}
	if f.ExporterVersion != nil {
		opts = append(opts, WithExporterVersion(*f.ExporterVersion))
	}
	if f.TargetNamespace != nil {
		opts = append(opts, WithTargetNamespace(*f.TargetNamespace))
	}
	if f.Workers != nil {
		opts = append(opts, WithWorkers(*f.Workers))
	}
	if f.Indent != nil {
		opts = append(opts, WithIndent(*f.Indent))
	}
	if f.Verbose != nil {
		opts = append(opts, WithVerbose(*f.Verbose))
	}
	if f.SnapWaypoints != nil {
		opts = append(opts, WithSnapWaypoints(*f.SnapWaypoints))
	}
	if f.RouteMessageFlows != nil {
		opts = append(opts, WithRouteMessageFlows(*f.RouteMessageFlows))
	}
	if f.SkipNonBPMN != nil {
		opts = append(opts, WithSkipNonBPMN(*f.SkipNonBPMN))
	}
	if f.OutputSuffix != nil {
		opts = append(opts, WithOutputSuffix(*f.OutputSuffix))
	}
	return opts, nil
}
