// Package pipeline provides the core layout pipeline for Storyflow.
//
// This package implements the complete load → layout → render pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Fetch the flow document from a store or take it inline
//  2. Layout: Compute node positions for the flow graph
//  3. Render: Generate output in various formats (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(store, cache, nil, logger)
//	opts := pipeline.Options{
//	    FlowID:  "greeting",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/layout"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	FlowID  string `json:"flow_id,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Layout options (zero values fall back to the canvas defaults)
	RootHint  string   `json:"root_hint,omitempty"`
	Selection []string `json:"selection,omitempty"`
	XSpacing  float64  `json:"x_spacing,omitempty"`
	YSpacing  float64  `json:"y_spacing,omitempty"`
	OffsetX   float64  `json:"offset_x,omitempty"`
	OffsetY   float64  `json:"offset_y,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Flow   *flow.Flow  `json:"-"` // inline document, bypasses the store
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Flow is the input document.
	Flow *flow.Flow

	// Laid is the document with computed positions.
	Laid *flow.Flow

	// FlowHash and LayoutHash are content hashes of the input and laid-out
	// documents, used for cache keys and API responses.
	FlowHash   string
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Flow == nil && o.FlowID == "" {
		return fmt.Errorf("flow_id or an inline flow is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return fmt.Errorf("scale must be positive")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// LayoutOptions converts the serializable fields into engine options,
// filling unset values from the canvas defaults.
func (o *Options) LayoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.RootHint = o.RootHint
	opts.Selection = o.Selection
	if o.XSpacing > 0 {
		opts.XSpacing = o.XSpacing
	}
	if o.YSpacing > 0 {
		opts.YSpacing = o.YSpacing
	}
	if o.OffsetX != 0 {
		opts.OffsetX = o.OffsetX
	}
	if o.OffsetY != 0 {
		opts.OffsetY = o.OffsetY
	}
	return opts
}
