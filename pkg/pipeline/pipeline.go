// Package pipeline provides the core graph processing pipeline for Reflow.
//
// This package implements the complete load → populate → canonicalize →
// render pipeline shared by the CLI commands. Centralizing this logic keeps
// behavior consistent across all entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Read a serialized graph from JSON
//  2. Populate: Rederive reverse output edges from dependencies
//  3. Canonicalize: Renumber nodes into reverse-postorder
//  4. Render: Generate output in various formats (text, JSON, DOT, SVG, ...)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Input:   "incr.json",
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

	"github.com/matzehuels/reflow/pkg/ir"
)

// =============================================================================
// Default Values - Single Source of Truth for the CLI
// =============================================================================

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// DefaultPNGScale is the raster scale used for PNG output.
// A scale of 2.0 produces a 2x resolution image for high-DPI displays.
const DefaultPNGScale = 2.0

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the graph processing pipeline.
type Options struct {
	// Load options. Input names a JSON graph file; Source carries the
	// serialized bytes directly and takes precedence when set.
	Input  string `json:"input,omitempty"`
	Source []byte `json:"-"`

	// Transform options
	SkipCanonicalize bool `json:"skip_canonicalize,omitempty"` // Keep original node numbering
	Refresh          bool `json:"refresh,omitempty"`           // Bypass the artifact cache

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // Include renames and locations in DOT labels

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the processed graph, canonicalized unless disabled.
	Graph *ir.Graph

	// GraphHash is the content hash of the processed graph.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount        int
	EdgeCount        int
	LoadTime         time.Duration
	PopulateTime     time.Duration
	CanonicalizeTime time.Duration
	RenderTime       time.Duration
}

// CacheInfo tracks cache hits for the render stage.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: text, json, dot, svg, png, pdf)", format)
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

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" && len(o.Source) == 0 {
		return fmt.Errorf("input file or source bytes are required")
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SourceName returns the label used for the load stage in logs and hooks.
func (o *Options) SourceName() string {
	if o.Input != "" {
		return o.Input
	}
	return "<bytes>"
}
