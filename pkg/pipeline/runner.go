package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reflow/pkg/cache"
	"github.com/matzehuels/reflow/pkg/httputil"
	"github.com/matzehuels/reflow/pkg/ir"
	"github.com/matzehuels/reflow/pkg/irjson"
	"github.com/matzehuels/reflow/pkg/observability"
	"github.com/matzehuels/reflow/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete load → populate → canonicalize → render
// pipeline with artifact caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(ctx, opts)
	result.Stats.LoadTime = time.Since(loadStart)
	observability.Pipeline().OnLoadComplete(ctx, opts.SourceName(), lenOf(g), result.Stats.LoadTime, err)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	r.Logger.Info("loaded graph",
		"fn", g.Fn.Name,
		"nodes", g.Len(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Populate output edges
	populateStart := time.Now()
	err = r.Populate(ctx, g)
	result.Stats.PopulateTime = time.Since(populateStart)
	observability.Pipeline().OnPopulateComplete(ctx, g.Fn.Name, g.EdgeCount(), result.Stats.PopulateTime, err)
	if err != nil {
		return nil, fmt.Errorf("populate outputs: %w", err)
	}

	r.Logger.Info("populated output edges",
		"edges", g.EdgeCount(),
		"duration", result.Stats.PopulateTime)

	// Stage 3: Canonicalize
	if !opts.SkipCanonicalize {
		canonStart := time.Now()
		g, err = r.Canonicalize(ctx, g)
		result.Stats.CanonicalizeTime = time.Since(canonStart)
		observability.Pipeline().OnCanonicalizeComplete(ctx, fnName(g, opts), lenOf(g), result.Stats.CanonicalizeTime, err)
		if err != nil {
			return nil, fmt.Errorf("canonicalize: %w", err)
		}

		r.Logger.Info("canonicalized graph",
			"nodes", g.Len(),
			"duration", result.Stats.CanonicalizeTime)
	}

	result.Graph = g
	result.Stats.NodeCount = g.Len()
	result.Stats.EdgeCount = g.EdgeCount()

	// Compute graph hash for cache keys
	if data, err := irjson.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, result.GraphHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the graph from the configured source.
func (r *Runner) Load(ctx context.Context, opts Options) (*ir.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	observability.Pipeline().OnLoadStart(ctx, opts.SourceName())

	source := opts.Source
	if len(source) == 0 {
		var data []byte
		var err error
		if httputil.IsURL(opts.Input) {
			data, err = httputil.Fetch(ctx, opts.Input)
		} else {
			data, err = os.ReadFile(opts.Input)
		}
		if err != nil {
			return nil, err
		}
		source = data
	}

	gj, err := irjson.UnmarshalGraph(source)
	if err != nil {
		return nil, err
	}
	g, err := irjson.ToGraph(gj)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Populate rederives reverse output edges in place.
func (r *Runner) Populate(ctx context.Context, g *ir.Graph) error {
	observability.Pipeline().OnPopulateStart(ctx, g.Fn.Name, g.Len())
	return ir.PopulateOutputs(g)
}

// Canonicalize renumbers the graph into reverse-postorder, returning a new
// graph and leaving the input behind.
func (r *Runner) Canonicalize(ctx context.Context, g *ir.Graph) (*ir.Graph, error) {
	observability.Pipeline().OnCanonicalizeStart(ctx, g.Fn.Name, g.Len())
	return ir.Canonicalize(g)
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *ir.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	allCached := graphHash != "" && !opts.Refresh

	if allCached {
		for _, format := range opts.Formats {
			key := cache.ArtifactKey(graphHash, format)
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				allCached = false
				break
			}
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[format] = data
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	// Render all formats
	rendered, err := r.renderAll(g, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	if graphHash != "" {
		for format, data := range rendered {
			key := cache.ArtifactKey(graphHash, format)
			if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
				observability.Cache().OnCacheSet(ctx, "artifact", len(data))
			}
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *ir.Graph, graphHash string, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, graphHash, opts)
	return artifacts, err
}

// renderAll generates every requested format from scratch.
func (r *Runner) renderAll(g *ir.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	// SVG output feeds PNG and PDF, so render it at most once.
	var svg []byte
	renderSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		dot := render.ToDOT(g, render.Options{Detailed: opts.Detailed})
		data, err := render.SVG(dot)
		if err != nil {
			return nil, err
		}
		svg = data
		return svg, nil
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			data = []byte(ir.Dump(g))
		case FormatJSON:
			data, err = irjson.MarshalGraph(g)
		case FormatDOT:
			data = []byte(render.ToDOT(g, render.Options{Detailed: opts.Detailed}))
		case FormatSVG:
			data, err = renderSVG()
		case FormatPNG:
			data, err = renderSVG()
			if err == nil {
				data, err = render.ToPNG(data, DefaultPNGScale)
			}
		case FormatPDF:
			data, err = renderSVG()
			if err == nil {
				data, err = render.ToPDF(data)
			}
		default:
			err = ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func lenOf(g *ir.Graph) int {
	if g == nil {
		return 0
	}
	return g.Len()
}

func fnName(g *ir.Graph, opts Options) string {
	if g != nil {
		return g.Fn.Name
	}
	return opts.SourceName()
}
