package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/storyflow/storyflow/pkg/cache"
	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/flow/store"
	"github.com/storyflow/storyflow/pkg/layout"
	"github.com/storyflow/storyflow/pkg/observability"
	"github.com/storyflow/storyflow/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the store, cache, and logger - it
// doesn't keep pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Store  store.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner over the given store and cache.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(s store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  s,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	f, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Flow = f
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = f.NodeCount()
	result.Stats.EdgeCount = f.EdgeCount()

	if data, err := flow.MarshalFlow(f); err == nil {
		result.FlowHash = cache.Hash(data)
	}

	opts.Logger.Info("loaded flow",
		"flow", f.ID,
		"nodes", f.NodeCount(),
		"edges", f.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	laid, layoutHit, err := r.LayoutWithCacheInfo(ctx, f, result.FlowHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Laid = laid
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	if data, err := flow.MarshalFlow(laid); err == nil {
		result.LayoutHash = cache.Hash(data)
	}

	opts.Logger.Info("computed layout",
		"flow", f.ID,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, laid, result.LayoutHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load resolves the input document: the inline flow when provided,
// otherwise the store copy, mirrored through the cache.
func (r *Runner) Load(ctx context.Context, opts Options) (*flow.Flow, error) {
	if opts.Flow != nil {
		return opts.Flow, nil
	}
	if r.Store == nil {
		return nil, fmt.Errorf("no store configured for flow %q", opts.FlowID)
	}

	key := r.Keyer.FlowKey(r.Store.Name(), opts.FlowID)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if f, err := flow.UnmarshalFlow(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "flow")
				return f, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "flow")
	}

	f, err := r.Store.Load(ctx, opts.FlowID)
	if err != nil {
		return nil, err
	}
	if data, err := flow.MarshalFlow(f); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLFlow); err == nil {
			observability.Cache().OnCacheSet(ctx, "flow", len(data))
		}
	}
	return f, nil
}

// LayoutWithCacheInfo computes positions with caching and reports whether
// the result came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, f *flow.Flow, flowHash string, opts Options) (*flow.Flow, bool, error) {
	lo := opts.LayoutOptions()
	key := r.Keyer.LayoutKey(flowHash, cache.LayoutKeyOpts{
		RootHint:  lo.RootHint,
		Selection: lo.Selection,
		XSpacing:  lo.XSpacing,
		YSpacing:  lo.YSpacing,
		OffsetX:   lo.OffsetX,
		OffsetY:   lo.OffsetY,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if laid, err := flow.UnmarshalFlow(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return laid, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	start := time.Now()
	observability.Layout().OnLayoutStart(ctx, f.ID, f.NodeCount())
	laid, rep := layout.FlowWithReport(f, lo)
	for _, id := range rep.Saturated {
		observability.Layout().OnCollisionBudgetExhausted(ctx, f.ID, id)
	}
	observability.Layout().OnLayoutComplete(ctx, f.ID, f.NodeCount(), time.Since(start), nil)

	if data, err := flow.MarshalFlow(laid); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return laid, false, nil
}

// RenderWithCacheInfo generates the requested artifacts with caching.
// The hit flag is true only when every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, laid *flow.Flow, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	allHit := true

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, cache.ArtifactKeyOpts{Format: format})
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		allHit = false

		start := time.Now()
		observability.Layout().OnRenderStart(ctx, laid.ID, format)
		data, err := r.renderFormat(laid, format, opts)
		observability.Layout().OnRenderComplete(ctx, laid.ID, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}

		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, allHit && len(opts.Formats) > 0, nil
}

func (r *Runner) renderFormat(laid *flow.Flow, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return flow.MarshalFlow(laid)
	case FormatDOT:
		return []byte(render.ToDOT(laid, render.Options{Detailed: opts.Detailed, Scale: opts.Scale})), nil
	case FormatSVG:
		return render.SVG(render.ToDOT(laid, render.Options{Detailed: opts.Detailed, Scale: opts.Scale}))
	case FormatPNG:
		return render.PNG(render.ToDOT(laid, render.Options{Detailed: opts.Detailed, Scale: opts.Scale}))
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}

// applyLogger falls back to the runner's logger when the options carry none.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases the runner's cache and store. Both are optional; a nil
// store is skipped and the null cache closes without effect.
func (r *Runner) Close(ctx context.Context) error {
	var first error
	if err := r.Cache.Close(); err != nil {
		first = err
	}
	if r.Store != nil {
		if err := r.Store.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	return first
}
