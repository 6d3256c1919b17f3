package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/topolayer/pkg/cache"
	"github.com/matzehuels/topolayer/pkg/frame"
	"github.com/matzehuels/topolayer/pkg/graph"
	"github.com/matzehuels/topolayer/pkg/layers"
	"github.com/matzehuels/topolayer/pkg/observability"
	"github.com/matzehuels/topolayer/pkg/topology"
)

const (
	keyTypeTopology = "topology"
	keyTypeView     = "view"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner serves concurrent requests; identical extractions running at
// the same time are collapsed into one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	group singleflight.Group
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger discards output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Extraction is the cacheable outcome of the extract stage.
type Extraction struct {
	Graph       graph.Graph           `json:"graph"`
	Diagnostics []topology.Diagnostic `json:"diagnostics,omitempty"`
	NodeFrame   string                `json:"nodeFrame,omitempty"`
	EdgeFrame   string                `json:"edgeFrame,omitempty"`

	// Nodes and Edges are the records behind Graph.
	Nodes []topology.NodeRecord `json:"-"`
	Edges []topology.EdgeRecord `json:"-"`

	Hash      string    `json:"-"`
	CacheInfo CacheInfo `json:"-"`
}

// Execute runs load → extract → partition → view.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.logger(opts)
	res := &Result{}

	frames := opts.Frames
	if len(opts.Inputs) > 0 {
		start := time.Now()
		loaded, err := Load(opts.Inputs...)
		if err != nil {
			return nil, err
		}
		frames = append(append([]*frame.Frame(nil), frames...), loaded...)
		res.Stats.LoadTime = time.Since(start)
		logger.Debug("loaded frames", "files", len(opts.Inputs), "frames", len(loaded))
	}

	start := time.Now()
	ext, err := r.Extract(ctx, frames, opts)
	if err != nil {
		return nil, err
	}
	res.Graph = ext.Graph
	res.Diagnostics = ext.Diagnostics
	res.Hash = ext.Hash
	res.CacheInfo = ext.CacheInfo
	res.Stats.ExtractTime = time.Since(start)
	res.Stats.NodeCount = len(ext.Nodes)
	res.Stats.EdgeCount = len(ext.Edges)
	res.Stats.Diagnostics = len(ext.Diagnostics)

	logger.Info("extracted topology",
		"nodes", res.Stats.NodeCount,
		"edges", res.Stats.EdgeCount,
		"cached", ext.CacheInfo.ExtractHit,
		"duration", res.Stats.ExtractTime)

	res.Index = layers.Build(ext.Nodes, ext.Edges, len(opts.Layers))
	res.Summary = graph.NewSummary(res.Index, opts.Layers)
	if res.Summary.Unassigned > 0 {
		logger.Debug("nodes outside configured layers", "count", res.Summary.Unassigned)
	}

	if !opts.HasView() {
		return res, nil
	}

	start = time.Now()
	view := r.View(ctx, res.Index, opts.Layer-1, opts)
	res.View = &view
	res.Stats.ViewTime = time.Since(start)

	start = time.Now()
	res.Artifacts, res.CacheInfo.RenderHits, err = r.render(ctx, res.Hash, view, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Stats.RenderTime = time.Since(start)

	logger.Info("rendered layer",
		"layer", view.Layer,
		"label", view.Label,
		"formats", opts.Formats,
		"duration", res.Stats.RenderTime)
	return res, nil
}

// Extract runs the extract stage, consulting the cache unless opts.Refresh
// is set. Diagnostics are logged at warn level.
func (r *Runner) Extract(ctx context.Context, frames []*frame.Frame, opts Options) (*Extraction, error) {
	opts.SetDefaults()
	logger := r.logger(opts)

	key, hash, err := r.topologyKey(frames, opts)
	if err != nil {
		return nil, err
	}

	v, err, shared := r.group.Do(key, func() (any, error) {
		return r.extract(ctx, key, frames, opts)
	})
	if err != nil {
		return nil, err
	}

	// Copy so callers sharing a flight do not alias the header fields.
	ext := *v.(*Extraction)
	ext.Hash = hash
	ext.CacheInfo.Shared = shared

	for _, d := range ext.Diagnostics {
		logger.Warn(d.Message,
			"kind", d.Kind,
			"table", d.Table,
			"role", d.Role,
			"available", d.Available)
	}
	return &ext, nil
}

func (r *Runner) extract(ctx context.Context, key string, frames []*frame.Frame, opts Options) (*Extraction, error) {
	hooks := observability.Pipeline()
	start := time.Now()

	if !opts.Refresh {
		if ext, ok := r.cached(ctx, key); ok {
			hooks.OnExtractComplete(ctx, observability.ExtractStats{
				Nodes:       len(ext.Nodes),
				Edges:       len(ext.Edges),
				Diagnostics: len(ext.Diagnostics),
				Cached:      true,
			}, time.Since(start), nil)
			return ext, nil
		}
	}

	nodeFrame, edgeFrame := topology.SelectFrames(frames)
	hooks.OnExtractStart(ctx, rows(nodeFrame), rows(edgeFrame))

	tr := topology.Extract(frames, opts.Fields)
	ext := &Extraction{
		Graph:       graph.FromRecords(tr.Nodes, tr.Edges, opts.Units),
		Diagnostics: tr.Diagnostics,
		NodeFrame:   tr.NodeFrame,
		EdgeFrame:   tr.EdgeFrame,
		Nodes:       tr.Nodes,
		Edges:       tr.Edges,
	}
	hooks.OnExtractComplete(ctx, observability.ExtractStats{
		Nodes:       len(ext.Nodes),
		Edges:       len(ext.Edges),
		Diagnostics: len(ext.Diagnostics),
	}, time.Since(start), nil)

	if data, err := json.Marshal(ext); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLTopology); err != nil {
			r.Logger.Debug("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeTopology, len(data))
		}
	}
	return ext, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Extraction, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeTopology)
		return nil, false
	}

	var ext Extraction
	if err := json.Unmarshal(data, &ext); err != nil {
		observability.Cache().OnCacheMiss(ctx, keyTypeTopology)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeTopology)
	ext.Nodes, ext.Edges = ext.Graph.Records()
	ext.CacheInfo.ExtractHit = true
	return &ext, true
}

// topologyKey hashes frames and the extraction settings into a cache key.
func (r *Runner) topologyKey(frames []*frame.Frame, opts Options) (key, hash string, err error) {
	framesHash, err := cache.HashJSON(frames)
	if err != nil {
		return "", "", fmt.Errorf("hash frames: %w", err)
	}
	configHash, err := cache.HashJSON(struct {
		Fields topology.ParseConfig
		Units  graph.Units
	}{opts.Fields, opts.Units})
	if err != nil {
		return "", "", fmt.Errorf("hash config: %w", err)
	}
	key = r.Keyer.TopologyKey(framesHash, cache.TopologyKeyOpts{ConfigHash: configHash})
	return key, cache.Hash([]byte(key)), nil
}

// View converts the zero-based layer pick of ix into wire form.
func (r *Runner) View(ctx context.Context, ix *layers.Index, pick int, opts Options) graph.LayerView {
	opts.SetDefaults()
	start := time.Now()
	v := graph.NewLayerView(ix, pick, opts.Layers, opts.Units)
	observability.Pipeline().OnView(ctx, v.Layer, len(v.Nodes), len(v.Edges), time.Since(start))
	return v
}

// render renders view in every requested format. Graph formats are read
// from and written to the cache under the topology hash; JSON is always
// encoded fresh.
func (r *Runner) render(ctx context.Context, hash string, view graph.LayerView, opts Options) (map[string][]byte, []string, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, nil, err
	}
	renderHash, err := cache.HashJSON(struct {
		Layers      []layers.Layer
		Detailed    bool
		NodeSpacing float64
	}{opts.Layers, opts.Detailed, opts.NodeSpacing})
	if err != nil {
		return nil, nil, fmt.Errorf("hash render options: %w", err)
	}

	keys := make(map[string]string, len(opts.Formats))
	artifacts := make(map[string][]byte, len(opts.Formats))
	var hits, missing []string
	for _, format := range opts.Formats {
		if format == FormatJSON || hash == "" {
			missing = append(missing, format)
			continue
		}
		key := r.Keyer.ViewKey(hash, cache.ViewKeyOpts{
			Layer:      view.Layer,
			Layers:     len(opts.Layers),
			Format:     format,
			RenderHash: renderHash,
		})
		keys[format] = key
		if !opts.Refresh {
			if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
				observability.Cache().OnCacheHit(ctx, keyTypeView)
				artifacts[format] = data
				hits = append(hits, format)
				continue
			}
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeView)
		missing = append(missing, format)
	}

	if len(missing) > 0 {
		sub := opts
		sub.Formats = missing
		fresh, err := RenderView(ctx, view, sub)
		if err != nil {
			return nil, nil, err
		}
		for format, data := range fresh {
			artifacts[format] = data
			key, ok := keys[format]
			if !ok {
				continue
			}
			if err := r.Cache.Set(ctx, key, data, cache.TTLView); err != nil {
				r.Logger.Debug("cache write failed", "err", err)
				continue
			}
			observability.Cache().OnCacheSet(ctx, keyTypeView, len(data))
		}
	}
	return artifacts, hits, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func rows(fr *frame.Frame) int {
	if fr == nil {
		return 0
	}
	return fr.Rows()
}
