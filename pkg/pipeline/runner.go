package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/diagramkit/pkg/cache"
	"github.com/matzehuels/diagramkit/pkg/compose"
	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/errors"
	"github.com/matzehuels/diagramkit/pkg/observability"
	"github.com/matzehuels/diagramkit/pkg/scene"
)

// Runner executes the pipeline with caching. It holds no per-run state,
// so one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the per-kind cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects cache.DefaultKeyer and a nil logger selects log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute composes m and renders every requested format.
func (r *Runner) Execute(ctx context.Context, m *diagram.Model, opts Options) (*Result, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "nil model")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := &Result{
		Model: m,
		Stats: Stats{
			NodeCount: len(m.Nodes),
			EdgeCount: len(m.Edges),
			FlowCount: len(m.Flows),
		},
	}

	start := time.Now()
	sc, hit, err := r.ComposeWithCacheInfo(ctx, m, opts)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	res.Scene = sc
	res.ModelHash = modelHash(m)
	res.Stats.OpCount = len(sc.Ops)
	res.Stats.ComposeTime = time.Since(start)
	res.CacheInfo.SceneHit = hit

	r.Logger.Info("composed scene",
		"kind", m.Kind(),
		"ops", len(sc.Ops),
		"warnings", len(sc.Warnings),
		"cached", hit,
		"duration", res.Stats.ComposeTime)
	for _, w := range sc.Warnings {
		r.Logger.Warn(w.Message, "code", w.Code, "ref", w.Ref)
	}

	start = time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, m, sc, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts
	res.SceneHash = sceneHash(sc)
	res.Stats.RenderTime = time.Since(start)
	res.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"engine", opts.Engine,
		"cached", hit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// ComposeWithCacheInfo builds the scene for m and reports whether it
// came from cache. Validation errors are never cached.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, m *diagram.Model, opts Options) (*scene.Scene, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.SceneKey(modelHash(m), opts.SceneKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if sc, err := scene.Decode(data); err == nil {
				observability.Cache().OnCacheHit(ctx, cache.KindScene)
				return sc, true, nil
			}
		} else if err != nil {
			r.Logger.Debug("cache read failed", "key", key, "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, cache.KindScene)
	}

	hooks := observability.Pipeline()
	kind := m.Kind()
	hooks.OnComposeStart(ctx, kind)
	start := time.Now()
	sc, err := compose.Compose(m, opts.ComposeOptions()...)
	if err != nil {
		hooks.OnComposeComplete(ctx, kind, 0, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnComposeComplete(ctx, kind, len(sc.Ops), len(sc.Warnings), time.Since(start), nil)

	if data, err := sc.JSON(); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLScene)); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, cache.KindScene, len(data))
		}
	}
	return sc, false, nil
}

// Compose is ComposeWithCacheInfo without the cache flag.
func (r *Runner) Compose(ctx context.Context, m *diagram.Model, opts Options) (*scene.Scene, error) {
	sc, _, err := r.ComposeWithCacheInfo(ctx, m, opts)
	return sc, err
}

// RenderWithCacheInfo renders sc in every requested format. The cache
// flag is true only when all formats were cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *diagram.Model, sc *scene.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	// The graphviz engine renders from the model, so its artifacts key
	// on the model as well as the scene.
	h := sceneHash(sc)
	if opts.Engine == EngineGraphviz {
		h = cache.Hash([]byte(h + modelHash(m)))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, r.Keyer.ArtifactKey(h, opts.ArtifactKeyOpts(format)))
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, cache.KindArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, cache.KindArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, m, sc, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(h, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, cache.KindArtifact, len(data))
	}
	return rendered, false, nil
}

// Job is one model of a batch.
type Job struct {
	Name    string
	Model   *diagram.Model
	Options Options
}

// ExecuteBatch runs independent jobs concurrently, at most limit at a
// time (limit <= 0 means unlimited). Results are returned in job order.
// The first failure cancels the remaining jobs.
func (r *Runner) ExecuteBatch(ctx context.Context, jobs []Job, limit int) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.Execute(ctx, job.Model, job.Options)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

func modelHash(m *diagram.Model) string {
	data, _ := json.Marshal(m)
	return cache.Hash(data)
}

func sceneHash(sc *scene.Scene) string {
	data, _ := sc.JSON()
	return cache.Hash(data)
}
