package aspen

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for AddImage
	_ "image/png"
	"io/fs"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/sync/errgroup"
)

// LoadJob produces one asset. It runs on a worker goroutine and must not
// touch the scene.
type LoadJob func(ctx context.Context) (any, error)

// LoaderFile is one queued job.
type LoaderFile struct {
	Key string
	// Cache names the BaseCache the result is stored in.
	Cache string
	Job   LoadJob
	// Finish, if set, converts the job's value on the game thread before it
	// is cached.
	Finish func(v any) (any, error)
}

// FileResult is the outcome of one LoaderFile.
type FileResult struct {
	File  LoaderFile
	Value any
	Err   error
}

// LoaderResult summarizes a finished load.
type LoaderResult struct {
	Total  int
	Loaded int
	Failed map[string]error
}

// Loader events, emitted on LoaderPlugin.Events() from the game thread.
var (
	LoaderStart        = NewEvent[*LoaderPlugin]("start")
	LoaderFileComplete = NewEvent[FileResult]("filecomplete")
	LoaderProgress     = NewEvent[float64]("progress")
	LoaderComplete     = NewEvent[LoaderResult]("complete")
)

// LoaderPlugin is the scene plugin running asset jobs, injected as "load".
// Jobs run concurrently, bounded by LoaderConfig.MaxParallel. Results are
// drained on the game step, stored in their cache and reported through
// events.
type LoaderPlugin struct {
	ScenePluginBase

	// Fsys is used by the AddText, AddJSON and AddImage helpers.
	Fsys fs.FS

	events  *Emitter
	mu      sync.Mutex
	queue   []LoaderFile
	results chan FileResult
	cancel  context.CancelFunc
	running atomic.Bool

	total  int
	done   int
	loaded int
	failed map[string]error
}

func init() {
	DefaultPluginCache.Register("Loader", func(scene *Scene, pm *PluginManager, key string) ScenePlugin {
		return newLoaderPlugin(scene, pm, key)
	}, "load", false)
}

func newLoaderPlugin(scene *Scene, pm *PluginManager, key string) *LoaderPlugin {
	return &LoaderPlugin{ScenePluginBase: NewScenePluginBase(scene, pm, key), events: NewEmitter()}
}

func (l *LoaderPlugin) Boot() {
	On(l.systems.events, SceneShutdown, l, func(SceneData) { l.shutdown() })
	On(l.systems.events, SceneDestroy, l, func(*Systems) { l.Destroy() })
}

// Events returns the loader's emitter.
func (l *LoaderPlugin) Events() *Emitter { return l.events }

// Add queues a job storing its result in cache under key.
func (l *LoaderPlugin) Add(key, cache string, job LoadJob) error {
	return l.AddFile(LoaderFile{Key: key, Cache: cache, Job: job})
}

// AddFile queues f.
func (l *LoaderPlugin) AddFile(f LoaderFile) error {
	if l.running.Load() {
		return ErrLoaderRunning
	}
	if f.Job == nil {
		return fmt.Errorf("aspen: loader file %q has no job", f.Key)
	}
	if f.Cache == "" {
		f.Cache = CacheBinary
	}
	l.mu.Lock()
	l.queue = append(l.queue, f)
	l.mu.Unlock()
	return nil
}

// AddText queues a read of path from Fsys into the text cache.
func (l *LoaderPlugin) AddText(key, path string) error {
	fsys := l.Fsys
	return l.Add(key, CacheText, func(context.Context) (any, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	})
}

// AddJSON queues a read of path from Fsys, decoded into the json cache as
// a generic value.
func (l *LoaderPlugin) AddJSON(key, path string) error {
	fsys := l.Fsys
	return l.Add(key, CacheJSON, func(context.Context) (any, error) {
		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return v, nil
	})
}

// AddImage queues a PNG or JPEG decode of path from Fsys. The decoded
// image is uploaded to an *ebiten.Image on the game thread.
func (l *LoaderPlugin) AddImage(key, path string) error {
	fsys := l.Fsys
	return l.AddFile(LoaderFile{
		Key:   key,
		Cache: CacheBinary,
		Job: func(context.Context) (any, error) {
			f, err := fsys.Open(path)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			img, _, err := image.Decode(f)
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", path, err)
			}
			return img, nil
		},
		Finish: func(v any) (any, error) {
			return ebiten.NewImageFromImage(v.(image.Image)), nil
		},
	})
}

// Pending returns the number of queued jobs not yet started.
func (l *LoaderPlugin) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// IsLoading reports whether a load is in flight.
func (l *LoaderPlugin) IsLoading() bool { return l.running.Load() }

// Progress returns the fraction of the current load that has finished.
func (l *LoaderPlugin) Progress() float64 {
	if l.total == 0 {
		return 1
	}
	return float64(l.done) / float64(l.total)
}

// Reset clears the queue. It fails while a load is running.
func (l *LoaderPlugin) Reset() error {
	if l.running.Load() {
		return ErrLoaderRunning
	}
	l.mu.Lock()
	l.queue = nil
	l.mu.Unlock()
	l.total, l.done, l.loaded = 0, 0, 0
	l.failed = nil
	return nil
}

// Start runs every queued job. With an empty queue complete is emitted at
// once.
func (l *LoaderPlugin) Start() error {
	if l.systems == nil || l.systems.game == nil {
		return ErrGameDestroyed
	}
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoaderRunning
	}
	l.mu.Lock()
	files := l.queue
	l.queue = nil
	l.mu.Unlock()

	l.total, l.done, l.loaded = len(files), 0, 0
	l.failed = make(map[string]error)
	Emit(l.events, LoaderStart, l)
	if len(files) == 0 {
		l.complete()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	results := make(chan FileResult, len(files))
	l.results = results

	limit := l.systems.game.config.Loader.MaxParallel
	go func() {
		var g errgroup.Group
		g.SetLimit(limit)
		for _, f := range files {
			g.Go(func() error {
				v, err := f.Job(ctx)
				results <- FileResult{File: f, Value: v, Err: err}
				return nil
			})
		}
		g.Wait()
	}()

	On(l.systems.game.events, GameStep, l, func(Step) { l.poll() })
	return nil
}

func (l *LoaderPlugin) poll() {
	for {
		select {
		case r := <-l.results:
			l.finishFile(r)
			if l.done == l.total {
				l.complete()
				return
			}
		default:
			return
		}
	}
}

func (l *LoaderPlugin) finishFile(r FileResult) {
	if r.Err == nil && r.File.Finish != nil {
		r.Value, r.Err = r.File.Finish(r.Value)
	}
	l.done++
	if r.Err != nil {
		l.failed[r.File.Key] = r.Err
		warnf("load %q: %v", r.File.Key, r.Err)
	} else {
		l.loaded++
		if cm := l.systems.game.cache; cm != nil {
			c := cm.Get(r.File.Cache)
			if c == nil {
				c = cm.AddCustom(r.File.Cache)
			}
			c.Add(r.File.Key, r.Value)
		}
	}
	if m := l.metrics(); m != nil {
		m.observeFile(r.Err)
	}
	Emit(l.events, LoaderFileComplete, r)
	Emit(l.events, LoaderProgress, l.Progress())
}

func (l *LoaderPlugin) metrics() *MetricsPlugin {
	if l.pluginManager == nil {
		return nil
	}
	m, _ := l.pluginManager.Get(MetricsPluginKey, false).(*MetricsPlugin)
	return m
}

func (l *LoaderPlugin) complete() {
	l.stop()
	res := LoaderResult{Total: l.total, Loaded: l.loaded, Failed: l.failed}
	Emit(l.events, LoaderComplete, res)
}

func (l *LoaderPlugin) stop() {
	if l.systems != nil && l.systems.game != nil {
		l.systems.game.events.Off(GameStep.Name, l)
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.results = nil
	l.running.Store(false)
}

func (l *LoaderPlugin) shutdown() {
	l.stop()
	l.Reset()
}

// Destroy cancels any running load and releases the plugin.
func (l *LoaderPlugin) Destroy() {
	if l.systems == nil {
		return
	}
	l.shutdown()
	l.systems.events.RemoveOwner(l)
	l.events.RemoveAllListeners()
	l.ScenePluginBase.Destroy()
}
