package export

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/bubbles/pkg/chart"
)

// FileSurface is a chart.Surface backed by image files. Mount keeps the
// scene; Flush writes it to every path.
type FileSurface struct {
	Paths []string
	// Now picks the instant transitions are sampled at; nil means time.Now.
	Now func() time.Time

	mu    sync.Mutex
	scene *chart.Scene
}

// NewFileSurface returns a surface writing to paths.
func NewFileSurface(paths ...string) *FileSurface {
	return &FileSurface{Paths: paths}
}

// Mount implements chart.Surface.
func (f *FileSurface) Mount(scene *chart.Scene) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scene = scene
	return nil
}

// Flush writes the mounted scene, including any popup or transform applied
// since it was mounted.
func (f *FileSurface) Flush(ctx context.Context) error {
	f.mu.Lock()
	scene := f.scene
	f.mu.Unlock()
	if scene == nil {
		return fmt.Errorf("nothing mounted")
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return saveAll(ctx, scene, f.Paths, now())
}

// SaveAll writes one file per path concurrently. The format of each file is
// inferred from its extension.
func SaveAll(ctx context.Context, scene *chart.Scene, paths []string) error {
	return saveAll(ctx, scene, paths, time.Now())
}

func saveAll(ctx context.Context, scene *chart.Scene, paths []string, now time.Time) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := SaveChart(ChartOptions{Path: p, Scene: scene, Now: now}); err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}
