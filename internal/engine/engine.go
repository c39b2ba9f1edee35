package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/config"
	"github.com/ivlev/loopreel/internal/logs"
	"github.com/ivlev/loopreel/internal/raster"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/scenes"
	"github.com/ivlev/loopreel/internal/system"
	"github.com/ivlev/loopreel/internal/timeline"
	"github.com/ivlev/loopreel/internal/video"
)

// Project renders one composition id, a scene or an episode, in the
// configured mode.
type Project struct {
	Config   *config.Config
	Registry *scenes.Registry
	Encoder  video.VideoEncoder
	Logger   *slog.Logger
	Report   io.Writer // performance report, nil for none

	pool    *system.ImagePool
	ids     []string
	trans   int
	tempDir string
	stats   Stats
	empty   atomic.Int64
}

// Stats collects timings of a run.
type Stats struct {
	Frames      int
	EmptyFrames int // frames no phase claimed, drawn empty
	Render      time.Duration
	Encode      time.Duration
	Concat      time.Duration
	Total       time.Duration
}

func NewProject(cfg *config.Config, reg *scenes.Registry, ve video.VideoEncoder, logger *slog.Logger) *Project {
	if logger == nil {
		logger = slog.Default()
	}
	return &Project{
		Config:   cfg,
		Registry: reg,
		Encoder:  ve,
		Logger:   logger,
		pool:     system.NewImagePool(),
	}
}

// Validate checks the configuration and builds every composition, so that
// no error is left to surface once frames are being rendered.
func (p *Project) Validate() error {
	if err := p.Config.ApplyPreset(); err != nil {
		return err
	}
	if err := p.Config.Validate(); err != nil {
		return err
	}
	if err := p.Registry.Validate(); err != nil {
		return err
	}

	ids, trans, err := p.Registry.Resolve(p.Config.Composition)
	if err != nil {
		return err
	}
	if len(ids) > 1 && (p.Config.FrameStart != 0 || p.Config.FrameEnd != 0) {
		return fmt.Errorf("%w: frame range needs a single scene, %s has %d", config.ErrInvalidConfig, p.Config.Composition, len(ids))
	}
	if p.Config.FrameStart != 0 || p.Config.FrameEnd != 0 {
		comp, err := p.Registry.Composition(ids[0])
		if err != nil {
			return err
		}
		if p.Config.FrameStart >= comp.Duration || p.Config.FrameEnd > comp.Duration {
			return fmt.Errorf("%w: frame range [%d, %d) outside %s [0, %d)", config.ErrInvalidConfig,
				p.Config.FrameStart, p.Config.FrameEnd, comp.ID, comp.Duration)
		}
	}
	if p.Config.Mode == config.ModeVideo && p.Encoder == nil {
		return fmt.Errorf("%w: video mode needs an encoder", config.ErrInvalidConfig)
	}
	if p.Config.Mode == config.ModeVideo && len(ids) > 1 && p.Config.TransitionType != "" && p.Config.TransitionType != "none" {
		transition := p.Config.TransitionFrames
		if transition == 0 {
			transition = trans
		}
		durations := make([]int, len(ids))
		for i, id := range ids {
			durations[i], _ = timeline.DurationOf(id)
		}
		if err := composer.ValidateSeries(durations, transition); err != nil {
			return fmt.Errorf("%w: %s with %d-frame transitions: %w", config.ErrInvalidConfig, p.Config.Composition, transition, err)
		}
	}
	p.ids, p.trans = ids, trans
	return nil
}

// Stats returns the timings of the last Run.
func (p *Project) Stats() Stats { return p.stats }

func (p *Project) Run(ctx context.Context) error {
	if p.ids == nil {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	start := time.Now()
	p.stats = Stats{}

	var err error
	switch p.Config.Mode {
	case config.ModeDescribe:
		err = p.describe(ctx)
	case config.ModeFrames:
		err = p.frames(ctx)
	default:
		err = p.video(ctx)
	}
	if err != nil {
		return err
	}

	p.stats.Total = time.Since(start)
	p.report()
	return nil
}

// span returns the frame range to render for comp.
func (p *Project) span(comp *composer.Composition) (int, int) {
	start, end := p.Config.FrameStart, p.Config.FrameEnd
	if end == 0 || end > comp.Duration {
		end = comp.Duration
	}
	return min(start, end), end
}

func (p *Project) renderer(comp *composer.Composition) (*raster.Renderer, error) {
	return raster.New(comp.Width, comp.Height, p.Config.Scale, scenes.Background, p.pool)
}

func (p *Project) workers(r *raster.Renderer) int {
	if p.Config.Workers > 0 {
		return p.Config.Workers
	}
	b := r.Bounds()
	return system.RecommendedWorkers(uint64(b.Dx() * b.Dy() * 4))
}

// frame builds the visual description of frame i, counting frames that
// no phase claims.
func (p *Project) frame(comp *composer.Composition, i int) (*scene.Frame, error) {
	f, err := comp.Frame(i)
	if err != nil {
		return nil, err
	}
	if !comp.Covers(i) {
		p.empty.Add(1)
	}
	return f, nil
}

func (p *Project) describe(ctx context.Context) error {
	if err := os.MkdirAll(p.Config.OutputPath, 0755); err != nil {
		return err
	}
	for _, id := range p.ids {
		comp, err := p.Registry.Composition(id)
		if err != nil {
			return err
		}
		start, end := p.span(comp)

		path := filepath.Join(p.Config.OutputPath, id+".yaml")
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		frames := make([]*scene.Frame, 0, end-start)
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				out.Close()
				return err
			}
			f, err := p.frame(comp, i)
			if err != nil {
				out.Close()
				return err
			}
			frames = append(frames, f)
		}
		if err := scene.Encode(out, frames...); err != nil {
			out.Close()
			return fmt.Errorf("%s: %w", id, err)
		}
		if err := out.Close(); err != nil {
			return err
		}
		p.stats.Frames += len(frames)
		p.Logger.InfoContext(logs.WithComposition(ctx, id), "[>] Описание сохранено", "path", path, "frames", len(frames))
	}
	return nil
}

func (p *Project) frames(ctx context.Context) error {
	renderStart := time.Now()
	for _, id := range p.ids {
		comp, err := p.Registry.Composition(id)
		if err != nil {
			return err
		}
		r, err := p.renderer(comp)
		if err != nil {
			return err
		}
		dir := filepath.Join(p.Config.OutputPath, id)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		start, end := p.span(comp)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers(r))
		for i := start; i < end; i++ {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				f, err := p.frame(comp, i)
				if err != nil {
					return err
				}
				img, err := r.Render(f.Root)
				if err != nil {
					return fmt.Errorf("%s frame %d: %w", id, i, err)
				}
				defer r.Release(img)
				return writePNG(filepath.Join(dir, fmt.Sprintf("frame_%05d.png", i)), img)
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		p.stats.Frames += end - start
		p.Logger.InfoContext(logs.WithComposition(ctx, id), "[>] Кадры сохранены", "dir", dir, "frames", end-start)
	}
	p.stats.Render = time.Since(renderStart)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (p *Project) video(ctx context.Context) error {
	var err error
	p.tempDir, err = os.MkdirTemp("", "loopreel_")
	if err != nil {
		return err
	}
	defer os.RemoveAll(p.tempDir)

	if dir := filepath.Dir(p.Config.OutputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	segments := make([]string, 0, len(p.ids))
	durations := make([]int, 0, len(p.ids))
	fps := 0
	// Одиночная сцена без аудио пишется сразу в итоговый файл.
	direct := len(p.ids) == 1 && p.Config.AudioPath == ""
	encodeStart := time.Now()
	for i, id := range p.ids {
		comp, err := p.Registry.Composition(id)
		if err != nil {
			return err
		}
		fps = comp.FPS
		start, end := p.span(comp)

		seg := filepath.Join(p.tempDir, fmt.Sprintf("s%02d.mp4", i))
		if direct {
			seg = p.Config.OutputPath
		}
		if err := p.segment(logs.WithComposition(ctx, id), comp, i, start, end, seg); err != nil {
			return fmt.Errorf("сегмент %s: %w", id, err)
		}
		segments = append(segments, seg)
		durations = append(durations, end-start)
		p.stats.Frames += end - start
		p.Logger.InfoContext(logs.WithComposition(ctx, id), fmt.Sprintf("[>] Готово: %d/%d", i+1, len(p.ids)), "frames", end-start)
	}
	p.stats.Encode = time.Since(encodeStart)

	if direct {
		return nil
	}

	p.Logger.InfoContext(ctx, "[*] Сборка финального видео (с эффектами переходов)...", "segments", len(segments))
	concatStart := time.Now()
	cfg := *p.Config
	if cfg.TransitionFrames == 0 {
		cfg.TransitionFrames = p.trans
	}
	if err := p.Encoder.Concatenate(ctx, segments, p.Config.OutputPath, p.tempDir, cfg, durations, fps); err != nil {
		return fmt.Errorf("ошибка сборки финального видео: %w", err)
	}
	p.stats.Concat = time.Since(concatStart)
	return nil
}

// segment encodes frames [start, end) of comp. Frames are rendered in
// parallel chunks and handed to the encoder in order.
func (p *Project) segment(ctx context.Context, comp *composer.Composition, index, start, end int, path string) error {
	r, err := p.renderer(comp)
	if err != nil {
		return err
	}
	b := r.Bounds()
	params := config.SegmentParams{
		Width:     b.Dx(),
		Height:    b.Dy(),
		OutWidth:  p.Config.Width,
		OutHeight: p.Config.Height,
		FPS:       comp.FPS,
		Frames:    end - start,
		Index:     index,
	}
	if len(p.ids) == 1 {
		params.FadeIn = p.Config.TransitionFrames
		params.FadeOut = p.Config.TransitionFrames
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	next, wait := p.stream(ctx, comp, r, start, end, p.workers(r))
	err = p.Encoder.EncodeFrames(ctx, path, params, next, r.Release)
	cancel()
	rendered, werr := wait()
	if err == nil && werr != nil && !errors.Is(werr, context.Canceled) {
		err = werr
	}
	p.stats.Render += rendered
	return err
}

// stream renders frames in chunks of 2*workers and yields them in order.
// wait drains what was not consumed and returns the time spent rendering
// along with the first render error.
func (p *Project) stream(ctx context.Context, comp *composer.Composition, r *raster.Renderer, start, end, workers int) (video.FrameSource, func() (time.Duration, error)) {
	out := make(chan *image.RGBA, workers)
	chunk := 2 * workers

	var rendering time.Duration
	var g errgroup.Group
	g.Go(func() error {
		defer close(out)
		for lo := start; lo < end; lo += chunk {
			hi := min(lo+chunk, end)
			imgs := make([]*image.RGBA, hi-lo)

			var rg errgroup.Group
			rg.SetLimit(workers)
			t0 := time.Now()
			for i := lo; i < hi; i++ {
				rg.Go(func() error {
					f, err := p.frame(comp, i)
					if err != nil {
						return err
					}
					img, err := r.Render(f.Root)
					if err != nil {
						return fmt.Errorf("frame %d: %w", i, err)
					}
					imgs[i-lo] = img
					return nil
				})
			}
			err := rg.Wait()
			rendering += time.Since(t0)
			if err != nil {
				release(r, imgs)
				return err
			}

			for k, img := range imgs {
				select {
				case out <- img:
				case <-ctx.Done():
					release(r, imgs[k:])
					return ctx.Err()
				}
			}
		}
		return nil
	})

	next := func() (*image.RGBA, error) {
		select {
		case img, ok := <-out:
			if !ok {
				if err := g.Wait(); err != nil {
					return nil, err
				}
				return nil, io.EOF
			}
			return img, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	wait := func() (time.Duration, error) {
		for img := range out {
			r.Release(img)
		}
		err := g.Wait()
		return rendering, err
	}
	return next, wait
}

func release(r *raster.Renderer, imgs []*image.RGBA) {
	for _, img := range imgs {
		if img != nil {
			r.Release(img)
		}
	}
}

func (p *Project) report() {
	p.stats.EmptyFrames = int(p.empty.Swap(0))
	s := p.stats
	fps := 0.0
	if s.Total > 0 {
		fps = float64(s.Frames) / s.Total.Seconds()
	}

	p.Logger.Info("[*] Статистика",
		"build", p.Config.BuildVersion,
		"composition", p.Config.Composition,
		"mode", p.Config.Mode,
		"frames", s.Frames,
		"empty_frames", s.EmptyFrames,
		"total", s.Total.Round(time.Millisecond),
		"render", s.Render.Round(time.Millisecond),
		"encode", s.Encode.Round(time.Millisecond),
		"concat", s.Concat.Round(time.Millisecond),
		"fps", fps,
	)
	if s.EmptyFrames > 0 {
		p.Logger.Warn("[!] Кадры вне фаз отрисованы пустыми", "count", s.EmptyFrames)
	}

	if !p.Config.ShowStats || p.Report == nil {
		return
	}
	fmt.Fprintf(p.Report,
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Composition: %s\n"+
			"Frames: %d\n"+
			"Total Time: %.2fs\n"+
			"Rendering (CPU): %.2fs\n"+
			"Encoding (GPU/CPU): %.2fs\n"+
			"Concatenation: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		p.Config.BuildVersion, p.Config.Composition, s.Frames,
		s.Total.Seconds(), s.Render.Seconds(), s.Encode.Seconds(), s.Concat.Seconds(), fps,
	)
}
