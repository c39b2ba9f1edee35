package video

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/config"
)

// FrameSource yields frames in order and returns io.EOF after the last one.
// Encoders call release on every frame once its bytes are written.
type FrameSource func() (*image.RGBA, error)

type VideoEncoder interface {
	EncodeFrames(ctx context.Context, videoPath string, params config.SegmentParams, next FrameSource, release func(*image.RGBA)) error
	Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, cfg config.Config, durations []int, fps int) error
}

type FFmpegEncoder struct {
	EncoderName string
	Quality     int
	PadColor    string // letterbox color, #RRGGBB
}

func (e *FFmpegEncoder) EncodeFrames(
	ctx context.Context,
	videoPath string,
	params config.SegmentParams,
	next FrameSource,
	release func(*image.RGBA),
) error {
	args := e.buildFFmpegArgs(videoPath, params)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	w := bufio.NewWriterSize(stdin, params.Width*params.Height*4)
	written, werr := e.pump(w, params, next, release)
	if werr == nil {
		werr = w.Flush()
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		if werr != nil {
			return fmt.Errorf("write raw error: %w", werr)
		}
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, stderr.String())
	}
	if werr != nil {
		return fmt.Errorf("write raw error: %w", werr)
	}
	if written != params.Frames {
		return fmt.Errorf("segment %d: wrote %d frames, expected %d", params.Index, written, params.Frames)
	}
	return nil
}

func (e *FFmpegEncoder) pump(w io.Writer, params config.SegmentParams, next FrameSource, release func(*image.RGBA)) (int, error) {
	written := 0
	for {
		img, err := next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}
		err = writeRawRGBA(w, img, params.Width, params.Height)
		if release != nil {
			release(img)
		}
		if err != nil {
			return written, err
		}
		written++
	}
}

func (e *FFmpegEncoder) buildFFmpegArgs(videoPath string, params config.SegmentParams) []string {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", fmt.Sprintf("%d", params.FPS),
		"-i", "-",
		"-vf", OutputFilter(params, padColorFromHex(e.PadColor)),
		"-r", fmt.Sprintf("%d", params.FPS),
		"-pix_fmt", "yuv420p",
		"-c:v", e.encoder(),
	}
	args = append(args, qualityArgs(e.encoder(), e.Quality)...)
	args = append(args, videoPath)
	return args
}

func (e *FFmpegEncoder) encoder() string {
	if e.EncoderName == "" {
		return "libx264"
	}
	return e.EncoderName
}

// Качество в зависимости от энкодера
func qualityArgs(encoderName string, quality int) []string {
	if quality <= 0 {
		quality = config.DefaultQuality(encoderName)
	}
	switch encoderName {
	case "h264_videotoolbox":
		// VideoToolbox часто не поддерживает -q:v напрямую на всех версиях. Используем битрейт.
		bitrate := quality * 100 // кбит/с. 75 -> 7.5Мбит/с
		return []string{"-b:v", fmt.Sprintf("%dk", bitrate)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

// writeRawRGBA пишет кадр как есть, если его буфер плотный и нужного
// размера, иначе перерисовывает его в промежуточный буфер.
func writeRawRGBA(w io.Writer, img *image.RGBA, width, height int) error {
	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height &&
		img.Stride == width*4 && bounds.Min == (image.Point{}) {
		_, err := w.Write(img.Pix)
		return err
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if bounds.Dx() == width && bounds.Dy() == height {
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	}
	_, err := w.Write(dst.Pix)
	return err
}

func transitionEnabled(cfg config.Config, segments int) bool {
	return cfg.TransitionType != "" && cfg.TransitionType != "none" &&
		cfg.TransitionFrames > 0 && segments > 1
}

func (e *FFmpegEncoder) Concatenate(ctx context.Context, segmentPaths []string, finalPath string, tmpDir string, cfg config.Config, durations []int, fps int) error {
	if len(segmentPaths) == 0 {
		return errors.New("no segments to concatenate")
	}
	if len(durations) != len(segmentPaths) {
		return fmt.Errorf("got %d durations for %d segments", len(durations), len(segmentPaths))
	}

	// Без переходов и аудио сегменты склеиваются без перекодирования.
	if !transitionEnabled(cfg, len(segmentPaths)) && cfg.AudioPath == "" {
		concatFilePath := filepath.Join(tmpDir, "inputs.txt")
		if err := writeConcatList(concatFilePath, segmentPaths); err != nil {
			return err
		}

		cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
			"-f", "concat", "-safe", "0", "-i", concatFilePath,
			"-c", "copy", finalPath,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("ffmpeg concat error: %v, output: %s", err, string(out))
		}
		return nil
	}

	args, err := e.buildConcatArgs(segmentPaths, finalPath, cfg, durations, fps)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg xfade error: %v, output: %s", err, string(out))
	}
	return nil
}

func writeConcatList(path string, segmentPaths []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	for _, p := range segmentPaths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			absPath = p
		}
		fmt.Fprintf(f, "file '%s'\n", absPath)
	}
	return f.Close()
}

func (e *FFmpegEncoder) buildConcatArgs(segmentPaths []string, finalPath string, cfg config.Config, durations []int, fps int) ([]string, error) {
	args := []string{"-y"}
	for _, p := range segmentPaths {
		args = append(args, "-i", p)
	}

	audioIndex := -1
	if cfg.AudioPath != "" {
		audioIndex = len(segmentPaths)
		args = append(args, "-i", cfg.AudioPath)
	}

	filterGraph, lastOut, err := xfadeGraph(cfg, durations, fps)
	if err != nil {
		return nil, err
	}
	if filterGraph != "" {
		args = append(args, "-filter_complex", filterGraph)
	}

	// Настройка маппинга
	args = append(args, "-map", lastOut)
	if audioIndex != -1 {
		args = append(args, "-map", fmt.Sprintf("%d:a", audioIndex), "-shortest")
	}

	args = append(args, "-c:v", e.encoder(), "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(e.encoder(), e.Quality)...)
	args = append(args, finalPath)
	return args, nil
}

// xfadeGraph chains segments with xfade at the episode's cut offsets, or
// with the concat filter when transitions are off.
func xfadeGraph(cfg config.Config, durations []int, fps int) (string, string, error) {
	n := len(durations)
	if n == 1 {
		return "", "[0:v]", nil
	}

	var graph strings.Builder
	if !transitionEnabled(cfg, n) {
		for i := 0; i < n; i++ {
			fmt.Fprintf(&graph, "[%d:v]", i)
		}
		fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0[vconcat]", n)
		return graph.String(), "[vconcat]", nil
	}

	if err := composer.ValidateSeries(durations, cfg.TransitionFrames); err != nil {
		return "", "", err
	}
	offsets := composer.SeriesOffsets(durations, cfg.TransitionFrames)
	fade := seconds(cfg.TransitionFrames, fps)

	lastOut := "[0:v]"
	for i := 1; i < n; i++ {
		outName := fmt.Sprintf("[v%d]", i)
		if i > 1 {
			graph.WriteString(";")
		}
		fmt.Fprintf(&graph, "%s[%d:v]xfade=transition=%s:duration=%f:offset=%f%s",
			lastOut, i, cfg.TransitionType, fade, seconds(offsets[i], fps), outName)
		lastOut = outName
	}
	return graph.String(), lastOut, nil
}
