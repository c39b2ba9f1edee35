package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ivlev/loopreel/internal/config"
	"github.com/ivlev/loopreel/internal/engine"
	"github.com/ivlev/loopreel/internal/logs"
	"github.com/ivlev/loopreel/internal/scenes"
	"github.com/ivlev/loopreel/internal/system"
	"github.com/ivlev/loopreel/internal/timeline"
	"github.com/ivlev/loopreel/internal/video"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	// Создаем нужные директории, если их нет
	for _, d := range []string{"input/audio", "input/timelines", "output"} {
		os.MkdirAll(d, 0755)
	}

	compositionPtr := flag.String("composition", "EP2", "Сцена или эпизод (список: -list)")
	outputPtr := flag.String("output", "", "Путь к видео или папка для frames/describe (если пусто, генерируется в output/)")
	modePtr := flag.String("mode", config.ModeVideo, "Режим: video, frames (PNG), describe (YAML)")
	frameStartPtr := flag.Int("frame-start", 0, "Первый кадр (только для одной сцены)")
	frameEndPtr := flag.Int("frame-end", 0, "Кадр после последнего (0 - до конца сцены)")
	widthPtr := flag.Int("width", 0, "Ширина видео (0 - 1920)")
	heightPtr := flag.Int("height", 0, "Высота видео (0 - 1080)")
	presetPtr := flag.String("preset", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	scalePtr := flag.Float64("scale", 1, "Масштаб рендера (0.5 - черновик)")
	workersPtr := flag.Int("workers", 0, "Потоки рендера (0 - по числу ядер и памяти)")
	transitionPtr := flag.String("transition", "fade", "Тип перехода xfade: fade, wipeleft, slideup, dissolve, none")
	transitionFramesPtr := flag.Int("transition-frames", 0, "Длина перехода в кадрах (0 - по эпизоду)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	audioPtr := flag.String("audio", "", "Путь к аудио (для эпизода по умолчанию: самый свежий файл в input/audio/)")
	timelinePtr := flag.String("timeline", "", "YAML с таймлайнами (по умолчанию: самый свежий файл в input/timelines/)")
	dumpPtr := flag.Bool("dump-timelines", false, "Сохранить встроенные таймлайны в input/timelines/ и выйти")
	listPtr := flag.Bool("list", false, "Показать сцены и эпизоды")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")
	logLevelPtr := flag.String("log-level", "info", "Уровень логов: debug, info, warn, error")
	logFilePtr := flag.String("log-file", "", "Файл для JSON-логов (дописывается)")

	flag.Parse()

	logger, closer, err := logs.New(logs.Options{Level: *logLevelPtr, File: *logFilePtr})
	if err != nil {
		log.Fatalf("[-] Ошибка логгера: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	if *dumpPtr {
		path := timeline.GeneratePath("input/timelines")
		doc := timeline.NewDocument(timeline.ContextAssembly, timeline.AgentLoopBreakdown, timeline.LoopPreview)
		if err := timeline.WriteFile(doc, path); err != nil {
			log.Fatalf("[-] Ошибка сохранения таймлайнов: %v", err)
		}
		fmt.Printf("[+++] Успех! Таймлайны сохранены: %s\n", path)
		return
	}

	timelinePath := *timelinePtr
	if timelinePath == "" {
		if latest, err := timeline.FindLatest("input/timelines"); err == nil {
			timelinePath = latest
			fmt.Printf("[*] Выбран таймлайн: %s\n", timelinePath)
		}
	}
	var overrides map[string]*timeline.Timeline
	if timelinePath != "" {
		overrides, err = timeline.Load(timelinePath)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения таймлайнов: %v", err)
		}
	}
	registry := scenes.NewRegistry(overrides)

	if *listPtr {
		for _, id := range registry.IDs() {
			frames, _ := registry.SeriesDuration(id)
			fmt.Printf("%-32s %6d кадров  %7.1fs\n", id, frames, float64(frames)/timeline.FPS)
		}
		return
	}

	_, isEpisode := registry.Episode(*compositionPtr)

	audioPath := *audioPtr
	if audioPath == "" && isEpisode && *modePtr == config.ModeVideo {
		if latest, err := system.FindLatestFile("input/audio", ".mp3", ".m4a", ".wav", ".aac"); err == nil {
			audioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", audioPath)
		}
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		cleanName := strings.ReplaceAll(*compositionPtr, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		if *modePtr == config.ModeVideo {
			finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
		} else {
			finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s", cleanName, timestamp))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &config.Config{
		Composition:      *compositionPtr,
		OutputPath:       finalOutput,
		Mode:             *modePtr,
		FrameStart:       *frameStartPtr,
		FrameEnd:         *frameEndPtr,
		Width:            *widthPtr,
		Height:           *heightPtr,
		Preset:           *presetPtr,
		Scale:            *scalePtr,
		Workers:          *workersPtr,
		TransitionType:   *transitionPtr,
		TransitionFrames: *transitionFramesPtr,
		Quality:          *qualityPtr,
		AudioPath:        audioPath,
		TimelineFile:     timelinePath,
		ShowStats:        *statsPtr,
		BuildVersion:     buildVersion,
		LogLevel:         *logLevelPtr,
		LogFile:          *logFilePtr,
	}

	var ve video.VideoEncoder
	if cfg.Mode == config.ModeVideo {
		if err := system.CheckFFmpeg(); err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		encoderName, _ := system.GetBestH264Encoder(ctx)
		if encoderName != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
		if cfg.TransitionType != "none" && !system.CheckFilterSupport(ctx, "xfade") {
			logger.Warn("[!] ffmpeg без xfade, переходы отключены")
			cfg.TransitionType = "none"
		}
		cfg.VideoEncoder = encoderName
		if cfg.Quality == 0 {
			cfg.Quality = config.DefaultQuality(encoderName)
		}
		ve = &video.FFmpegEncoder{EncoderName: encoderName, Quality: cfg.Quality, PadColor: string(scenes.Background)}
	}

	project := engine.NewProject(cfg, registry, ve, logger)
	project.Report = os.Stdout
	if err := project.Validate(); err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	fmt.Println("--- [PROJECT: LOOPREEL] ---")
	fmt.Printf("[*] Композиция: %s | Режим: %s\n", cfg.Composition, cfg.Mode)
	if frames, err := registry.SeriesDuration(cfg.Composition); err == nil {
		fmt.Printf("[*] Кадров: %d @ %d FPS (%.1fs) | Масштаб: %.2f\n", frames, timeline.FPS, float64(frames)/timeline.FPS, cfg.Scale)
	}
	fmt.Println("-----------------------------")

	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputPath)
}
