// Command steplift batch-converts a directory of chart files from one
// pad layout to another, driving the core's convert operation
// concurrently across a bounded worker pool. Conversions share only
// immutable pad models and step graphs, so they run in parallel
// without coordination.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"steplift/chartfile"
	"steplift/convert"
	"steplift/express"
	"steplift/internal/graphcache"
	"steplift/pad"
	"steplift/paddata"
	"steplift/perform"
	"steplift/stepgraph"
)

func main() {
	configPath := flag.String("config", "steplift.toml", "path to batch config file")
	jsonLogs := flag.Bool("json", false, "emit structured JSON logs instead of console output")
	flag.Parse()

	if *jsonLogs {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath); err != nil {
		log.Error().Err(err).Msg("batch run failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, err := loadBatchConfig(configPath)
	if err != nil {
		return err
	}

	sourceDef, ok := paddata.Load(cfg.SourcePad)
	if !ok {
		return fmt.Errorf("unknown source pad %q", cfg.SourcePad)
	}
	targetDef, ok := paddata.Load(cfg.TargetPad)
	if !ok {
		return fmt.Errorf("unknown target pad %q", cfg.TargetPad)
	}

	sourcePad, err := pad.Build(sourceDef)
	if err != nil {
		return fmt.Errorf("build source pad: %w", err)
	}
	targetPad, err := pad.Build(targetDef)
	if err != nil {
		return fmt.Errorf("build target pad: %w", err)
	}

	cache, err := graphcache.Open(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open graph cache: %w", err)
	}
	defer cache.Close()

	sourceGraph, err := cache.BuildOrLoad(sourcePad)
	if err != nil {
		return fmt.Errorf("build source graph: %w", err)
	}
	targetGraph, err := cache.BuildOrLoad(targetPad)
	if err != nil {
		return fmt.Errorf("build target graph: %w", err)
	}

	expressCfg, err := cfg.expressionConfig()
	if err != nil {
		return fmt.Errorf("expression config: %w", err)
	}
	performCfg := cfg.performanceConfig()

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var inputs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".chart.json") {
			inputs = append(inputs, e.Name())
		}
	}

	var passed, failed int
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))

	for _, name := range inputs {
		name := name
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			jobID := uuid.New().String()
			logger := log.With().Str("job", jobID).Str("chart", name).Logger()

			if err := convertOne(ctx, cfg, sourcePad, sourceGraph, targetPad, targetGraph, expressCfg, performCfg, name, jobID); err != nil {
				logger.Error().Err(err).Time("failed_at", time.Now()).Msg("chart conversion failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}
			logger.Info().Msg("chart converted")
			mu.Lock()
			passed++
			mu.Unlock()
		}()
	}
	wg.Wait()

	log.Info().Int("passed", passed).Int("failed", failed).Msg("batch complete")
	if failed > 0 {
		return fmt.Errorf("%d of %d charts failed", failed, passed+failed)
	}
	return nil
}

func convertOne(
	ctx context.Context,
	cfg batchConfig,
	sourcePad *pad.Model,
	sourceGraph *stepgraph.Graph,
	targetPad *pad.Model,
	targetGraph *stepgraph.Graph,
	expressCfg express.Config,
	performCfg perform.Config,
	name string,
	jobID string,
) error {
	inPath := filepath.Join(cfg.InputDir, name)
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	notes, meta, err := chartfile.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}

	seed := cfg.Seed
	if seed == 0 {
		switch cfg.SeedMode {
		case seedModeUUID:
			seed = seedFromString(jobID)
		default:
			seed = seedFromString(name)
		}
	}

	out, err := convert.Convert(ctx, notes, sourcePad, sourceGraph, targetPad, targetGraph, expressCfg, performCfg, seed)
	if err != nil {
		return fmt.Errorf("convert %s: %w", name, err)
	}

	encoded, err := chartfile.Write(out, meta)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	outPath := filepath.Join(cfg.OutputDir, name)
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// seedFromString hashes a chart's file name or its job uuid into a
// seed (FNV-1a): filename-derived seeds reproduce each chart's output
// across batch runs, uuid-derived seeds give every run a fresh one.
func seedFromString(s string) uint64 {
	var h uint64 = 14695981039346656037
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
