// Package main is the entry point for loopfind, a command-line tool that
// locates seamless loop points in music and can play the result back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/austinkregel/loopfind/internal/config"
	"github.com/austinkregel/loopfind/internal/loopfind"
	"github.com/austinkregel/loopfind/internal/loopstore"
	"github.com/austinkregel/loopfind/internal/loopworker"
	"github.com/austinkregel/loopfind/internal/pcm"
	"github.com/austinkregel/loopfind/internal/playback"
	"github.com/austinkregel/loopfind/internal/scanner"
)

// Version is set at build time via ldflags.
var Version = "dev"

// cliConfig holds the flags governing one invocation.
type cliConfig struct {
	InputPath  string
	LibraryDir string
	ConfigDir  string
	Play       bool
	Verbose    bool
}

func main() {
	cfg := parseFlags()

	if cfg.Verbose {
		log.Printf("loopfind version %s starting", Version)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("[MAIN] received signal %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("[MAIN] fatal error: %v", err)
	}
}

func parseFlags() *cliConfig {
	cfg := &cliConfig{}
	flag.StringVar(&cfg.InputPath, "input", "", "analyze a single WAV file and print its loop result as JSON")
	flag.StringVar(&cfg.LibraryDir, "library", "", "batch-analyze every recognized audio file under this directory")
	flag.StringVar(&cfg.ConfigDir, "config", "", "configuration directory (default: ~/.config/loopfind)")
	flag.BoolVar(&cfg.Play, "play", false, "after analyzing -input, play the best loop candidate")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "enable verbose logging")
	flag.Parse()

	if cfg.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("failed to get home directory: %v", err)
		}
		cfg.ConfigDir = homeDir + "/.config/loopfind"
	}
	return cfg
}

func run(ctx context.Context, cli *cliConfig) error {
	if cli.InputPath == "" && cli.LibraryDir == "" {
		return fmt.Errorf("one of -input or -library is required")
	}

	configMgr := config.NewManager(cli.ConfigDir)
	if err := configMgr.Load(); err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := configMgr.Get()

	if cli.InputPath != "" {
		return runSingle(ctx, cli, cfg)
	}
	return runBatch(ctx, cli, cfg)
}

func runSingle(ctx context.Context, cli *cliConfig, cfg *config.LoopFinderConfig) error {
	f, err := os.Open(cli.InputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cli.InputPath, err)
	}
	defer f.Close()

	raw, err := pcm.DecodeWAV(f)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", cli.InputPath, err)
	}

	factor := pcm.PickReductionFactor(raw.NumFrames(), cfg.FramerateReductionLimit, cfg.LengthLimit)
	audio := pcm.ConvertToFloatStereo(raw, factor)
	audio.FillMono()

	var result *loopfind.FindLoopResult
	if cfg.HasT1Estimate() || cfg.HasT2Estimate() {
		result, err = loopfind.FindLoopWithEstimate(audio, cfg)
	} else {
		result, err = loopfind.FindLoopNoEstimate(audio, cfg)
	}
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", cli.InputPath, err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))

	if cli.Play && len(result.BaseDurations) > 0 {
		return playBest(ctx, raw, result, factor)
	}
	return nil
}

func playBest(ctx context.Context, raw *pcm.AudioData, result *loopfind.FindLoopResult, reductionFactor int) error {
	if raw.Format != pcm.FormatInt16 {
		return fmt.Errorf("playback requires 16-bit PCM input")
	}

	startFrame := result.StartFrames[0][0] * reductionFactor
	endFrame := result.EndFrames[0][0] * reductionFactor

	player, err := playback.NewPlayer(int(raw.SampleRate), raw.NumChannels)
	if err != nil {
		return fmt.Errorf("starting playback: %w", err)
	}
	defer player.Close()

	player.Load(raw.Int16)
	player.SetLoopPoints(startFrame, endFrame)
	player.SetLoopPlayback(true)
	player.Play()

	log.Printf("[PLAYBACK] looping frames [%d, %d), press Ctrl+C to stop", startFrame, endFrame)
	<-ctx.Done()
	player.Stop()
	return nil
}

func runBatch(ctx context.Context, cli *cliConfig, cfg *config.LoopFinderConfig) error {
	scan := scanner.NewScanner()
	results := scan.ScanPaths(ctx, []string{cli.LibraryDir})

	var paths []string
	for _, r := range results {
		if r.Error != "" {
			log.Printf("[SCAN] %s: %s", r.LibraryPath, r.Error)
			continue
		}
		for _, f := range r.Files {
			paths = append(paths, f.Path)
		}
	}
	log.Printf("[SCAN] found %d audio files under %s", len(paths), cli.LibraryDir)

	cachePath := cfg.CachePath
	if cachePath == "" {
		cachePath = cli.ConfigDir + "/cache.json"
	}
	store, err := loopstore.Open(cachePath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	pool := loopworker.NewPool(cfg, store)
	err = pool.Run(ctx, paths, func(res loopworker.Result) {
		if res.Err != nil {
			log.Printf("[WORKER] %s failed: %v", res.Path, res.Err)
			return
		}
		source := "analyzed"
		if res.FromCache {
			source = "cached"
		}
		log.Printf("[WORKER] %s: %d candidates (%s)", res.Path, len(res.Loop.BaseDurations), source)
	})
	if saveErr := store.Save(); saveErr != nil {
		log.Printf("[CACHE] failed to save: %v", saveErr)
	}
	return err
}
