// ABOUTME: Entry point for setlist-sidecar
// ABOUTME: Handles command-line parsing, profiling, and routing to CLI or TUI modes

// Package main provides the entry point for setlist-sidecar, a live DJ set
// companion that orders a playlist for harmonic flow and places song requests.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"

	"setlist-sidecar/config"
	"setlist-sidecar/library"
	"setlist-sidecar/playlist"
	"setlist-sidecar/setlist"
	"setlist-sidecar/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	configPath := flag.String("config", "", "config file, .toml or .yaml (default: ./setlist-sidecar.toml or ~/.config/setlist-sidecar/config.toml)")
	importDir := flag.String("import", "", "rebuild the track library from the *.txt exports in this directory")
	libraryDB := flag.String("library", "", "track library database (default from config)")
	request := flag.String("request", "", "find the best spot for a requested title (CLI mode)")
	cursor := flag.Int("cursor", 1, "number of the track now playing, for --request")
	lookahead := flag.Int("lookahead", -1, "upcoming tracks searched for the local spot (default from config)")
	apply := flag.String("apply", "", "insert the request at the \"local\" or \"global\" spot")
	visual := flag.Bool("visual", false, "run the interactive live-set sidecar")
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogName)
	output := flag.String("output", "", "write the ordered set to this M3U8 file")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel tag readers for local playlists")
	flag.Parse()

	args := flag.Args()
	if len(args) > 1 || (len(args) == 0 && *importDir == "") {
		fmt.Println("Usage: setlist-sidecar [flags] <playlist-url | playlist.m3u8>")
		fmt.Println("       setlist-sidecar --import <exports dir>")
		fmt.Println("Example: setlist-sidecar --visual --output tonight.m3u8 https://soundcloud.com/someone/sets/warmup")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	if err := SetupDebugLog(*debug, *visual); err != nil {
		log.Printf("Failed to setup debug log: %v", err)

		return 1
	}

	path := *configPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("Config error: %v", err)

		return 1
	}

	// Flags override config
	if *lookahead >= 0 {
		cfg.Lookahead = *lookahead
	}

	if *libraryDB != "" {
		cfg.LibraryDB = *libraryDB
	}

	if *importDir != "" {
		cfg.ExportDir = *importDir
	}

	debugf("config %s: %+v", path, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-stop
		cancel()
	}()

	lib, err := openLibrary(ctx, cfg, *importDir, isTTY(os.Stdout))
	if err != nil {
		log.Printf("Library error: %v", err)

		return 1
	}

	if lib != nil {
		defer func() {
			if err := lib.Close(); err != nil {
				log.Printf("Warning: failed to close library: %v", err)
			}
		}()
	}

	if len(args) == 0 {
		// Import only
		return 0
	}

	session, err := loadSession(ctx, LoadOptions{Ref: args[0], Workers: *workers, Verbose: !*visual}, cfg, lib)
	if err != nil {
		log.Printf("Error: %v", err)

		return 1
	}

	cost := setlist.WeightedCost(cfg.HarmonicWeight, cfg.TempoWeight)

	if *visual {
		if err := runTUI(ctx, session, lib, cfg, tui.Options{
			SetName:    args[0],
			OutputPath: *output,
			Lookahead:  cfg.Lookahead,
			Cost:       cost,
		}); err != nil {
			log.Printf("TUI error: %v", err)

			return 1
		}

		return 0
	}

	if err := RunCLI(os.Stdout, session, lib, CLIOptions{
		Request:    *request,
		Cursor:     *cursor,
		Apply:      *apply,
		OutputPath: *output,
		Lookahead:  cfg.Lookahead,
		Cost:       cost,
	}); err != nil {
		log.Printf("CLI error: %v", err)

		return 1
	}

	return 0
}

// runTUI wires the library, export watcher and playlist writer into the TUI
func runTUI(ctx context.Context, session *setlist.Session, lib *library.Library, cfg config.Config, opts tui.Options) error {
	deps := tui.Dependencies{
		WritePlaylist: playlist.WritePlaylist,
		Debugf:        debugf,
	}

	// deps.Library stays a nil interface when there is no library
	if lib != nil {
		deps.Library = lib

		if cfg.WatchExports {
			watcher, err := library.NewWatcher(cfg.ExportDir)
			if err != nil {
				log.Printf("Warning: not watching library exports: %v", err)
			} else {
				defer func() { _ = watcher.Close() }()

				deps.Watcher = watcher
				deps.Reimport = func(ctx context.Context) error {
					_, err := lib.ImportDir(ctx, cfg.ExportDir, nil)

					return err
				}
			}
		}
	}

	return tui.Run(ctx, session, opts, deps)
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
