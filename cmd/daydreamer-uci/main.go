// Command daydreamer-uci runs the engine behind the UCI text protocol.
package main

import (
	"flag"
	"os"
	"runtime/pprof"

	"github.com/forkme7/daydreamer/internal/config"
	"github.com/forkme7/daydreamer/internal/engine"
	"github.com/forkme7/daydreamer/internal/logging"
	"github.com/forkme7/daydreamer/internal/storage"
	"github.com/forkme7/daydreamer/internal/uci"
)

var (
	configPath = flag.String("config", "", "path to config.toml (default ~/.daydreamer/config.toml)")
	hashMB     = flag.Int("hash", 0, "transposition table size in MB (overrides config)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	logLevel   = flag.String("loglevel", "", "log threshold: debug, info, warning, error")
)

func main() {
	flag.Parse()
	log := logging.GetLog("main")

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		log.Warningf("using default configuration: %v", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	logging.SetLevel(cfg.LogLevel)

	var store *storage.Storage
	if cfg.StorageEnabled {
		store, err = storage.NewStorage()
		if err != nil {
			log.Warningf("stats storage disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
			// Saved option values pick up where the last session ended.
			if prefs, err := store.LoadPreferences(); err == nil {
				if prefs.HashMB > 0 {
					cfg.HashMB = prefs.HashMB
				}
				if prefs.MultiPV > 0 {
					cfg.MultiPV = prefs.MultiPV
				}
				cfg.Ponder = prefs.Ponder
			}
		}
	}

	if *hashMB > 0 {
		cfg.HashMB = *hashMB
	}

	eng := engine.New(cfg.HashMB)
	opts := eng.Options()
	opts.HashMB = cfg.HashMB
	opts.MultiPV = cfg.MultiPV
	opts.Ponder = cfg.Ponder

	protocol := uci.New(eng, store)
	protocol.Run(os.Stdin)
}
