// Wildfire simulates a fuzzy-logic cellular automaton wildfire spread
// model and serves a live view of the running grid over HTTP. The
// simulation parameters, land cover raster, and worker count are read
// from a YAML config file; this binary otherwise only wires the
// pieces together and advances the clock.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"wildfire/config"
	"wildfire/engine"
	"wildfire/landcover"
	"wildfire/server"
)

var (
	configPath *string
	debug      *bool
)

// TODO: per 12-factor rules these should be overridable by env too; KISS for now.
func init() {
	configPath = flag.String("config", "./config.yaml", "path to the run's YAML config file")
	debug = flag.Bool("debug", false, "verbose per-step logging")
}

// loadLandCover reads a plain CSV matrix of land-cover class codes.
// Decoding georeferenced raster formats (GeoTIFF, etc.) is out of
// scope; a front end for those would decode to this same [][]int
// shape and call landcover.LoadRaster directly.
func loadLandCover(path string) (*landcover.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}

	grid := make([][]int, len(records))
	for y, row := range records {
		grid[y] = make([]int, len(row))
		for x, field := range row {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("land cover csv (%d,%d): %w", x, y, err)
			}
			grid[y][x] = v
		}
	}
	return landcover.LoadRaster(grid)
}

func buildEngine(cfg *config.RunConfig) (*engine.Engine, error) {
	raster, err := loadLandCover(cfg.LandCoverPath)
	if err != nil {
		return nil, fmt.Errorf("land cover: %w", err)
	}

	windDir, err := cfg.WindDirection()
	if err != nil {
		return nil, err
	}
	windPolicy, err := cfg.WindPolicyValue()
	if err != nil {
		return nil, err
	}
	fuzzyVariant, err := cfg.FuzzyVariantValue()
	if err != nil {
		return nil, err
	}
	neighborPolicy, err := cfg.NeighborPolicyValue()
	if err != nil {
		return nil, err
	}

	e, err := engine.New(engine.Config{
		LandCover:      raster,
		WindDir:        windDir,
		WindSpeed:      cfg.Environment.WindSpeed,
		Humidity:       cfg.Environment.Humidity,
		Temperature:    cfg.Environment.Temperature,
		NeighborPolicy: neighborPolicy,
		WindPolicy:     windPolicy,
		FuzzyVariant:   fuzzyVariant,
		DFire:          cfg.Durations.DFire,
		DOut:           cfg.Durations.DOut,
		Seed:           cfg.Seed,
		NWorkers:       cfg.NWorkers,
	})
	if err != nil {
		return nil, err
	}

	e.IgniteRandom(cfg.IgnitionSeed)
	return e, nil
}

// runSimulation advances e one step per tick, pushing a snapshot to
// snapshotUpdates after every step. It runs for steps steps, or
// forever when steps <= 0, and stops early when ctx is cancelled or a
// step fails.
func runSimulation(
	ctx context.Context,
	e *engine.Engine,
	steps int,
	snapshotUpdates chan<- [][]int,
) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; steps <= 0 || i < steps; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := e.Step(); err != nil {
				log.Printf("step %d: %v", i, err)
				return
			}
			if *debug {
				stats := e.Stats()
				log.Printf("run %s step %d: ignited=%d consumed=%d",
					e.RunID(), i, int(stats.Ignited.Read()), int(stats.Consumed.Read()))
			}
			select {
			case snapshotUpdates <- e.Snapshot():
			case <-ctx.Done():
				return
			}
		}
	}
}

func runApp() error {
	cfg, err := config.FromYaml(*configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	e, err := buildEngine(cfg)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	log.Printf("run %s: wind=%s@%.1f humidity=%.1f temperature=%.1f",
		e.RunID(), e.WindDirection(), e.WindSpeed(), e.Humidity(), e.Temperature())

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	snapshotUpdates := make(chan [][]int)
	go runSimulation(appCtx, e, cfg.Steps, snapshotUpdates)

	srv := server.New(appCtx, cfg.ServerAddr, e.RunID(), snapshotUpdates)
	return srv.Serve()
}

func main() {
	flag.Parse()
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
