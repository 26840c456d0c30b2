package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"os/exec"

	"github.com/ah-its-andy/rawbatch/internal/config"
	"github.com/ah-its-andy/rawbatch/internal/converter"
	"github.com/ah-its-andy/rawbatch/internal/logging"
	"github.com/ah-its-andy/rawbatch/internal/scanner"
	"github.com/ah-its-andy/rawbatch/internal/worker"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		logging.Error.Printf("%v", err)
		return 2
	}
	logging.SetLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrRootMissing) {
			logging.Error.Printf("Directory does not exist, please provide a valid directory: %v", err)
		} else {
			logging.Error.Printf("invalid configuration: %v", err)
		}
		return 1
	}

	logging.Info.Printf("Configuration loaded:")
	logging.Info.Printf("  Directory: %s", cfg.Directory)
	logging.Info.Printf("  Destination: %s", cfg.Destination)
	logging.Info.Printf("  Max Workers: %d", cfg.MaxWorkers)
	logging.Info.Printf("  Poll Interval: %s x %d", cfg.PollInterval, cfg.IdlePolls)
	logSupportedFormats(converter.DefaultRegistry())

	checkExternalTools(cfg.DcrawPath)

	pipeline := converter.NewPipeline(
		converter.NewDcrawDecoder(cfg.DcrawPath),
		converter.NewSharpenEncoder(cfg.JPEGQuality),
	)
	return execute(context.Background(), cfg, pipeline)
}

// execute scans to completion, then drains the queue with the worker pool.
func execute(ctx context.Context, cfg *config.Config, conv worker.Converter) int {
	queue := worker.NewQueue()

	logging.Info.Println("Initializing scanner")
	sc := scanner.New(converter.DefaultRegistry(), queue)
	if _, err := sc.Scan(ctx, cfg.Directory, cfg.Destination); err != nil {
		logging.Error.Printf("scan of %s failed: %v", cfg.Directory, err)
		return 1
	}
	// workers read an idle queue as end of input, so nothing may be added from here on
	queue.StopAccepting()

	pool := worker.NewPool(worker.PoolConfig{
		Workers:      cfg.MaxWorkers,
		PollInterval: cfg.PollInterval,
		IdlePolls:    cfg.IdlePolls,
	}, queue, conv)
	pool.Run(ctx)
	return 0
}

func logSupportedFormats(formats *converter.Registry) {
	for _, f := range formats.List() {
		logging.Info.Printf("  Format: %s (%s %s)", f.Extension, f.Vendor, f.Name)
	}
}

func checkExternalTools(dcraw string) {
	if _, err := exec.LookPath(dcraw); err != nil {
		logging.Warn.Printf("%s: NOT FOUND (required for raw decoding)", dcraw)
		return
	}
	logging.Info.Printf("%s: found", dcraw)
}
