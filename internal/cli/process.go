package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goPayproc/internal/config"
	"github.com/LeJamon/goPayproc/internal/core/engine"
	"github.com/LeJamon/goPayproc/internal/pipeline"
)

// runProcess is the single payproc command: open the input CSV, run it
// through the engine, write the snapshot CSV to stdout. Exit code 0 on
// success; non-zero if the input file cannot be opened (spec §6).
// Malformed rows never change the exit code.
func runProcess(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if numShards > 0 {
		cfg.NumShards = numShards
	}

	f, err := os.Open(inputPath)
	if err != nil {
		// Returning an error here is the one case that must change the
		// exit code: the input could not be opened at all (spec §6).
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	eng := engine.New(engine.Config{
		NumShards:     cfg.NumShards,
		QueueCapacity: cfg.QueueCapacity,
		Logger:        logger,
	})

	driver := pipeline.NewDriver(eng, logger)
	if _, err := driver.Run(context.Background(), f, os.Stdout); err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}
	return nil
}
