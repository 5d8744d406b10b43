// Package cli implements the thin command surface around the payments
// core: one positional argument (the input CSV path), following the
// teacher's cobra root-command idiom (internal/cli/root.go) scaled down
// to this core's single-command shape. Per spec §1, CLI argument
// handling is a trivial external collaborator; no business logic lives
// here beyond wiring flags through to internal/config and
// internal/pipeline.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	numShards  int
)

var rootCmd = &cobra.Command{
	Use:   "payproc [input.csv]",
	Short: "payproc - a sharded streaming payments processor",
	Long: `payproc reads a CSV stream of deposit/withdrawal/dispute/resolve/
chargeback transactions, applies them through a shard-partitioned
concurrent engine that preserves per-client order, and emits the final
per-client account snapshot to standard output.`,
	Version: "0.1.0-dev",
	Args:    cobra.ExactArgs(1),
	RunE:    runProcess,
}

// Execute adds all child commands to the root command and runs it. It is
// called once by cmd/payproc's main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "optional configuration file path")
	rootCmd.Flags().IntVar(&numShards, "shards", 0, "override the engine's shard count (default: num_shards from config, or NumCPU)")
}
