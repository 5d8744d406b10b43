package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/LeJamon/goPayproc/internal/core/engine"
	"github.com/LeJamon/goPayproc/internal/core/money"
	"github.com/LeJamon/goPayproc/internal/core/shard"
)

// Stats summarizes one pipeline run, reported in the teacher's startup/
// shutdown-banner idiom (internal/cli/server.go prints an analogous
// summary on the original repo).
type Stats struct {
	Submitted int
	Rejected  int
}

// Driver reads an input CSV stream, validates each record, submits it to
// an Engine, then drives Finalize and Snapshot to produce the output
// CSV (spec §2 pipeline driver, §6 external interfaces).
type Driver struct {
	Engine *engine.Engine
	Logger *log.Logger
}

// NewDriver returns a Driver over the given Engine. A nil logger falls
// back to log.Default().
func NewDriver(e *engine.Engine, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{Engine: e, Logger: logger}
}

// Run reads the header-required input CSV from r, submitting every
// validated row to the Engine, then finalizes the engine and writes the
// output CSV to w. A malformed row is logged and skipped; it never
// aborts the stream (spec §7). A missing header, an I/O failure on the
// input stream, or a failure to finalize or write the output is fatal.
func (d *Driver) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return stats, fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)
		}
		return stats, fmt.Errorf("read header: %w", err)
	}

	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Rejected++
				d.Logger.Printf("reject: malformed row: %v", err)
				continue
			}
			return stats, fmt.Errorf("read input: %w", err)
		}

		tx, err := ParseRecord(fields)
		if err != nil {
			stats.Rejected++
			d.Logger.Printf("reject: malformed row %v: %v", fields, err)
			continue
		}

		if err := d.Engine.Submit(ctx, tx); err != nil {
			stats.Rejected++
			d.Logger.Printf("reject: tx=%d client=%d: %v", tx.Tx, tx.Client, err)
			continue
		}
		stats.Submitted++
	}

	if err := d.Engine.Finalize(); err != nil {
		return stats, fmt.Errorf("finalize: %w", err)
	}

	snapshots, err := d.Engine.Snapshot()
	if err != nil {
		return stats, fmt.Errorf("snapshot: %w", err)
	}

	if err := writeSnapshots(w, snapshots); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}

	d.Logger.Printf("processed %s transactions, %s rejected, %s accounts emitted",
		humanize.Comma(int64(stats.Submitted)),
		humanize.Comma(int64(stats.Rejected)),
		humanize.Comma(int64(len(snapshots))))

	return stats, nil
}

func writeSnapshots(w io.Writer, snapshots []shard.Snapshot) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}
	for _, s := range snapshots {
		row := []string{
			strconv.FormatUint(uint64(s.Client), 10),
			formatUnits(s.Available),
			formatUnits(s.Held),
			formatUnits(s.Total),
			strconv.FormatBool(s.Locked),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return writer.Error()
}

func formatUnits(units int64) string {
	return money.FromUnits(units).String()
}
