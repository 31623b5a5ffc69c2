// Command settlebook replays a CSV transaction log and prints the final
// state of every client account as CSV on stdout.
//
// Usage:
//
//	settlebook <transactions.csv>
//
// LOG_LEVEL (error by default) controls diagnostic output on stderr.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/settlebook/settlebook/internal/config"
	"github.com/settlebook/settlebook/internal/engine"
	"github.com/settlebook/settlebook/internal/event"
	"github.com/settlebook/settlebook/internal/log"
	"github.com/settlebook/settlebook/internal/report"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <transactions.csv>\n", os.Args[0])
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		exitf("Error: %v", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		exitf("Error: %v", err)
	}

	logger := log.NewZap(level).With(log.String("run_id", uuid.NewString()))
	defer logger.Sync() //nolint:errcheck // stderr sync failure has nowhere to go

	if err := run(os.Args[1], logger, os.Stdout); err != nil {
		logger.Error("run failed", log.Err(err))
		exitf("Error: %v", err)
	}
}

// run replays the transaction log at path and writes the account table to
// out. The only fatal conditions are failures of the source or the output
// stream themselves.
func run(path string, logger log.Logger, out io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open transaction log: %w", err)
	}
	defer file.Close()

	eng := engine.New(logger)
	if err := eng.Run(event.NewDecoder(file)); err != nil {
		return fmt.Errorf("replay %s: %w", path, err)
	}

	stats := eng.Stats()
	logger.Info("replay finished",
		log.String("path", path),
		log.Int("applied", stats.Applied),
		log.Int("skipped", stats.Skipped()),
		log.Int("decode_failures", stats.DecodeFailures),
		log.Int("accounts", len(eng.Accounts())),
	)

	if err := report.Write(out, eng.Accounts()); err != nil {
		return fmt.Errorf("write account table: %w", err)
	}

	return nil
}

// exitf writes a formatted error to stderr and exits non-zero.
func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
