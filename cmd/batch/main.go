// Command batch classifies every supported document in a directory and writes
// the aggregated results to a JSON file. It shares the server's configuration
// surface: config.toml, MAILTRIAGE_* environment variables, and overlays.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/opsdesk/mailtriage/internal/batch"
	"github.com/opsdesk/mailtriage/internal/config"
	"github.com/opsdesk/mailtriage/internal/infrastructure"
)

func main() {
	var (
		dir = flag.String("dir", "", "Directory of documents to classify (required)")
		out = flag.String("out", "classification_results.json", "Output JSON file")
	)
	flag.Parse()

	if *dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	rt, err := infrastructure.NewWorkflowRuntime(cfg, logger)
	if err != nil {
		log.Fatal("runtime init failed:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := batch.Run(ctx, rt, *dir)
	if err != nil {
		log.Fatal("batch run failed:", err)
	}

	if err := batch.WriteResults(*out, results); err != nil {
		log.Fatal("write results failed:", err)
	}

	logger.Info("batch complete", "documents", len(results), "output", *out)
}
