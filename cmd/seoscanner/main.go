package main

import (
	"context"
	"fmt"
	"os"

	"SEOScanner/internal/app"
	"SEOScanner/internal/config"
	"SEOScanner/internal/logging"
	"SEOScanner/internal/report"
	"SEOScanner/pkg/logger"
)

func main() {
	ctx := context.Background()
	startup := logger.New("startup")

	cfg := config.Load()
	slogger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, slogger)
	if err != nil {
		startup.Fatalf("wiring application: %v", err)
	}
	defer application.Close(ctx)

	// URLs on the command line run one-shot analyses and print the
	// report; with no arguments the configured sites are processed.
	if len(os.Args) > 1 {
		for _, url := range os.Args[1:] {
			result, err := application.Pipeline().Analyze(ctx, url)
			if err != nil {
				slogger.Error("analysis failed", "url", url, "error", err)
				os.Exit(1)
			}
			fmt.Println(report.Render(result))
		}
		return
	}

	if err := application.Run(ctx); err != nil {
		slogger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
