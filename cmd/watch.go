package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bigocheck/internal/analyzer"
	"bigocheck/internal/config"
	"bigocheck/internal/watcher"

	"github.com/fatih/color"
)

// runWatch analyzes everything once, then re-analyzes changed files until ctx
// is cancelled.
func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string, analyzerEngine *analyzer.Analyzer, reportGen *analyzer.ReportGenerator) error {
	analyzeOnce(ctx, cfg, args, analyzerEngine, reportGen)

	fw, err := watcher.NewFileWatcher(cfg, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	dirs := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", arg, err)
		}
		if info.IsDir() {
			dirs = append(dirs, arg)
		} else {
			dirs = append(dirs, filepath.Dir(arg))
		}
	}

	handler := func(changed []string) error {
		existing := make([]string, 0, len(changed))
		for _, path := range changed {
			if _, err := os.Stat(path); err == nil {
				existing = append(existing, path)
			}
		}
		if len(existing) == 0 {
			return nil
		}
		color.Cyan("\n♻️  %d file(s) changed, re-analyzing...\n\n", len(existing))
		result, err := analyzerEngine.AnalyzeFiles(ctx, existing)
		if err != nil {
			return err
		}
		fmt.Print(reportGen.Generate(result))
		return nil
	}

	if err := fw.Watch(dirs, handler); err != nil {
		return err
	}
	logger.Info("watching for changes", "dirs", len(fw.GetWatchedPaths()))
	color.Cyan("👀 Watching for changes (Ctrl+C to stop)...\n")

	<-ctx.Done()
	return nil
}
