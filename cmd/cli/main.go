package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"schedulecreator/internal/model"
	"schedulecreator/internal/scheduler"
)

// Exit codes mirror the outcome statuses so shell pipelines can branch on
// them.
const (
	exitInfeasible = 20
	exitExhausted  = 15
)

func main() {
	// Define arguments
	filePathPtr := flag.String("file", "", "Path to the instance file")
	configPathPtr := flag.String("config", "", "Path to an optional solver config file (json/yaml/toml)")
	outFilePathPtr := flag.String("out", "", "Path to the file where the schedule will be written; if empty, it'll be written into the Standard Output")
	verbosePtr := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()
	filePath := *filePathPtr
	outFile := *outFilePathPtr

	// Validate arguments
	if filePath == "" {
		log.Fatal("an instance file must be specified")
	}

	logger := newLogger(*verbosePtr)
	defer logger.Sync()

	// Extract solver configuration
	cfg, err := loadConfig(*configPathPtr)
	if err != nil {
		logger.Fatalw("cannot load solver config", "error", err)
	}

	// Extract input
	input, err := model.InputFromJSON(filePath)
	if err != nil {
		logger.Fatalw("cannot parse instance file", "error", err)
	}

	logger.Infow("solving instance",
		"file", filePath,
		"teachers", len(input.Teachers),
		"rooms", len(input.Rooms),
		"courses", len(input.Courses),
		"maxSearchNodes", cfg.MaxSearchNodes,
		"timeBudget", cfg.TimeBudget,
		"parallelism", cfg.Parallelism,
	)

	started := time.Now()
	outcome, err := scheduler.Solve(context.Background(), input, cfg)
	if err != nil {
		logger.Fatalw("invalid instance", "error", err)
	}

	logger.Infow("solve finished",
		"status", outcome.Status.String(),
		"softCost", outcome.Schedule.Cost,
		"searchNodes", outcome.SearchNodes,
		"violations", len(outcome.Schedule.Violations),
		"elapsed", time.Since(started),
	)

	if err := writeSchedule(outcome.Schedule, outFile); err != nil {
		logger.Fatalw("cannot write schedule", "error", err)
	}

	switch outcome.Status {
	case scheduler.StatusInfeasible:
		os.Exit(exitInfeasible)
	case scheduler.StatusExhausted:
		os.Exit(exitExhausted)
	}
}

func newLogger(verbose bool) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	if verbose {
		config = zap.NewDevelopmentConfig()
	}
	logger, err := config.Build()
	if err != nil {
		log.Fatalf("cannot initialize logger: %v", err)
	}
	return logger.Sugar()
}

// loadConfig reads the solver tuning knobs from an optional config file.
// Missing file or keys fall back to defaults: unbounded sequential search
// with no acceptability threshold.
func loadConfig(path string) (scheduler.Config, error) {
	v := viper.New()
	v.SetDefault("max_search_nodes", 0)
	v.SetDefault("time_budget", "")
	v.SetDefault("acceptability_threshold", -1.0)
	v.SetDefault("random_seed", 0)
	v.SetDefault("parallelism", 1)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return scheduler.Config{}, err
		}
	}

	cfg := scheduler.Config{
		MaxSearchNodes:         v.GetInt64("max_search_nodes"),
		AcceptabilityThreshold: v.GetFloat64("acceptability_threshold"),
		RandomSeed:             v.GetInt64("random_seed"),
		Parallelism:            v.GetInt("parallelism"),
	}
	if budget := v.GetString("time_budget"); budget != "" {
		duration, err := time.ParseDuration(budget)
		if err != nil {
			return scheduler.Config{}, fmt.Errorf("invalid time_budget: %w", err)
		}
		cfg.TimeBudget = duration
	}
	return cfg, nil
}

func writeSchedule(schedule *model.Schedule, outFile string) error {
	encoded, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return err
	}
	if outFile == "" {
		fmt.Println(string(encoded))
		return nil
	}
	return os.WriteFile(outFile, encoded, 0o644)
}
