package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/samber/lo"

	"schedulecreator/internal/model"
	"schedulecreator/internal/scheduler"
)

// Benchmarks the solver over a directory of instance files and writes one CSV
// row per (instance, configuration) pair.

type TestMetadata struct {
	Name     string
	Teachers int
	Rooms    int
	Courses  int
	Input    *model.Instance
}

type ConfigMetadata struct {
	Label  string
	Config scheduler.Config
}

type Measurement struct {
	Test     TestMetadata
	Config   ConfigMetadata
	Status   scheduler.Status
	Cost     float64
	Nodes    int64
	Duration time.Duration
}

func main() {
	directory := flag.String("dir", "testdata", "directory containing instance files")
	output := flag.String("out", "benchmark.csv", "CSV file to write the measurements to")
	flag.Parse()

	tests := getTests(*directory)
	configs := getConfigs()

	results := make([]Measurement, 0, len(tests)*len(configs))
	for _, test := range tests {
		for _, config := range configs {
			results = append(results, measure(test, config))
		}
	}

	toCsv(results, *output)
}

func getTests(directory string) []TestMetadata {
	files, err := os.ReadDir(directory)
	if err != nil {
		log.Fatalf("cannot read directory: %v", err)
	}

	tests := make([]TestMetadata, 0, len(files))
	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		filename := path.Join(directory, file.Name())
		input, err := model.InputFromJSON(filename)
		if err != nil {
			log.Fatalf("cannot parse input file: %v", err)
		}

		tests = append(tests, TestMetadata{
			Name:     filename,
			Teachers: len(input.Teachers),
			Rooms:    len(input.Rooms),
			Courses:  len(input.Courses),
			Input:    input,
		})
	}

	return tests
}

func getConfigs() []ConfigMetadata {
	return []ConfigMetadata{
		{
			Label:  "sequential",
			Config: scheduler.Config{AcceptabilityThreshold: -1},
		},

		{
			Label:  "bounded-100k",
			Config: scheduler.Config{MaxSearchNodes: 100_000, AcceptabilityThreshold: -1},
		},

		{
			Label:  "parallel-4",
			Config: scheduler.Config{Parallelism: 4, AcceptabilityThreshold: -1},
		},
	}
}

func measure(test TestMetadata, config ConfigMetadata) Measurement {
	started := time.Now()
	outcome, err := scheduler.Solve(context.Background(), test.Input, config.Config)
	if err != nil {
		log.Fatalf("invalid instance %v: %v", test.Name, err)
	}

	return Measurement{
		Test:     test,
		Config:   config,
		Status:   outcome.Status,
		Cost:     outcome.Schedule.Cost,
		Nodes:    outcome.SearchNodes,
		Duration: time.Since(started),
	}
}

func toCsv(results []Measurement, output string) {
	records := [][]string{
		{"test", "teachers", "rooms", "courses", "config", "status", "cost", "nodes", "milliseconds"},
	}
	records = append(records, lo.Map(results, func(result Measurement, _ int) []string {
		return summarize(result)
	})...)

	file, err := os.Create(output)
	if err != nil {
		log.Fatalf("cannot create output file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		log.Fatalf("cannot write csv: %v", err)
	}
}

func summarize(result Measurement) []string {
	return []string{
		result.Test.Name,
		fmt.Sprint(result.Test.Teachers),
		fmt.Sprint(result.Test.Rooms),
		fmt.Sprint(result.Test.Courses),
		result.Config.Label,
		result.Status.String(),
		fmt.Sprintf("%.2f", result.Cost),
		fmt.Sprint(result.Nodes),
		fmt.Sprint(result.Duration.Milliseconds()),
	}
}
