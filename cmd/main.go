package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"schedulecreator/internal/model"
	"schedulecreator/internal/scheduler"
)

var Days = map[int]string{
	0: "Monday",
	1: "Tuesday",
	2: "Wednesday",
	3: "Thursday",
	4: "Friday",
	5: "Saturday",
	6: "Sunday",
}

func main() {
	file := flag.String("instance", "testdata/sample.json", "instance file to solve")
	seed := flag.Int64("seed", 0, "optimizer random seed")
	flag.Parse()

	input, err := model.InputFromJSON(*file)
	if err != nil {
		log.Fatalf("cannot parse input file: %v", err)
	}

	outcome, err := scheduler.Solve(context.Background(), input, scheduler.Config{
		RandomSeed:             *seed,
		AcceptabilityThreshold: -1,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Status: %v (soft cost %.2f, %v search nodes)\n\n", outcome.Status, outcome.Schedule.Cost, outcome.SearchNodes)

	for _, entry := range outcome.Schedule.Entries {
		fmt.Printf("%v, period %v: %v (#%v) taught by %v in %v\n",
			Days[entry.Day], entry.Period, entry.Course, entry.Seq, entry.Teacher, entry.Room)
	}

	if len(outcome.Schedule.Violations) > 0 {
		fmt.Println()
		for _, violation := range outcome.Schedule.Violations {
			fmt.Printf("[%v] %v: %v (cost %.2f)\n",
				violation.Severity, violation.Constraint, violation.Entities, violation.Cost)
		}
	}
}
