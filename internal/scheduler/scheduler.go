// Package scheduler is the facade orchestrating one scheduling run: validate
// the instance, compile the constraints, search for a hard-feasible
// assignment, anneal the soft cost and assemble the final schedule with its
// violation report. It performs no I/O.
package scheduler

import (
	"context"
	"fmt"
	"slices"
	"time"

	"schedulecreator/internal/constraint"
	"schedulecreator/internal/model"
	"schedulecreator/internal/optimize"
	"schedulecreator/internal/search"
)

// Config tunes one solve call. The zero value runs an unbounded sequential
// search with the default annealing parameters and a zero acceptability
// threshold: any positive soft cost is reported as SolvedWithViolations.
type Config struct {
	// MaxSearchNodes bounds backtracking exploration. Zero means unbounded.
	MaxSearchNodes int64
	// TimeBudget bounds the whole run in wall-clock time. Zero means none.
	TimeBudget time.Duration
	// AcceptabilityThreshold is the soft-cost ceiling below which the outcome
	// is Solved rather than SolvedWithViolations. Negative disables the
	// distinction (any cost counts as Solved).
	AcceptabilityThreshold float64
	// RandomSeed drives the optimizer's move selection for reproducibility.
	RandomSeed int64
	// Parallelism is the number of concurrent search workers and optimizer
	// trajectories. Values below 2 keep everything sequential.
	Parallelism int
	// Optimizer overrides the default annealing parameters when non-zero.
	Optimizer optimize.Options
	// ExtraSoft adds caller-defined soft constraint kinds to the built-ins.
	ExtraSoft []constraint.Soft
}

// Status classifies a solve outcome.
type Status int

const (
	StatusSolved Status = iota
	StatusSolvedWithViolations
	StatusInfeasible
	// StatusExhausted means the budget ran out before the search either found
	// a complete assignment or proved none exists. It is never coerced into
	// Solved or Infeasible.
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusSolvedWithViolations:
		return "solved-with-violations"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "exhausted"
	}
}

// Outcome is the result of one solve call. Schedule is always populated:
// complete for the solved statuses, best-effort for the others.
type Outcome struct {
	Status      Status
	Schedule    *model.Schedule
	SearchNodes int64
}

// Solve runs the full pipeline on an already-parsed instance. Validation
// failures (malformed input) surface as errors before any search begins;
// infeasibility and budget exhaustion are expected outcomes, not errors.
func Solve(ctx context.Context, in *model.Instance, cfg Config) (Outcome, error) {
	m, err := model.Validate(in)
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid instance: %w", err)
	}

	if cfg.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeBudget)
		defer cancel()
	}

	compiled := constraint.Compile(m, cfg.ExtraSoft...)
	engine := search.New(m, compiled, search.Options{
		MaxNodes:    cfg.MaxSearchNodes,
		Parallelism: cfg.Parallelism,
	})
	result := engine.Run(ctx)

	switch result.Status {
	case search.StatusSolved:
		return solvedOutcome(ctx, m, compiled, cfg, result)
	case search.StatusExhausted:
		outcome := bestEffortOutcome(m, compiled, result)
		outcome.Status = StatusExhausted
		return outcome, nil
	default:
		outcome := bestEffortOutcome(m, compiled, result)
		outcome.Status = StatusInfeasible
		return outcome, nil
	}
}

func solvedOutcome(ctx context.Context, m *model.ValidatedModel, compiled *constraint.Compiled, cfg Config, result search.Result) (Outcome, error) {
	options := cfg.Optimizer
	options.Seed = cfg.RandomSeed
	if options.Trajectories == 0 && cfg.Parallelism > 1 {
		options.Trajectories = cfg.Parallelism
	}

	optimizer := optimize.New(compiled, options)
	improved, cost := optimizer.Improve(ctx, result.Assignment)

	// A hard violation here means the engine's incremental indices lied;
	// continuing would publish a schedule that breaks a hard constraint.
	verification := compiled.Clone()
	verification.Rebuild(improved)
	if hard := verification.HardViolations(improved); len(hard) > 0 {
		panic(fmt.Sprintf("optimized assignment violates hard constraints: %+v", hard))
	}

	schedule := buildSchedule(m, improved, cost, compiled.SoftReport(improved))
	status := StatusSolved
	if cfg.AcceptabilityThreshold >= 0 && cost > cfg.AcceptabilityThreshold {
		status = StatusSolvedWithViolations
	}
	return Outcome{Status: status, Schedule: schedule, SearchNodes: result.Nodes}, nil
}

// bestEffortOutcome assembles the diagnostic schedule for infeasible or
// exhausted searches: the best partial assignment, padded with
// non-conflicting triples where any remain, plus a report naming the blocked
// occurrences.
func bestEffortOutcome(m *model.ValidatedModel, compiled *constraint.Compiled, result search.Result) Outcome {
	asg := result.Assignment.Clone()
	padded := compiled.Clone()
	padded.Rebuild(asg)

	for occ := range m.Occurrences {
		if asg.Assigned(occ) {
			continue
		}
		for _, candidate := range m.Candidates[occ] {
			if !padded.Conflicts(occ, candidate) {
				padded.Place(occ, candidate, asg)
				break
			}
		}
	}

	violations := padded.HardViolations(asg)
	for occ := range m.Occurrences {
		if !asg.Assigned(occ) {
			violations = append(violations, model.Violation{
				Constraint: "unplaced-occurrence",
				Severity:   model.SeverityHard,
				Entities:   entitiesFor(m, occ),
				Cost:       1,
			})
		}
	}
	for _, occ := range result.Blocked {
		violations = append(violations, model.Violation{
			Constraint: "no-feasible-candidate",
			Severity:   model.SeverityHard,
			Entities:   entitiesFor(m, occ),
			Cost:       1,
		})
	}

	cost := padded.Cost(asg)
	schedule := buildSchedule(m, asg, cost, append(violations, padded.SoftReport(asg)...))
	return Outcome{Schedule: schedule, SearchNodes: result.Nodes}
}

// entitiesFor names the occurrence and the entities whose constraints bound
// it: its course, eligible teachers and eligible rooms. Over-subscribed
// teachers or fully unavailable ones show up here by being the only names a
// blocked occurrence can cite.
func entitiesFor(m *model.ValidatedModel, occ int) []string {
	course := m.Instance.Courses[m.Occurrences[occ].Course]
	entities := []string{m.OccurrenceName(occ)}
	entities = append(entities, course.Teachers...)
	entities = append(entities, course.Rooms...)
	return entities
}

func buildSchedule(m *model.ValidatedModel, asg *model.Assignment, cost float64, violations []model.Violation) *model.Schedule {
	in := m.Instance
	schedule := &model.Schedule{Cost: cost, Violations: violations}

	for occ := range asg.Triples {
		if !asg.Assigned(occ) {
			continue
		}
		t := asg.Triples[occ]
		occurrence := m.Occurrences[occ]
		schedule.Entries = append(schedule.Entries, model.Entry{
			Course:  in.Courses[occurrence.Course].ID,
			Seq:     occurrence.Seq,
			Day:     t.Slot.Day,
			Period:  t.Slot.Period,
			Teacher: in.Teachers[t.Teacher].ID,
			Room:    in.Rooms[t.Room].ID,
		})
	}

	slices.SortFunc(schedule.Entries, func(a, b model.Entry) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		if a.Period != b.Period {
			return a.Period - b.Period
		}
		if a.Course != b.Course {
			if a.Course < b.Course {
				return -1
			}
			return 1
		}
		return a.Seq - b.Seq
	})

	return schedule
}
