// Package search implements the hard-constraint assignment search: iterative
// backtracking over an explicit frame stack with most-constrained-first
// ordering and forward checking.
package search

import (
	"context"

	"schedulecreator/internal/constraint"
	"schedulecreator/internal/model"
)

// Status classifies a search result. Exhausted is deliberately distinct from
// Infeasible: it means no certificate of infeasibility was found within the
// node budget or deadline, not that none exists.
type Status int

const (
	StatusSolved Status = iota
	StatusInfeasible
	StatusExhausted
)

func (s Status) String() string {
	switch s {
	case StatusSolved:
		return "solved"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "exhausted"
	}
}

type Options struct {
	// MaxNodes bounds the number of candidate triples tried. Zero means
	// unbounded.
	MaxNodes int64
	// Parallelism splits the first occurrence's candidates across this many
	// workers. Values below 2 keep the search sequential.
	Parallelism int
}

// Result carries the outcome of one search. Assignment is complete when
// Status is Solved, and the best partial assignment found otherwise. Blocked
// lists the occurrences whose remaining candidate lists emptied most often,
// ordered by frequency; they are the prime suspects of an infeasibility.
type Result struct {
	Status     Status
	Assignment *model.Assignment
	Nodes      int64
	Blocked    []int
}

type Engine interface {
	Run(ctx context.Context) Result
}

// New creates a search engine over a validated model and its compiled
// constraints. The engine never mutates the compiled instance it is given:
// every run works on clones.
func New(m *model.ValidatedModel, compiled *constraint.Compiled, options Options) Engine {
	return &backtracker{model: m, compiled: compiled, options: options}
}
