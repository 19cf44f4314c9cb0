// Package constraint compiles a validated model into fast incremental
// constraint checks: per-teacher, per-room and per-course slot-occupancy
// indices for hard-conflict detection, and a decomposable soft-cost function
// for the optimizer.
package constraint

import "schedulecreator/internal/model"

// Soft is one soft-constraint kind. New kinds are added as new
// implementations, never by modifying existing ones.
type Soft interface {
	Name() string

	// Cost evaluates the kind over a full assignment. Always non-negative.
	Cost(m *model.ValidatedModel, asg *model.Assignment) float64

	// Delta returns the cost change of moving occurrence occ from old to new.
	// It is called while occ is unplaced in asg; either triple may be
	// unassigned (old during initial placement, new when removing).
	Delta(m *model.ValidatedModel, asg *model.Assignment, occ int, old, new model.Triple) float64
}

// Defaults returns the built-in soft constraint kinds.
func Defaults() []Soft {
	return []Soft{
		AvoidMorning{},
		BalanceDailyLoad{},
		MinimizeGaps{},
		SlotPreference{},
		LunchBreak{},
		EveningHours{},
	}
}

// Compile builds the incremental checks for a validated model. Extra soft
// kinds are evaluated alongside the built-in ones.
func Compile(m *model.ValidatedModel, extra ...Soft) *Compiled {
	compiled := &Compiled{
		model: m,
		softs: append(Defaults(), extra...),
	}
	compiled.reset()
	return compiled
}
