// Package optimize improves the soft-constraint cost of a hard-feasible
// assignment through simulated annealing: single-occurrence reassignments,
// strictly improving moves always accepted, worsening moves accepted with a
// decaying probability to escape local minima.
package optimize

import (
	"context"
	"math"
	"math/rand"
	"sync"

	"schedulecreator/internal/constraint"
	"schedulecreator/internal/model"
)

type Options struct {
	// Seed makes the sequence of candidate moves and accept/reject coin-flips
	// reproducible.
	Seed int64
	// MaxIterations bounds one trajectory.
	MaxIterations int
	// PlateauWindow stops a trajectory after this many iterations without a
	// new best cost.
	PlateauWindow int
	// TempHigh and TempLow bound the geometric cooling schedule.
	TempHigh float64
	TempLow  float64
	// Trajectories runs this many independent seeded trajectories and keeps
	// the cheapest result. Values below 2 run a single trajectory.
	Trajectories int
}

// DefaultOptions returns the annealing parameters used when the caller does
// not supply any.
func DefaultOptions() Options {
	return Options{
		MaxIterations: 20000,
		PlateauWindow: 2500,
		TempHigh:      4.0,
		TempLow:       0.05,
		Trajectories:  1,
	}
}

type Optimizer interface {
	// Improve returns an assignment whose soft cost is at most the input's,
	// along with that cost. Hard feasibility is preserved: every move is
	// checked against the occupancy indices before being applied.
	Improve(ctx context.Context, asg *model.Assignment) (*model.Assignment, float64)
}

func New(compiled *constraint.Compiled, options Options) Optimizer {
	defaults := DefaultOptions()
	if options.MaxIterations <= 0 {
		options.MaxIterations = defaults.MaxIterations
	}
	if options.PlateauWindow <= 0 {
		options.PlateauWindow = defaults.PlateauWindow
	}
	if options.TempHigh <= 0 {
		options.TempHigh = defaults.TempHigh
	}
	if options.TempLow <= 0 {
		options.TempLow = defaults.TempLow
	}
	if options.Trajectories <= 0 {
		options.Trajectories = defaults.Trajectories
	}
	return &annealer{compiled: compiled, options: options}
}

type annealer struct {
	compiled *constraint.Compiled
	options  Options
}

func (a *annealer) Improve(ctx context.Context, asg *model.Assignment) (*model.Assignment, float64) {
	if a.options.Trajectories <= 1 {
		return a.trajectory(ctx, asg, a.options.Seed)
	}

	//** Independent trajectories share nothing but the input assignment
	type outcome struct {
		assignment *model.Assignment
		cost       float64
	}
	outcomes := make([]outcome, a.options.Trajectories)

	var wg sync.WaitGroup
	for trajectory := 0; trajectory < a.options.Trajectories; trajectory++ {
		trajectory := trajectory
		wg.Add(1)
		go func() {
			defer wg.Done()
			improved, cost := a.trajectory(ctx, asg, a.options.Seed+int64(trajectory))
			outcomes[trajectory] = outcome{assignment: improved, cost: cost}
		}()
	}
	wg.Wait()

	best := outcomes[0]
	for _, candidate := range outcomes[1:] {
		if candidate.cost < best.cost {
			best = candidate
		}
	}
	return best.assignment, best.cost
}

// trajectory runs one seeded annealing pass over a private copy of the
// assignment and its occupancy indices.
func (a *annealer) trajectory(ctx context.Context, input *model.Assignment, seed int64) (*model.Assignment, float64) {
	m := a.compiled.Model()
	rng := rand.New(rand.NewSource(seed))

	compiled := a.compiled.Clone()
	asg := input.Clone()
	compiled.Rebuild(asg)

	cost := compiled.Cost(asg)
	best := asg.Clone()
	bestCost := cost
	sinceBest := 0

	// Movable occurrences: pinned single-candidate ones have nowhere to go.
	movable := make([]int, 0, len(m.Occurrences))
	for occ := range m.Occurrences {
		if asg.Assigned(occ) && len(m.Candidates[occ]) > 1 {
			movable = append(movable, occ)
		}
	}
	if len(movable) == 0 {
		return best, bestCost
	}

	cooling := math.Pow(a.options.TempLow/a.options.TempHigh, 1/float64(a.options.MaxIterations))
	temperature := a.options.TempHigh

	for iteration := 0; iteration < a.options.MaxIterations; iteration++ {
		if ctx.Err() != nil {
			break
		}

		occ := movable[rng.Intn(len(movable))]
		candidates := m.Candidates[occ]
		candidate := candidates[rng.Intn(len(candidates))]
		current := asg.Triples[occ]
		if candidate == current {
			continue
		}

		compiled.Unplace(occ, asg)
		if compiled.Conflicts(occ, candidate) {
			compiled.Place(occ, current, asg)
			temperature *= cooling
			continue
		}

		delta := compiled.Delta(asg, occ, current, candidate)
		if delta < 0 || rng.Float64() < math.Exp(-delta/temperature) {
			compiled.Place(occ, candidate, asg)
			cost += delta
		} else {
			compiled.Place(occ, current, asg)
		}

		if cost < bestCost {
			best = asg.Clone()
			bestCost = cost
			sinceBest = 0
		} else {
			sinceBest++
			if sinceBest >= a.options.PlateauWindow {
				break
			}
		}

		temperature *= cooling
	}

	return best, bestCost
}
